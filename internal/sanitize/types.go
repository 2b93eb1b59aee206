package sanitize

import "github.com/bodyscrub/bodyscrub/internal/rules"

type Class string

const (
	ClassKeep        Class = "keep"
	ClassDrop        Class = "drop"
	ClassCutoff      Class = "cutoff"
	ClassSpam        Class = "spam"
	ClassAfterCutoff Class = "after_cutoff"
)

const (
	DefaultMaxHeadlineWords = 20
	DefaultMinSpamRun       = 2
)

// Line is one line of a body with its zero-based position.
type Line struct {
	Index int
	Text  string
}

// Decision is the classification of one line. PatternID and Evidence are set
// for drop and cutoff decisions.
type Decision struct {
	Index     int
	Class     Class
	PatternID string
	Evidence  string
}

// Options tunes the trailing headline-spam heuristic. The zero value enables
// it with the default thresholds.
type Options struct {
	DisableSpamTail bool
	// MaxHeadlineWords is the exclusive word-count ceiling for a line to
	// look like a headline.
	MaxHeadlineWords int
	// MinSpamRun is the shortest trailing run treated as spam. Values below
	// 2 are raised to 2: a single short closing line is never removed.
	MinSpamRun int
	// Unanchored removes a trailing run even when no content line precedes
	// it, so a body made only of headlines comes back empty.
	Unanchored bool
}

func (o Options) withDefaults() Options {
	if o.MaxHeadlineWords <= 0 {
		o.MaxHeadlineWords = DefaultMaxHeadlineWords
	}
	if o.MinSpamRun < DefaultMinSpamRun {
		o.MinSpamRun = DefaultMinSpamRun
	}
	return o
}

type Match struct {
	PatternID string         `json:"pattern_id"`
	Category  rules.Category `json:"category"`
	Line      int            `json:"line"`
	Evidence  string         `json:"evidence"`
}

type Stats struct {
	InputLines    int     `json:"input_lines"`
	OutputLines   int     `json:"output_lines"`
	Kept          int     `json:"kept"`
	Dropped       int     `json:"dropped"`
	Spam          int     `json:"spam"`
	AfterCutoff   int     `json:"after_cutoff"`
	CutoffLine    int     `json:"cutoff_line"`
	CutoffPattern string  `json:"cutoff_pattern,omitempty"`
	Matches       []Match `json:"matches,omitempty"`
}

// Result is the full outcome of sanitizing one body.
type Result struct {
	Text      string
	Lines     []Line
	Decisions []Decision
	Stats     Stats
}

// Empty reports whether nothing usable survived cleaning. Callers are
// expected to fall back (for example to the article excerpt).
func (r Result) Empty() bool {
	return r.Text == ""
}
