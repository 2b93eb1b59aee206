// Package sanitize turns a scraped article body into a clean body by dropping
// junk lines, truncating at section boundaries and removing trailing lists of
// unrelated headlines.
package sanitize

import (
	"strings"

	"github.com/bodyscrub/bodyscrub/internal/normalize"
	"github.com/bodyscrub/bodyscrub/internal/rules"
)

// Sanitizer is immutable after New and safe for concurrent use.
type Sanitizer struct {
	tables rules.Tables
	opts   Options
}

func New(tables rules.Tables, opts Options) *Sanitizer {
	return &Sanitizer{tables: tables, opts: opts.withDefaults()}
}

// Default returns a sanitizer over the built-in tables.
func Default() *Sanitizer {
	return New(rules.DefaultTables(), Options{})
}

func (s *Sanitizer) Tables() rules.Tables {
	return s.tables
}

func (s *Sanitizer) Options() Options {
	return s.opts
}

// Sanitize returns the cleaned body, or "" when nothing usable survived.
// Lines are split on \r\n, \r, U+2028 and U+2029 as well as \n, and the
// output always uses \n. The output never has more lines than the input
// when both are counted with SplitLines; a raw count of '\n' can grow.
func (s *Sanitizer) Sanitize(body string) string {
	return s.Run(body).Text
}

func (s *Sanitizer) Run(body string) Result {
	lines := SplitLines(body)
	decisions := s.Classify(lines)
	out := assembleLines(lines, decisions)

	return Result{
		Text:      strings.Join(out, "\n"),
		Lines:     lines,
		Decisions: decisions,
		Stats:     stats(decisions, len(out)),
	}
}

// SplitLines splits body on every line-break form Sanitize recognizes.
func SplitLines(body string) []Line {
	raw := normalize.SplitLines(body)
	lines := make([]Line, len(raw))
	for i, text := range raw {
		lines[i] = Line{Index: i, Text: text}
	}
	return lines
}

func stats(decisions []Decision, outputLines int) Stats {
	st := Stats{InputLines: len(decisions), OutputLines: outputLines, CutoffLine: -1}
	for _, d := range decisions {
		switch d.Class {
		case ClassKeep:
			st.Kept++
		case ClassDrop:
			st.Dropped++
			st.Matches = append(st.Matches, Match{PatternID: d.PatternID, Category: rules.CategoryDrop, Line: d.Index, Evidence: d.Evidence})
		case ClassCutoff:
			st.CutoffLine = d.Index
			st.CutoffPattern = d.PatternID
			st.Matches = append(st.Matches, Match{PatternID: d.PatternID, Category: rules.CategoryCutoff, Line: d.Index, Evidence: d.Evidence})
		case ClassSpam:
			st.Spam++
		case ClassAfterCutoff:
			st.AfterCutoff++
		}
	}
	return st
}
