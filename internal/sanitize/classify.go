package sanitize

import (
	"strings"
	"unicode/utf8"

	"github.com/bodyscrub/bodyscrub/internal/normalize"
)

// Classify assigns one decision per line, in order. Cutoff is checked before
// drop, so a line matching both ends the body. Every line after the first
// cutoff is ClassAfterCutoff without being tested.
func (s *Sanitizer) Classify(lines []Line) []Decision {
	decisions := make([]Decision, len(lines))
	keys := make([]string, len(lines))

	cut := false
	for i, line := range lines {
		decisions[i] = Decision{Index: line.Index, Class: ClassKeep}
		if cut {
			decisions[i].Class = ClassAfterCutoff
			continue
		}

		key := normalize.Key(line.Text)
		keys[i] = key
		if key == "" {
			continue
		}

		if p, evidence, ok := s.tables.Cutoff.Match(key); ok {
			decisions[i].Class = ClassCutoff
			decisions[i].PatternID = p.ID
			decisions[i].Evidence = evidence
			cut = true
			continue
		}
		if p, evidence, ok := s.tables.Drop.Match(key); ok {
			decisions[i].Class = ClassDrop
			decisions[i].PatternID = p.ID
			decisions[i].Evidence = evidence
		}
	}

	if !s.opts.DisableSpamTail {
		s.markSpamTail(decisions, keys)
	}
	return decisions
}

// markSpamTail reclassifies the maximal trailing run of headline-like kept
// lines. Blank lines and lines already discarded do not break the run. The
// run is only removed when it is long enough and, unless Unanchored is set,
// some kept content line precedes it.
func (s *Sanitizer) markSpamTail(decisions []Decision, keys []string) {
	run := make([]int, 0, s.opts.MinSpamRun)
	anchored := false

	for i := len(decisions) - 1; i >= 0; i-- {
		if decisions[i].Class != ClassKeep || keys[i] == "" {
			continue
		}
		if !s.looksLikeHeadline(keys[i]) {
			anchored = true
			break
		}
		run = append(run, i)
	}

	if (!anchored && !s.opts.Unanchored) || len(run) < s.opts.MinSpamRun {
		return
	}
	for _, i := range run {
		decisions[i].Class = ClassSpam
	}
}

func (s *Sanitizer) looksLikeHeadline(key string) bool {
	words := len(strings.Fields(key))
	if words == 0 || words >= s.opts.MaxHeadlineWords {
		return false
	}
	return !endsSentence(key)
}

const closers = `"'”’»)]}`

func endsSentence(key string) bool {
	trimmed := strings.TrimRight(key, closers)
	r, _ := utf8.DecodeLastRuneInString(trimmed)
	switch r {
	case '.', '?', '!', '…', '。', '！', '？':
		return true
	}
	return false
}
