package logging

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const maxEvidence = 64

// Record is written as a single JSON object per sanitized body.
type Record struct {
	Timestamp     time.Time     `json:"ts"`
	RequestID     string        `json:"request_id,omitempty"`
	Source        string        `json:"source"`
	ArticleID     string        `json:"article_id,omitempty"`
	Mode          string        `json:"mode"`
	Applied       bool          `json:"applied"`
	Outcome       string        `json:"outcome"`
	InputLines    int           `json:"input_lines"`
	OutputLines   int           `json:"output_lines"`
	Kept          int           `json:"kept"`
	Dropped       int           `json:"dropped"`
	Spam          int           `json:"spam"`
	AfterCutoff   int           `json:"after_cutoff"`
	CutoffLine    int           `json:"cutoff_line"`
	CutoffPattern string        `json:"cutoff_pattern,omitempty"`
	Matches       []MatchedLine `json:"matches,omitempty"`
	DurationUS    int64         `json:"duration_us"`
}

type MatchedLine struct {
	PatternID string `json:"pattern_id"`
	Category  string `json:"category"`
	Line      int    `json:"line"`
	Evidence  string `json:"evidence"`
}

// RecordLogger appends records as JSON lines. Writes are serialized so one
// logger can be shared by concurrent sanitize calls.
type RecordLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func NewRecordLogger(w io.Writer) *RecordLogger {
	return &RecordLogger{w: w}
}

func OpenRecordLog(path string) (*RecordLogger, func() error, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return NewRecordLogger(file), file.Close, nil
}

func (l *RecordLogger) Write(record Record) error {
	if l == nil {
		return nil
	}
	record.Matches = truncateEvidence(record.Matches)

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.w.Write(append(data, '\n'))
	return err
}

func truncateEvidence(matches []MatchedLine) []MatchedLine {
	if len(matches) == 0 {
		return nil
	}
	out := make([]MatchedLine, len(matches))
	for i, m := range matches {
		out[i] = m
		if len(m.Evidence) > maxEvidence {
			out[i].Evidence = strings.ToValidUTF8(m.Evidence[:maxEvidence], "")
		}
	}
	return out
}
