// Package service runs bodies through the sanitizer registry and records the
// outcome. It is shared by the CLI, the batch runner and the HTTP server.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/bodyscrub/bodyscrub/internal/config"
	"github.com/bodyscrub/bodyscrub/internal/logging"
	"github.com/bodyscrub/bodyscrub/internal/observability"
	"github.com/bodyscrub/bodyscrub/internal/policy"
	"github.com/bodyscrub/bodyscrub/internal/sanitize"
	"github.com/rs/zerolog/log"
)

// Item is one article body handed over by a scraper.
type Item struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source,omitempty"`
	Body   string `json:"body"`
}

type Output struct {
	ID      string         `json:"id,omitempty"`
	Source  string         `json:"source,omitempty"`
	Body    string         `json:"body"`
	Empty   bool           `json:"empty"`
	Applied bool           `json:"applied"`
	Outcome string         `json:"outcome"`
	Stats   sanitize.Stats `json:"stats"`
}

type Service struct {
	registry *sanitize.Registry
	mode     policy.Mode
	records  *logging.RecordLogger
	metrics  *observability.Metrics
}

func New(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	mode, ok := policy.ParseMode(cfg.Mode)
	if !ok {
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	registry, err := sanitize.BuildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	return &Service{registry: registry, mode: mode}, nil
}

func (s *Service) SetRecordLogger(logger *logging.RecordLogger) {
	s.records = logger
}

func (s *Service) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

func (s *Service) Registry() *sanitize.Registry {
	return s.registry
}

func (s *Service) Mode() policy.Mode {
	return s.mode
}

// Process sanitizes one body. It never fails: an unusable body comes back
// with Empty set and the caller decides on a fallback.
func (s *Service) Process(item Item, requestID string) Output {
	start := time.Now()
	name, sanitizer := s.registry.Resolve(item.Source)
	res := sanitizer.Run(item.Body)
	body, applied := policy.Apply(s.mode, item.Body, res)
	outcome := policy.Outcome(item.Body, res)

	out := Output{
		ID:      item.ID,
		Source:  item.Source,
		Body:    body,
		Empty:   res.Empty(),
		Applied: applied,
		Outcome: outcome,
		Stats:   res.Stats,
	}

	record := newRecord(item, requestID, string(s.mode), out, time.Since(start))
	if err := s.records.Write(record); err != nil {
		log.Warn().Err(err).Str("article", item.ID).Msg("record log write failed")
	}
	// Metrics carry configured source names only; anything else is default.
	labeled := record
	labeled.Source = name
	s.metrics.Observe(labeled)

	if out.Empty {
		log.Debug().Str("source", item.Source).Str("article", item.ID).Str("cutoff", res.Stats.CutoffPattern).Msg("nothing usable survived cleaning")
	}
	return out
}

func newRecord(item Item, requestID, mode string, out Output, elapsed time.Duration) logging.Record {
	return logging.Record{
		Timestamp:     time.Now().UTC(),
		RequestID:     requestID,
		Source:        item.Source,
		ArticleID:     item.ID,
		Mode:          mode,
		Applied:       out.Applied,
		Outcome:       out.Outcome,
		InputLines:    out.Stats.InputLines,
		OutputLines:   out.Stats.OutputLines,
		Kept:          out.Stats.Kept,
		Dropped:       out.Stats.Dropped,
		Spam:          out.Stats.Spam,
		AfterCutoff:   out.Stats.AfterCutoff,
		CutoffLine:    out.Stats.CutoffLine,
		CutoffPattern: out.Stats.CutoffPattern,
		Matches:       mapMatches(out.Stats.Matches),
		DurationUS:    elapsed.Microseconds(),
	}
}

func mapMatches(matches []sanitize.Match) []logging.MatchedLine {
	if len(matches) == 0 {
		return nil
	}
	out := make([]logging.MatchedLine, len(matches))
	for i, m := range matches {
		out[i] = logging.MatchedLine{
			PatternID: m.PatternID,
			Category:  string(m.Category),
			Line:      m.Line,
			Evidence:  m.Evidence,
		}
	}
	return out
}
