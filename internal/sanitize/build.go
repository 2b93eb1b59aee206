package sanitize

import (
	"errors"
	"fmt"

	"github.com/bodyscrub/bodyscrub/internal/config"
	"github.com/bodyscrub/bodyscrub/internal/rules"
)

// BuildRegistry compiles the configured tables once: the global sanitizer
// plus one per configured source. Any pattern error aborts startup.
func BuildRegistry(cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	base := rules.Tables{}
	if cfg.UseDefaultPatterns() {
		base = rules.DefaultTables()
	}
	configured, err := rules.Build(specs(cfg.Patterns.Drop), specs(cfg.Patterns.Cutoff), cfg.BaseDir())
	if err != nil {
		return nil, err
	}
	global := rules.Merge(base, configured)
	globalOpts := options(cfg.SpamTail)

	sources := make(map[string]*Sanitizer, len(cfg.Sources))
	for name, src := range cfg.Sources {
		extra, err := rules.Build(specs(src.Drop), specs(src.Cutoff), cfg.BaseDir())
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", name, err)
		}
		opts := globalOpts
		if src.SpamTail != nil {
			opts = options(*src.SpamTail)
		}
		sources[name] = New(rules.Merge(global, extra), opts)
	}

	return NewRegistry(New(global, globalOpts), sources), nil
}

func specs(patterns []config.PatternConfig) []rules.Spec {
	out := make([]rules.Spec, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, rules.Spec{
			ID:           p.ID,
			Pattern:      p.Pattern,
			PatternsFile: p.PatternsFile,
			Note:         p.Note,
		})
	}
	return out
}

func options(st config.SpamTailConfig) Options {
	return Options{
		DisableSpamTail:  !st.IsEnabled(),
		MaxHeadlineWords: st.MaxWords,
		MinSpamRun:       st.MinRun,
		Unanchored:       st.Unanchored,
	}
}
