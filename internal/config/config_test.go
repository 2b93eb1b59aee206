package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "bodyscrub.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
configVersion: 1
mode: shadow
patterns:
  drop:
    - id: tribune
      patternsFile: phrases/tribune.txt
      note: syndication footer
  cutoff:
    - id: gallery
      pattern: '^photo gallery:?$'
spamTail:
  maxWords: 12
sources:
  search:
    spamTail:
      minRun: 3
server:
  readTimeout: 2s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Mode != ModeShadow {
		t.Fatalf("expected shadow mode, got %q", cfg.Mode)
	}
	if cfg.Server.Listen != ":8080" || cfg.Server.MaxBodyBytes != 1<<20 {
		t.Fatalf("expected server defaults kept, got %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout != 2*time.Second {
		t.Fatalf("expected readTimeout 2s, got %s", cfg.Server.ReadTimeout)
	}
	if !cfg.UseDefaultPatterns() || !cfg.SpamTail.IsEnabled() {
		t.Fatalf("expected defaults and spam tail enabled when unset")
	}
	if cfg.SpamTail.MaxWords != 12 {
		t.Fatalf("expected maxWords 12, got %d", cfg.SpamTail.MaxWords)
	}
	if got := cfg.ResolvePath(cfg.Patterns.Drop[0].PatternsFile); got != filepath.Join(dir, "phrases", "tribune.txt") {
		t.Fatalf("unexpected resolved path %q", got)
	}
	if cfg.Sources["search"].SpamTail == nil || cfg.Sources["search"].SpamTail.MinRun != 3 {
		t.Fatalf("expected source spam tail override")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.HasPrefix(err.Error(), "read config:") {
		t.Fatalf("expected read error, got %v", err)
	}

	path := writeConfig(t, t.TempDir(), "patterns: [oops")
	if _, err := Load(path); err == nil || !strings.HasPrefix(err.Error(), "parse config:") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to be valid: %v", err)
	}
}

func TestValidateCollectsProblems(t *testing.T) {
	off := false
	cfg := Default()
	cfg.ConfigVersion = 2
	cfg.Mode = "learn"
	cfg.Patterns.UseDefaults = &off
	cfg.SpamTail.MinRun = 1
	cfg.Sources = map[string]SourceConfig{
		"wire": {Drop: []PatternConfig{
			{ID: "a", Pattern: "(broken"},
			{ID: "a", PatternsFile: "nope.txt"},
			{Pattern: "x", PatternsFile: "y"},
		}},
	}
	cfg.Server.RateLimit = RateLimitConfig{Enabled: true, StatusCode: 200}
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	want := []string{
		"configVersion must be 1",
		"mode must be enforce|shadow",
		"patterns: useDefaults is false",
		"spamTail.minRun must be >= 2",
		"sources.wire.drop[0].pattern invalid",
		"sources.wire.drop[1].id \"a\" is duplicated",
		"sources.wire.drop[1].patternsFile invalid",
		"sources.wire.drop[2].id is required",
		"sources.wire.drop[2] must set only one of pattern or patternsFile",
		"server.rateLimit.rps must be > 0",
		"server.rateLimit.burst must be > 0",
		"server.rateLimit.statusCode must be a 4xx or 5xx code",
		"logging.format must be console|json",
	}
	for _, w := range want {
		found := false
		for _, p := range verr.Problems {
			if strings.HasPrefix(p, w) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected problem %q in %v", w, verr.Problems)
		}
	}

	for i := 1; i < len(verr.Problems); i++ {
		if verr.Problems[i-1] > verr.Problems[i] {
			t.Fatalf("expected problems sorted, got %v", verr.Problems)
		}
	}
}

func TestValidateRecordLogPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg := Default()
	cfg.Logging.RecordLog = filepath.Join(dir, "logs", "records.jsonl")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected missing log dir to be accepted: %v", err)
	}

	cfg.Logging.RecordLog = filepath.Join(file, "records.jsonl")
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error when log parent is a file")
	}
}
