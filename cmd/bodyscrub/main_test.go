package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bodyscrub/bodyscrub/internal/service"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSanitizeStdin(t *testing.T) {
	input := "Para one.\nSubscribe Now\nPara two.\nRelated Stories:\nHeadline\n"
	out, err := execute(t, input, "sanitize", "--log-level", "error")
	if err != nil {
		t.Fatalf("sanitize error: %v", err)
	}
	if out != "Para one.\nPara two.\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSanitizeJSONFormat(t *testing.T) {
	out, err := execute(t, "Subscribe now", "sanitize", "--format", "json", "--log-level", "error")
	if err != nil {
		t.Fatalf("sanitize error: %v", err)
	}
	var res service.Output
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if !res.Empty || res.Body != "" || res.Outcome != "empty" {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestSanitizeShadowMode(t *testing.T) {
	input := "Para one.\nSubscribe now"
	out, err := execute(t, input, "sanitize", "--mode", "shadow", "--log-level", "error")
	if err != nil {
		t.Fatalf("sanitize error: %v", err)
	}
	if out != input+"\n" {
		t.Fatalf("expected original body in shadow mode, got %q", out)
	}
}

func TestSanitizeHTML(t *testing.T) {
	input := `<html><body><article><p>Real text.</p><p>Follow us on Twitter</p></article></body></html>`
	out, err := execute(t, input, "sanitize", "--html", "--log-level", "error")
	if err != nil {
		t.Fatalf("sanitize error: %v", err)
	}
	if out != "Real text.\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSanitizeJSONL(t *testing.T) {
	input := `{"id":"1","body":"Keep me.\nSubscribe now"}` + "\n" + `{"id":"2","body":"Trending now\nGone"}` + "\n"
	out, err := execute(t, input, "sanitize", "--jsonl", "--workers", "2", "--log-level", "error")
	if err != nil {
		t.Fatalf("sanitize error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 output lines, got %q", out)
	}
	var first, second service.Output
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid line: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("invalid line: %v", err)
	}
	if first.ID != "1" || first.Body != "Keep me." || second.ID != "2" || !second.Empty {
		t.Fatalf("unexpected outputs %+v %+v", first, second)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bodyscrub.yaml")
	if err := os.WriteFile(path, []byte("configVersion: 1\nmode: shadow\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := execute(t, "", "validate", "--config", path)
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if strings.TrimSpace(out) != "config ok" {
		t.Fatalf("unexpected output %q", out)
	}

	if _, err := execute(t, "", "validate"); err == nil {
		t.Fatalf("expected error without config path")
	}
}

func TestPatternsListsDefaults(t *testing.T) {
	out, err := execute(t, "", "patterns", "--log-level", "error")
	if err != nil {
		t.Fatalf("patterns error: %v", err)
	}
	for _, want := range []string{"related-stories", "subscribe-cta", "regex"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(out, "version=dev") {
		t.Fatalf("unexpected version output %q", out)
	}
}
