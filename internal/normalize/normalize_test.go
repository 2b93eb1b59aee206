package normalize

import "testing"

func TestSplitLines(t *testing.T) {
	if got := SplitLines(""); len(got) != 0 {
		t.Fatalf("expected no lines, got %q", got)
	}

	got := SplitLines("a\r\nb\rc\u2028d\u2029e\nf")
	want := []string{"a", "b", "c", "d", "e", "f"}
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if got := SplitLines("only\n"); len(got) != 2 || got[1] != "" {
		t.Fatalf("expected trailing empty line, got %q", got)
	}
}

func TestKey(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Subscribe\u00a0to   our\tnewsletter  ", "Subscribe to our newsletter"},
		{"Related&nbsp;Stories&#58;", "Related Stories:"},
		{"\u200bFollow us on Twitter\ufeff", "Follow us on Twitter"},
		{"\uff33\uff35\uff22\uff33\uff23\uff32\uff29\uff22\uff25 \uff2e\uff2f\uff37", "SUBSCRIBE NOW"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Key(tc.in); got != tc.want {
			t.Fatalf("Key(%q) expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestKeyToleratesInvalidUTF8(t *testing.T) {
	got := Key("bad \xff byte")
	if got != "bad \ufffd byte" {
		t.Fatalf("expected replacement rune, got %q", got)
	}
}

func TestApplyLowercase(t *testing.T) {
	res := Apply("Read MORE", Options{Lowercase: true})
	if res.Normalized != "read more" {
		t.Fatalf("expected lowercase, got %q", res.Normalized)
	}
	if res.Raw != "Read MORE" {
		t.Fatalf("expected raw preserved, got %q", res.Raw)
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("Para one.  \t"); got != "Para one." {
		t.Fatalf("expected trailing space trimmed, got %q", got)
	}
	if got := Display("  indented"); got != "  indented" {
		t.Fatalf("expected leading space kept, got %q", got)
	}
	if !IsBlank(" \u00a0\u200b\t") {
		t.Fatalf("expected whitespace-only line to be blank")
	}
	if IsBlank(" x ") {
		t.Fatalf("expected non-blank line")
	}
}
