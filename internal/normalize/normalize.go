package normalize

import (
	"html"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

type Options struct {
	HTMLEntity    bool
	Unicode       bool
	CollapseSpace bool
	Lowercase     bool
}

type Result struct {
	Raw        string
	Normalized string
}

// KeyOptions is what pattern matching runs against.
var KeyOptions = Options{HTMLEntity: true, Unicode: true, CollapseSpace: true}

func Apply(input string, opts Options) Result {
	res := Result{Raw: input, Normalized: strings.ToValidUTF8(input, "\ufffd")}

	if opts.HTMLEntity {
		res.Normalized = html.UnescapeString(res.Normalized)
	}
	if opts.Unicode {
		res.Normalized = norm.NFKC.String(res.Normalized)
	}
	if opts.CollapseSpace {
		res.Normalized = collapseSpace(res.Normalized)
	}
	if opts.Lowercase {
		res.Normalized = strings.ToLower(res.Normalized)
	}

	return res
}

// Key returns the matching key for one line.
func Key(line string) string {
	return Apply(line, KeyOptions).Normalized
}

// Display returns line as it should appear in cleaned output: valid UTF-8,
// no trailing whitespace, whitespace-only lines reduced to "".
func Display(line string) string {
	return strings.TrimRightFunc(strings.ToValidUTF8(line, "\ufffd"), isSpace)
}

// IsBlank reports whether line holds nothing but whitespace.
func IsBlank(line string) bool {
	return strings.TrimFunc(line, isSpace) == ""
}

func collapseSpace(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	pending := false
	for _, r := range input {
		if isSpace(r) {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte(' ')
			pending = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isSpace also treats zero-width characters and the BOM as space; scraped
// bodies carry them around link text.
func isSpace(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
		return true
	}
	return unicode.IsSpace(r)
}
