// Package htmltext turns an article HTML page into the line-oriented body
// the sanitizer expects: one block of text per line.
package htmltext

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultSelector = "article, main, body"

	skipSelector = "script, style, nav, footer, aside, noscript, iframe, template"
)

var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "blockquote": true, "pre": true,
}

// Lines extracts block text under the first element matching selector.
// Comma separated selectors are tried in order. An empty selector uses
// DefaultSelector. Text outside any block element is ignored unless the
// root has no blocks at all.
func Lines(r io.Reader, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	if strings.TrimSpace(selector) == "" {
		selector = DefaultSelector
	}

	doc.Find(skipSelector).Remove()

	root := pickRoot(doc, selector)

	w := &walker{}
	w.walk(root, false)
	w.flush()
	lines := w.lines

	if len(lines) == 0 {
		for _, line := range strings.Split(root.Text(), "\n") {
			if text := collapse(line); text != "" {
				lines = append(lines, text)
			}
		}
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n"), nil
}

// walker emits one line per run of inline text inside a block. A nested
// block ends the current line, so text around it is kept in document order.
type walker struct {
	lines []string
	buf   strings.Builder
}

func (w *walker) walk(s *goquery.Selection, inBlock bool) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		switch {
		case name == "#text":
			if inBlock {
				w.buf.WriteString(c.Text())
			}
		case name == "pre":
			w.flush()
			for _, line := range strings.Split(c.Text(), "\n") {
				w.lines = append(w.lines, strings.TrimRight(line, " \t\r"))
			}
			w.lines = append(w.lines, "")
		case blockTags[name]:
			w.flush()
			w.walk(c, true)
			w.flush()
		case name == "br":
			if inBlock {
				w.flush()
			}
		default:
			w.walk(c, inBlock)
		}
	})
}

func (w *walker) flush() {
	if text := collapse(w.buf.String()); text != "" {
		w.lines = append(w.lines, text)
	}
	w.buf.Reset()
}

func pickRoot(doc *goquery.Document, selector string) *goquery.Selection {
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if found := doc.Find(part).First(); found.Length() > 0 {
			return found
		}
	}
	return doc.Selection
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
