package rules

import (
	"regexp"
	"strings"
)

type RegexMatcher struct {
	re *regexp.Regexp
}

// NewRegexMatcher compiles pattern case-insensitively. A pattern that already
// carries flags keeps them; (?i) is prepended regardless.
func NewRegexMatcher(pattern string) (*RegexMatcher, error) {
	re, err := regexp.Compile(caseInsensitive(pattern))
	if err != nil {
		return nil, err
	}
	return &RegexMatcher{re: re}, nil
}

func mustRegex(pattern string) *RegexMatcher {
	return &RegexMatcher{re: regexp.MustCompile(caseInsensitive(pattern))}
}

func (m *RegexMatcher) Match(input string) (bool, string) {
	loc := m.re.FindStringIndex(input)
	if loc == nil {
		return false, ""
	}
	return true, snippet(input[loc[0]:loc[1]])
}

func (m *RegexMatcher) String() string {
	return m.re.String()
}

func caseInsensitive(pattern string) string {
	if strings.HasPrefix(pattern, "(?i)") {
		return pattern
	}
	return "(?i)" + pattern
}
