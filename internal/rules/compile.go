package rules

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Build compiles drop and cutoff specs into tables. Errors name the offending
// pattern id so a bad config fails at startup rather than per article.
func Build(drop, cutoff []Spec, baseDir string) (Tables, error) {
	dropTable, err := buildTable(CategoryDrop, drop, baseDir)
	if err != nil {
		return Tables{}, err
	}
	cutoffTable, err := buildTable(CategoryCutoff, cutoff, baseDir)
	if err != nil {
		return Tables{}, err
	}
	return Tables{Drop: dropTable, Cutoff: cutoffTable}, nil
}

func buildTable(category Category, specs []Spec, baseDir string) (Table, error) {
	patterns := make([]Pattern, 0, len(specs))
	for _, spec := range specs {
		compiled, err := compilePattern(category, spec, baseDir)
		if err != nil {
			return Table{}, fmt.Errorf("pattern %s: %w", spec.ID, err)
		}
		patterns = append(patterns, compiled)
	}
	return Table{Category: category, Patterns: patterns}, nil
}

func compilePattern(category Category, spec Spec, baseDir string) (Pattern, error) {
	var (
		matcher   Matcher
		matchType MatchType
		err       error
	)
	switch {
	case spec.Pattern != "" && spec.PatternsFile != "":
		return Pattern{}, fmt.Errorf("pattern and patternsFile are mutually exclusive")
	case spec.Pattern != "":
		matchType = MatchRegex
		matcher, err = NewRegexMatcher(spec.Pattern)
	case spec.PatternsFile != "":
		phrases, readErr := readPhrases(resolvePath(baseDir, spec.PatternsFile))
		if readErr != nil {
			return Pattern{}, readErr
		}
		matchType = MatchPhrase
		matcher, err = NewPhraseMatcher(phrases)
	default:
		return Pattern{}, fmt.Errorf("pattern or patternsFile is required")
	}
	if err != nil {
		return Pattern{}, err
	}

	return Pattern{
		ID:       spec.ID,
		Category: category,
		Type:     matchType,
		Note:     spec.Note,
		Matcher:  matcher,
	}, nil
}

func readPhrases(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var phrases []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		phrases = append(phrases, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return phrases, nil
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
