package rules

type Category string

type MatchType string

const (
	CategoryDrop   Category = "drop"
	CategoryCutoff Category = "cutoff"
)

const (
	MatchRegex  MatchType = "regex"
	MatchPhrase MatchType = "phrase"
)

// Pattern is one entry of a drop or cutoff table.
type Pattern struct {
	ID       string
	Category Category
	Type     MatchType
	Note     string
	Matcher  Matcher
}

// Matcher returns true if the input matches and an optional evidence snippet.
// Evidence is capped at maxEvidence bytes.
type Matcher interface {
	Match(input string) (bool, string)
}

// Spec is the uncompiled form of a pattern as it appears in config files.
type Spec struct {
	ID           string
	Pattern      string
	PatternsFile string
	Note         string
}
