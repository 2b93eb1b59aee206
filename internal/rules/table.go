package rules

import "fmt"

// Table is an ordered set of patterns of one category. Order only matters for
// reporting: the first matching pattern is the one named in evidence.
type Table struct {
	Category Category
	Patterns []Pattern
}

// Tables holds the drop-line and cutoff-section tables. Values are never
// mutated after construction and may be shared between goroutines.
type Tables struct {
	Drop   Table
	Cutoff Table
}

func (t Table) Match(input string) (Pattern, string, bool) {
	for _, p := range t.Patterns {
		matched, evidence := p.Matcher.Match(input)
		if matched {
			return p, evidence, true
		}
	}
	return Pattern{}, "", false
}

func (t Table) Len() int {
	return len(t.Patterns)
}

// Merge returns new tables holding base patterns followed by extra ones.
// A pattern in extra with an id already present in base replaces it in place.
func Merge(base, extra Tables) Tables {
	return Tables{
		Drop:   mergeTable(base.Drop, extra.Drop, CategoryDrop),
		Cutoff: mergeTable(base.Cutoff, extra.Cutoff, CategoryCutoff),
	}
}

func mergeTable(base, extra Table, category Category) Table {
	out := make([]Pattern, 0, len(base.Patterns)+len(extra.Patterns))
	index := make(map[string]int, len(base.Patterns))
	for _, p := range base.Patterns {
		index[p.ID] = len(out)
		out = append(out, p)
	}
	for _, p := range extra.Patterns {
		if i, ok := index[p.ID]; ok {
			out[i] = p
			continue
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	return Table{Category: category, Patterns: out}
}

func (t Tables) String() string {
	return fmt.Sprintf("drop=%d cutoff=%d", t.Drop.Len(), t.Cutoff.Len())
}
