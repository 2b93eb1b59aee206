package sanitize

import (
	"strings"

	"github.com/bodyscrub/bodyscrub/internal/normalize"
)

// Assemble joins the kept lines with single newlines. Leading and trailing
// blank lines are removed and runs of blank lines collapse to one.
func Assemble(lines []Line, decisions []Decision) string {
	return strings.Join(assembleLines(lines, decisions), "\n")
}

func assembleLines(lines []Line, decisions []Decision) []string {
	out := make([]string, 0, len(lines))
	blank := false
	for i, line := range lines {
		if i >= len(decisions) || decisions[i].Class != ClassKeep {
			continue
		}
		if normalize.IsBlank(line.Text) {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, normalize.Display(line.Text))
	}
	return out
}
