package policy

import "github.com/bodyscrub/bodyscrub/internal/sanitize"

type Mode string

const (
	ModeEnforce Mode = "enforce"
	ModeShadow  Mode = "shadow"
)

func ParseMode(value string) (Mode, bool) {
	switch Mode(value) {
	case "", ModeEnforce:
		return ModeEnforce, true
	case ModeShadow:
		return ModeShadow, true
	default:
		return "", false
	}
}

// Apply picks the body handed back to the caller. In shadow mode the original
// body is returned untouched so new patterns can be observed before they
// take effect; applied reports whether the cleaned text was used.
func Apply(mode Mode, original string, result sanitize.Result) (string, bool) {
	switch mode {
	case ModeShadow:
		return original, false
	default:
		return result.Text, true
	}
}

// Outcome labels a sanitize result for logs and metrics.
func Outcome(original string, result sanitize.Result) string {
	switch {
	case result.Empty():
		return "empty"
	case result.Text == original:
		return "unchanged"
	default:
		return "cleaned"
	}
}
