package rules

import "strings"

const maxEvidence = 64

func snippet(value string) string {
	if len(value) <= maxEvidence {
		return value
	}
	return strings.ToValidUTF8(value[:maxEvidence], "")
}
