package normalize

import "strings"

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u2028", "\n", "\u2029", "\n")

// SplitLines splits body on any common line break. An empty body has no lines.
func SplitLines(body string) []string {
	if body == "" {
		return nil
	}
	return strings.Split(lineBreaks.Replace(body), "\n")
}
