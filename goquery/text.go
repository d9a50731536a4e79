package goquery

import (
	"regexp"
	"strings"
)

// CollapseWhitespace replaces every run of whitespace, including newlines,
// with a single space and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var (
	controlWhitespace = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")
	repeatedSpaces    = regexp.MustCompile(` {2,}`)
)

// NormalizeText puts body text on a single line: newlines, carriage
// returns and tabs become spaces, runs of spaces collapse to one, and the
// ends are trimmed.
func NormalizeText(s string) string {
	s = controlWhitespace.Replace(s)
	s = repeatedSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
