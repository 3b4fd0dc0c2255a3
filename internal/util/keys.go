package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

var reSeparators = regexp.MustCompile(`[-‐－·・･.．_]+`)

// ExactKey trims surrounding whitespace, case preserved.
func ExactKey(s string) string {
	return strings.TrimSpace(s)
}

// FoldKey trims and lower-cases.
func FoldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NoSpaceKey removes all whitespace, lower-cased (same case rule as FoldKey).
func NoSpaceKey(s string) string {
	return stripSpace(strings.ToLower(s))
}

// FuzzyKey lower-cases, removes whitespace, narrows full-width characters
// and collapses the visually equivalent separator family (hyphen, full-width
// hyphen, middle dot, Japanese middle dot, full stop, full-width full stop,
// underscore) to a single "-". Idempotent: FuzzyKey(FuzzyKey(s)) == FuzzyKey(s).
func FuzzyKey(s string) string {
	s = width.Narrow.String(s)
	s = stripSpace(strings.ToLower(s))
	return reSeparators.ReplaceAllString(s, "-")
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
