package crawler

import (
	"regexp"
	"strings"
)

// hebrewAnswer matches a run of Hebrew-block words separated by single spaces.
var hebrewAnswer = regexp.MustCompile(`^[\x{0590}-\x{05FF}]+(?: [\x{0590}-\x{05FF}]+)*`)

// CleanAnswer returns the leading Hebrew words of raw.
// Surrounding whitespace is trimmed first; anything after the first
// character outside the Hebrew block (digits, hyphens, parentheses,
// Latin letters, double spaces) is dropped. If raw does not start with
// a Hebrew character the result is empty.
func CleanAnswer(raw string) string {
	return hebrewAnswer.FindString(strings.TrimSpace(raw))
}
