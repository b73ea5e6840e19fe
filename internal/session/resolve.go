package session

import (
	"regexp"
	"strings"
)

// deictic matches the place reference that gets swapped for the destination.
var deictic = regexp.MustCompile(`(?i)\b(?:there|that place|that destination|that spot|that country|that city)\b`)

// referencePatterns are tried in order; the first one that matches wins.
// The bare deictic leads so every reference in the question is rewritten.
var referencePatterns = []*regexp.Regexp{
	deictic,
	regexp.MustCompile(`(?i)\bthe (?:transport|weather|food|hotels) there\b`),
	regexp.MustCompile(`(?i)\b(?:how(?:'|’)s it|how is it|what(?:'|’)s it like|how are things) there\b`),
}

// Resolve rewrites a question that refers back to a previous destination
// ("how's the food there?") into one that names it ("how's the food in Tokyo?").
// An empty lastDestination leaves the question untouched.
func Resolve(question, lastDestination string) string {
	lastDestination = strings.TrimSpace(lastDestination)
	if lastDestination == "" {
		return question
	}

	replacement := "in " + lastDestination
	for _, pattern := range referencePatterns {
		if !pattern.MatchString(question) {
			continue
		}
		return pattern.ReplaceAllStringFunc(question, func(match string) string {
			return deictic.ReplaceAllLiteralString(match, replacement)
		})
	}
	return question
}
