package session

import (
	"regexp"
	"strings"
)

// placeAfterPreposition picks one or two capitalized words after in/of/to.
var placeAfterPreposition = regexp.MustCompile(`\b(?i:in|of|to)\s+(\p{Lu}\p{Ll}+(?:\s+\p{Lu}\p{Ll}+)?)`)

// InferDestination guesses the destination a piece of text talks about.
// The guess is advisory: when nothing looks like a place name it falls back
// to explicit, and it may return "".
func InferDestination(text, explicit string) string {
	if m := placeAfterPreposition.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.TrimSpace(explicit)
}
