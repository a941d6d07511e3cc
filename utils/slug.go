package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWordChars = regexp.MustCompile(`[^\w\s-]`)
	dashesSpaces = regexp.MustCompile(`[-\s]+`)
	validSlug    = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Slugify turns a title into a URL-safe token: accents are decomposed and
// dropped, anything outside ASCII letters, digits, underscores and hyphens is
// removed, and runs of whitespace or hyphens become a single hyphen.
//
//	Slugify("Hello World")    // "hello-world"
//	Slugify("Crème brûlée!")  // "creme-brulee"
func Slugify(title string) string {
	// Chains keep internal state, so build one per call.
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))

	ascii, _, err := transform.String(fold, title)
	if err != nil {
		ascii = title
	}

	s := nonWordChars.ReplaceAllString(strings.ToLower(ascii), "")
	s = dashesSpaces.ReplaceAllString(s, "-")
	return strings.Trim(s, "-_")
}

// IsValidSlug reports whether s only holds latin letters, digits, hyphens and underscores.
func IsValidSlug(s string) bool {
	return validSlug.MatchString(s)
}
