package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Package-level compiled patterns and transforms for performance
var (
	// stripAccents decomposes and drops combining marks (café -> cafe, ñ -> n)
	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)

	// Naive singularization: a word ending in exactly one "s" loses it.
	// Words ending in "ss" are left alone, which keeps the pass idempotent.
	trailingSRegex = regexp.MustCompile(`\b([a-z0-9]*[a-rt-z0-9])s\b`)
)

// Normalize folds a string into the canonical matching form: lowercase,
// accents stripped, punctuation collapsed to spaces, naive plural stripped,
// single-spaced tokens with no surrounding whitespace.
//
// The singularization is a heuristic, not a dictionary lookup; it can
// under- or over-strip on irregular plurals. That is a documented limitation
// of the matching scheme, not a defect to correct per word.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	result := strings.ToLower(text)
	result = foldAccents(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = trailingSRegex.ReplaceAllString(result, "$1")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// foldAccents removes diacritics while leaving base letters in place.
// Falls back to the input when the transform fails (malformed UTF-8).
func foldAccents(s string) string {
	result, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return result
}
