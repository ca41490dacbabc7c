// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength matches the church.slug column
const MaxSlugLength = 50

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugSeparate = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify derives a URL slug from a display name ("St. Mark" -> "st-mark").
// Diacritics are folded to ASCII; characters with no ASCII form are dropped,
// so the result may be empty for names written entirely in other scripts.
// Long results are cut to MaxSlugLength at the last whole word that fits.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	s := strings.Trim(slugSeparate.ReplaceAllString(strings.ToLower(folded), "-"), "-")
	if len(s) <= MaxSlugLength {
		return s
	}

	cut := s[:MaxSlugLength]
	if s[MaxSlugLength] != '-' {
		if i := strings.LastIndexByte(cut, '-'); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, "-")
}

// IsSlug reports whether s is already in canonical slug form
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}
