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
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRun     = regexp.MustCompile(`-+`)

	// Letters that NFD does not decompose into base + mark.
	undecomposable = strings.NewReplacer(
		"đ", "d", "Đ", "D",
		"ø", "o", "Ø", "O",
		"ł", "l", "Ł", "L",
		"ß", "ss",
		"æ", "ae", "Æ", "AE",
		"œ", "oe", "Œ", "OE",
	)
)

// GenerateSlug turns free text into a URL-safe identifier:
// "Manchester 2020" → "manchester-2020", "Zoë Núñez" → "zoe-nunez".
func GenerateSlug(input string) string {
	// Step 1: strip accents
	ascii := RemoveDiacritics(input)

	// Step 2: lowercase, whitespace → hyphen
	hyphenated := whitespaceRun.ReplaceAllString(strings.ToLower(ascii), "-")

	// Step 3: keep only a-z, 0-9 and hyphens
	cleaned := nonSlugChars.ReplaceAllString(hyphenated, "")

	// Step 4: collapse and trim hyphens
	return strings.Trim(hyphenRun.ReplaceAllString(cleaned, "-"), "-")
}

// JoinSlug slugs each part and joins the non-empty results with hyphens.
func JoinSlug(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := GenerateSlug(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "-")
}

// RemoveDiacritics maps accented letters to their base letter
// (NFD, drop combining marks, NFC).
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		out = input
	}
	return undecomposable.Replace(out)
}
