package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// Normalize produces the canonical comparison key for a raw location
// string. It is pure, deterministic and total: empty or garbage input maps
// to the empty string, and it is idempotent on its own output.
//
// Pipeline order matters; later steps assume earlier cleanup:
//  1. case-fold
//  2. strip parenthetical annotations and list-noise tokens
//  3. expand the st./sta. saint abbreviations
//  4. strip stray punctuation (hyphens, asterisks, commas, periods)
//  5. transliterate to diacritic-free ASCII
//  6. convert word-bounded Roman numerals I-XIII to Arabic
//  7. collapse and trim whitespace
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	s = reParenthetical.ReplaceAllString(s, "")
	for _, tok := range noiseTokens {
		s = strings.ReplaceAll(s, tok, "")
	}

	// Saint abbreviations, while the trailing period is still present.
	s = reSta.ReplaceAllString(s, "santa ")
	s = reSt.ReplaceAllString(s, "san ")

	s = punctReplacer.Replace(s)
	s = StripDiacritics(s)
	s = unidecode.Unidecode(s)

	// Longest numerals first so "xiii" is not consumed as "x"+"iii".
	for _, rn := range romanNumerals {
		s = rn.re.ReplaceAllString(s, rn.arabic)
	}

	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// IsBlank reports whether a cell is empty for reconstruction purposes.
// The literal strings "None" and "nan" are table-extraction artifacts and
// must be treated as blank, never as data.
func IsBlank(cell string) bool {
	t := strings.TrimSpace(cell)
	return t == "" || t == "None" || t == "nan"
}

// IsUpperCase reports whether s has at least one cased character and no
// lower-case characters. This is the structural signal distinguishing
// province header rows from data rows in the source layout.
func IsUpperCase(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasCased = true
		}
	}
	return hasCased
}

var (
	reParenthetical = regexp.MustCompile(`\([^)]*\)`)
	reSpaces        = regexp.MustCompile(`\s+`)
	reSta           = regexp.MustCompile(`\bsta\.\s*`)
	reSt            = regexp.MustCompile(`\bst\.\s*`)

	// Removal order matters: "city of" before the bare "city",
	// "brgy." before the period strip.
	noiseTokens = []string{
		"city of",
		"city",
		"brgy.",
		"barangay",
		"region",
		"province of",
		"municipality of",
	}

	punctReplacer = strings.NewReplacer("-", "", "*", "", ",", "", ".", "")
)

var romanNumerals = []struct {
	re     *regexp.Regexp
	arabic string
}{
	{regexp.MustCompile(`\bxiii\b`), "13"},
	{regexp.MustCompile(`\bxii\b`), "12"},
	{regexp.MustCompile(`\bxi\b`), "11"},
	{regexp.MustCompile(`\bx\b`), "10"},
	{regexp.MustCompile(`\bix\b`), "9"},
	{regexp.MustCompile(`\bviii\b`), "8"},
	{regexp.MustCompile(`\bvii\b`), "7"},
	{regexp.MustCompile(`\bvi\b`), "6"},
	{regexp.MustCompile(`\bv\b`), "5"},
	{regexp.MustCompile(`\biv\b`), "4"},
	{regexp.MustCompile(`\biii\b`), "3"},
	{regexp.MustCompile(`\bii\b`), "2"},
	{regexp.MustCompile(`\bi\b`), "1"},
}
