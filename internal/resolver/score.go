package resolver

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio is the normalized edit-distance similarity of two strings, scaled
// to 0-100 and rounded. Identical strings score 100; strings sharing no
// characters score 0.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	d := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(d)/float64(maxLen))))
}

// TokenSetRatio scores two strings by comparing their shared tokens
// against each side's extra tokens, so word order and repeated words do
// not penalize the match. It is the best of three Ratio comparisons:
// intersection vs intersection+extras(a), intersection vs
// intersection+extras(b), and the two full combinations against each
// other. A name whose tokens are a subset of the other's scores 100.
func TokenSetRatio(a, b string) int {
	ta := tokenSet(a)
	tb := tokenSet(b)

	var inter, diffA, diffB []string
	for tok := range ta {
		if tb[tok] {
			inter = append(inter, tok)
		} else {
			diffA = append(diffA, tok)
		}
	}
	for tok := range tb {
		if !ta[tok] {
			diffB = append(diffB, tok)
		}
	}
	sort.Strings(inter)
	sort.Strings(diffA)
	sort.Strings(diffB)

	t0 := strings.Join(inter, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(diffA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(diffB, " "))

	best := Ratio(t0, t1)
	if s := Ratio(t0, t2); s > best {
		best = s
	}
	if s := Ratio(t1, t2); s > best {
		best = s
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}
