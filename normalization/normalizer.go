// Package normalization canonicalizes free-text card description fields so
// that descriptions of the same physical card compare equal regardless of
// casing, accents, separator style, or the order in which co-equal player
// names were entered.
package normalization

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// separatorReplacer maps the characters that marketplaces and graders use to
// separate co-equal player names onto plain spaces.
var separatorReplacer = strings.NewReplacer(
	"/", " ",
	"&", " ",
	",", " ",
)

// nameSuffixes are generational suffixes dropped from player names. They are
// matched as whole tokens, with an optional trailing period, after
// lowercasing.
var nameSuffixes = map[string]bool{
	"jr":  true,
	"sr":  true,
	"ii":  true,
	"iii": true,
	"iv":  true,
	"v":   true,
}

// NormalizeField canonicalizes a single free-text field value: lowercase,
// strip diacritical marks, replace "|" with a space, collapse whitespace
// runs to single spaces, trim. The "|" replacement keeps the fingerprint
// delimiter reserved: no normalized field can ever contain one, so joined
// fields always split back at their original positions. Empty or
// all-whitespace input yields the empty string. The function is total and
// idempotent.
func NormalizeField(value string) string {
	s := strings.ToLower(value)
	s = stripDiacritics(s)
	s = strings.ReplaceAll(s, "|", " ")
	return strings.Join(strings.Fields(s), " ")
}

// NormalizePlayerName canonicalizes a field that may list several co-equal
// players ("A and B", "B / A", "A, B"). On top of the NormalizeField rules
// it replaces the separators "/", "&" and "," with spaces, drops the
// connective word "and", drops generational suffixes (jr, sr, ii-v), and
// sorts the remaining tokens so entry order does not affect the result.
// Input consisting only of separators and suffixes yields the empty string.
func NormalizePlayerName(value string) string {
	s := NormalizeField(value)
	s = separatorReplacer.Replace(s)

	tokens := strings.Fields(s)
	kept := tokens[:0]
	for _, tok := range tokens {
		if tok == "and" {
			continue
		}
		if nameSuffixes[strings.TrimSuffix(tok, ".")] {
			continue
		}
		kept = append(kept, tok)
	}

	sort.Strings(kept)
	return strings.Join(kept, " ")
}

// stripDiacritics removes combining diacritical marks so accented letters
// compare equal to their base letter ("josé" == "jose"). The string is
// decomposed to NFD and runes in the nonspacing-mark category are dropped.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
