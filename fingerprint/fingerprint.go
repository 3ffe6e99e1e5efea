// Package fingerprint builds and parses the canonical identity key used to
// recognize two card descriptions as the same physical item.
//
// A fingerprint is either a grading authority's certification number taken
// verbatim, or a composite of seven normalized descriptive fields joined
// with "|". A composite fingerprint does not distinguish a field that was
// absent from one that normalized to the empty string; resolving that would
// change the byte format of every stored fingerprint and is left to a
// future format revision.
package fingerprint

import (
	"regexp"
	"strings"

	"cardindex/normalization"
)

// Delimiter separates the fields of a composite fingerprint. Normalization
// never emits it, so it cannot collide with field content.
const Delimiter = "|"

// compositeFieldCount is the fixed number of fields in a composite
// fingerprint: player name, set name, year, card number, variant, grade,
// grading authority.
const compositeFieldCount = 7

// certNumberPattern is the structural shape of a certification number
// issued by the supported grading authority: 8 or 9 decimal digits and
// nothing else. If the authority's numbering scheme changes length this
// pattern must change with it, or certified fingerprints will be
// misclassified as composite.
var certNumberPattern = regexp.MustCompile(`^[0-9]{8,9}$`)

// Kind classifies how a fingerprint identifies a card.
type Kind string

const (
	// KindCertified means the fingerprint is a certification number.
	KindCertified Kind = "certified"
	// KindComposite means the fingerprint is a join of normalized fields.
	KindComposite Kind = "composite"
)

// CardDescriptor is a loosely structured card description as captured by an
// ingestion source. Every field is optional; nil means the source did not
// carry the field at all, which is distinct from an empty value. The
// descriptor is never mutated.
type CardDescriptor struct {
	CertificationNumber *string
	PlayerName          *string
	SetName             *string
	Year                *string
	CardNumber          *string
	Variant             *string
	Grade               *string
	GradingAuthority    *string
}

// ParsedFingerprint is the diagnostic decomposition of a fingerprint.
// Composite fields carry the canonical (lowercased, accent-stripped) form,
// not the original input.
type ParsedFingerprint struct {
	Kind                Kind
	CertificationNumber string
	PlayerName          string
	SetName             string
	Year                string
	CardNumber          string
	Variant             string
	Grade               string
	GradingAuthority    string
}

// Build computes the fingerprint for a descriptor. A non-empty
// certification number is returned verbatim: it is an authority-issued
// unique identifier that must round-trip exactly for lookups against the
// authority's own records. Otherwise the seven descriptive fields are
// normalized and joined positionally, with absent fields kept as empty
// strings so later fields never shift. Build is total: every descriptor,
// including an entirely empty one, yields a fingerprint.
func Build(d CardDescriptor) string {
	if cert := deref(d.CertificationNumber); cert != "" {
		return cert
	}

	parts := [compositeFieldCount]string{
		normalization.NormalizePlayerName(deref(d.PlayerName)),
		normalization.NormalizeField(deref(d.SetName)),
		normalization.NormalizeField(deref(d.Year)),
		normalization.NormalizeField(deref(d.CardNumber)),
		normalization.NormalizeField(deref(d.Variant)),
		normalization.NormalizeField(deref(d.Grade)),
		normalization.NormalizeField(deref(d.GradingAuthority)),
	}
	return strings.Join(parts[:], Delimiter)
}

// Classify reports the kind Build will produce for the descriptor,
// determined solely by the presence of a certification number.
func Classify(d CardDescriptor) Kind {
	if deref(d.CertificationNumber) != "" {
		return KindCertified
	}
	return KindComposite
}

// DetectKind classifies an opaque fingerprint by shape: a bare 8- or
// 9-digit run is a certification number, anything else is composite. This
// re-derives the kind heuristically; it is not stored metadata.
func DetectKind(fp string) Kind {
	if certNumberPattern.MatchString(fp) {
		return KindCertified
	}
	return KindComposite
}

// Parse recovers the structure of a fingerprint for diagnostics. Certified
// fingerprints yield only the certification number. Composite fingerprints
// are split into at most seven positional fields; missing trailing fields
// are tolerated and reported as empty. Parse is lossy with respect to the
// original casing, accents and suffixes: it returns the canonical form, not
// a reconstruction of user input.
func Parse(fp string) ParsedFingerprint {
	if DetectKind(fp) == KindCertified {
		return ParsedFingerprint{
			Kind:                KindCertified,
			CertificationNumber: fp,
		}
	}

	parts := strings.SplitN(fp, Delimiter, compositeFieldCount)
	at := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	return ParsedFingerprint{
		Kind:             KindComposite,
		PlayerName:       at(0),
		SetName:          at(1),
		Year:             at(2),
		CardNumber:       at(3),
		Variant:          at(4),
		Grade:            at(5),
		GradingAuthority: at(6),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
