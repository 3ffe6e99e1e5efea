// Package quality provides advisory checks over card descriptors and a
// duplicate analyzer that groups descriptors by fingerprint. Validation
// never gates fingerprinting: the fingerprint engine is total and a
// descriptor that fails every check still gets a stable fingerprint.
package quality

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cardindex/fingerprint"
)

var (
	certNumberShape = regexp.MustCompile(`^[0-9]{8,9}$`)
	yearShape       = regexp.MustCompile(`^[0-9]{4}$`)
)

// ValidateCertificationNumber reports whether the value matches the
// 8-9 digit shape issued by the supported grading authority. Values that
// fail are still fingerprinted, through the composite path.
func ValidateCertificationNumber(cert string) bool {
	return certNumberShape.MatchString(strings.TrimSpace(cert))
}

// ValidateYear reports whether the value looks like a plausible card year:
// four digits between 1860 (the earliest known trade cards) and next year.
func ValidateYear(year string) bool {
	cleaned := strings.TrimSpace(year)
	if !yearShape.MatchString(cleaned) {
		return false
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return false
	}
	return n >= 1860 && n <= time.Now().Year()+1
}

// ValidateDescriptor inspects a descriptor and returns a list of
// human-readable issues. An empty list means no concerns. Issues are
// advisory; none of them prevents a fingerprint from being built.
func ValidateDescriptor(d fingerprint.CardDescriptor) []string {
	var issues []string

	if d.CertificationNumber != nil && *d.CertificationNumber != "" {
		if !ValidateCertificationNumber(*d.CertificationNumber) {
			issues = append(issues, fmt.Sprintf(
				"certification number %q does not match the 8-9 digit authority format; the fingerprint is still the number verbatim, but diagnostics will misdetect it as composite",
				*d.CertificationNumber))
		}
		return issues
	}

	if isBlank(d.PlayerName) && isBlank(d.SetName) && isBlank(d.CardNumber) {
		issues = append(issues, "descriptor carries no identifying fields (no player, set or card number)")
	}
	if d.Year != nil && *d.Year != "" && !ValidateYear(*d.Year) {
		issues = append(issues, fmt.Sprintf("year %q is not a plausible card year", *d.Year))
	}
	if !isBlank(d.Grade) && isBlank(d.GradingAuthority) {
		issues = append(issues, fmt.Sprintf("grade %q given without a grading authority", *d.Grade))
	}

	return issues
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
