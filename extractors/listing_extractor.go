// Package extractors pulls card descriptor fields out of marketplace
// listing pages. Listings are semi-structured: a title line plus an item
// specifics table whose labels vary by marketplace, so extraction works off
// a label alias table with regex fallbacks against the title.
package extractors

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cardindex/fingerprint"
)

var (
	yearPattern = regexp.MustCompile(`\b(1[89][0-9]{2}|20[0-9]{2})\b`)
	// Card numbers show up in titles as "#T87" or "#200".
	cardNumberPattern = regexp.MustCompile(`#([A-Za-z0-9][A-Za-z0-9-]*)`)
	certPattern       = regexp.MustCompile(`(?i)cert(?:ification)?\.?\s*(?:number|no|#)?[:\s]*([0-9]{8,9})\b`)
)

// specLabels maps lowered item-specifics labels onto descriptor fields.
var specLabels = map[string]string{
	"player":               "playerName",
	"player/athlete":       "playerName",
	"athlete":              "playerName",
	"set":                  "setName",
	"set name":             "setName",
	"year":                 "year",
	"season":               "year",
	"card number":          "cardNumber",
	"card #":               "cardNumber",
	"variant":              "variant",
	"parallel/variety":     "variant",
	"parallel":             "variant",
	"insert":               "variant",
	"grade":                "grade",
	"professional grader":  "gradingAuthority",
	"grading authority":    "gradingAuthority",
	"grading company":      "gradingAuthority",
	"certification number": "certificationNumber",
	"cert number":          "certificationNumber",
}

// ExtractListingDescriptor builds a card descriptor from a marketplace
// listing HTML document. Fields found in the item specifics table win over
// values recovered from the title. Fields the listing does not carry stay
// nil. The raw values are returned unnormalized; fingerprinting owns
// canonicalization.
func ExtractListingDescriptor(r io.Reader) (fingerprint.CardDescriptor, error) {
	var d fingerprint.CardDescriptor

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return d, fmt.Errorf("failed to parse listing HTML: %w", err)
	}

	values := make(map[string]string)

	// Item specifics: two-cell table rows and dt/dd definition pairs.
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		recordSpec(values, cells.Eq(0).Text(), cells.Eq(1).Text())
	})
	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		terms := dl.Find("dt")
		defs := dl.Find("dd")
		terms.Each(func(i int, term *goquery.Selection) {
			if i < defs.Length() {
				recordSpec(values, term.Text(), defs.Eq(i).Text())
			}
		})
	})

	title := listingTitle(doc)

	// Title fallbacks for fields the specifics table did not carry.
	if _, ok := values["year"]; !ok {
		if m := yearPattern.FindString(title); m != "" {
			values["year"] = m
		}
	}
	if _, ok := values["cardNumber"]; !ok {
		if m := cardNumberPattern.FindStringSubmatch(title); len(m) == 2 {
			values["cardNumber"] = m[1]
		}
	}
	if _, ok := values["certificationNumber"]; !ok {
		if m := certPattern.FindStringSubmatch(doc.Text()); len(m) == 2 {
			values["certificationNumber"] = m[1]
		}
	}

	if len(values) == 0 {
		return d, fmt.Errorf("no card fields found in listing")
	}

	assign := func(field string) *string {
		if v, ok := values[field]; ok {
			return &v
		}
		return nil
	}
	d = fingerprint.CardDescriptor{
		CertificationNumber: assign("certificationNumber"),
		PlayerName:          assign("playerName"),
		SetName:             assign("setName"),
		Year:                assign("year"),
		CardNumber:          assign("cardNumber"),
		Variant:             assign("variant"),
		Grade:               assign("grade"),
		GradingAuthority:    assign("gradingAuthority"),
	}
	return d, nil
}

// recordSpec stores a label/value pair when the label is a known card
// field. First occurrence wins; listings sometimes repeat the specifics
// table in a collapsed footer.
func recordSpec(values map[string]string, label, value string) {
	key := strings.TrimSpace(strings.ToLower(label))
	key = strings.TrimSuffix(key, ":")
	field, ok := specLabels[key]
	if !ok {
		return
	}
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return
	}
	if _, exists := values[field]; !exists {
		values[field] = cleaned
	}
}

// listingTitle returns the page's listing title: first h1, falling back to
// the og:title meta tag.
func listingTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "" {
		return title
	}
	if content, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}
