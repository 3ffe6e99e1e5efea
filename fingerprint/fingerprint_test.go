package fingerprint

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"cardindex/normalization"
)

func sp(s string) *string { return &s }

func TestBuildCertifiedShortCircuit(t *testing.T) {
	d := CardDescriptor{
		CertificationNumber: sp("82104556"),
		PlayerName:          sp("Lionel Messi"),
		SetName:             sp("Topps Chrome"),
		Year:                sp("2023"),
		Grade:               sp("10"),
	}

	got := Build(d)
	if got != "82104556" {
		t.Errorf("Build() = %q, want certification number verbatim", got)
	}
	if Classify(d) != KindCertified {
		t.Errorf("Classify() = %q, want %q", Classify(d), KindCertified)
	}
}

func TestBuildCertificationNumberVerbatim(t *testing.T) {
	// The certification number must not be normalized, trimmed or
	// case-folded: it has to round-trip exactly for authority lookups.
	d := CardDescriptor{CertificationNumber: sp(" PSA-0012 ")}
	if got := Build(d); got != " PSA-0012 " {
		t.Errorf("Build() = %q, want the certification number untouched", got)
	}
}

func TestBuildComposite(t *testing.T) {
	tests := []struct {
		name string
		d    CardDescriptor
		want string
	}{
		{
			name: "multi player card",
			d: CardDescriptor{
				PlayerName: sp("Lionel Messi / Steph Curry"),
				SetName:    sp("Topps"),
				Year:       sp("2023"),
			},
			want: "curry lionel messi steph|topps|2023||||",
		},
		{
			name: "all fields present",
			d: CardDescriptor{
				PlayerName:       sp("José Altuve"),
				SetName:          sp("Topps Chrome"),
				Year:             sp("2017"),
				CardNumber:       sp("#200"),
				Variant:          sp("Refractor"),
				Grade:            sp("9.5"),
				GradingAuthority: sp("BGS"),
			},
			want: "altuve jose|topps chrome|2017|#200|refractor|9.5|bgs",
		},
		{
			name: "empty certification number falls through",
			d: CardDescriptor{
				CertificationNumber: sp(""),
				PlayerName:          sp("Wembanyama"),
			},
			want: "wembanyama||||||",
		},
		{
			name: "entirely empty descriptor",
			d:    CardDescriptor{},
			want: "||||||",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.d)
			if got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
			if Classify(tt.d) != KindComposite {
				t.Errorf("Classify() = %q, want %q", Classify(tt.d), KindComposite)
			}
		})
	}
}

func TestBuildPositionalStability(t *testing.T) {
	// Omitting variant must not shift grade relative to card number.
	withVariant := CardDescriptor{
		PlayerName: sp("Luka Doncic"),
		CardNumber: sp("77"),
		Variant:    sp("Silver Prizm"),
		Grade:      sp("10"),
	}
	withoutVariant := CardDescriptor{
		PlayerName: sp("Luka Doncic"),
		CardNumber: sp("77"),
		Grade:      sp("10"),
	}

	a := strings.Split(Build(withVariant), Delimiter)
	b := strings.Split(Build(withoutVariant), Delimiter)
	if len(a) != 7 || len(b) != 7 {
		t.Fatalf("composite fingerprints must have 7 fields, got %d and %d", len(a), len(b))
	}
	if a[3] != b[3] {
		t.Errorf("card number position changed: %q vs %q", a[3], b[3])
	}
	if a[5] != "10" || b[5] != "10" {
		t.Errorf("grade not at its fixed position: %q vs %q", a[5], b[5])
	}
	if b[4] != "" {
		t.Errorf("omitted variant position = %q, want empty", b[4])
	}
}

func TestBuildReservesDelimiter(t *testing.T) {
	// Raw input may contain the delimiter character; normalization must
	// swallow it so fields never shift position on Parse.
	d := CardDescriptor{
		PlayerName: sp("Lionel Messi"),
		SetName:    sp("Topps | Chrome"),
		Year:       sp("2023"),
	}

	fp := Build(d)
	if got, want := fp, "lionel messi|topps chrome|2023||||"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
	if fields := strings.Split(fp, Delimiter); len(fields) != 7 {
		t.Errorf("composite fingerprint has %d fields, want 7", len(fields))
	}

	p := Parse(fp)
	if p.SetName != "topps chrome" {
		t.Errorf("SetName = %q, want %q", p.SetName, "topps chrome")
	}
	if p.Year != "2023" {
		t.Errorf("Year = %q, want %q (delimiter in set name must not shift later fields)", p.Year, "2023")
	}

	variant := CardDescriptor{
		PlayerName: sp("Messi | Curry"),
		Variant:    sp("Gold||Foil"),
	}
	if got, want := Build(variant), "curry messi||||gold foil||"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		fp   string
		want Kind
	}{
		{"82104556", KindCertified},
		{"821045567", KindCertified},
		{"8210455", KindComposite},    // 7 digits, too short
		{"8210455678", KindComposite}, // 10 digits, too long
		{"82104556 ", KindComposite},
		{"8210455a", KindComposite},
		{"curry messi|topps|2023||||", KindComposite},
		{"||||||", KindComposite},
		{"", KindComposite},
	}

	for _, tt := range tests {
		if got := DetectKind(tt.fp); got != tt.want {
			t.Errorf("DetectKind(%q) = %q, want %q", tt.fp, got, tt.want)
		}
	}
}

func TestParseCertified(t *testing.T) {
	p := Parse("82104556")
	if p.Kind != KindCertified {
		t.Fatalf("Parse kind = %q, want %q", p.Kind, KindCertified)
	}
	if p.CertificationNumber != "82104556" {
		t.Errorf("CertificationNumber = %q, want %q", p.CertificationNumber, "82104556")
	}
	if p.PlayerName != "" || p.SetName != "" {
		t.Errorf("certified parse must not populate composite fields: %+v", p)
	}
}

func TestParseComposite(t *testing.T) {
	p := Parse("curry lionel messi steph|topps|2023|#12|refractor|10|psa")
	if p.Kind != KindComposite {
		t.Fatalf("Parse kind = %q, want %q", p.Kind, KindComposite)
	}
	want := ParsedFingerprint{
		Kind:             KindComposite,
		PlayerName:       "curry lionel messi steph",
		SetName:          "topps",
		Year:             "2023",
		CardNumber:       "#12",
		Variant:          "refractor",
		Grade:            "10",
		GradingAuthority: "psa",
	}
	if p != want {
		t.Errorf("Parse() = %+v, want %+v", p, want)
	}
}

func TestParseTolerantOfMissingTrailingFields(t *testing.T) {
	p := Parse("doncic luka|prizm")
	if p.PlayerName != "doncic luka" || p.SetName != "prizm" {
		t.Errorf("leading fields lost: %+v", p)
	}
	if p.Year != "" || p.GradingAuthority != "" {
		t.Errorf("missing trailing fields must parse as empty: %+v", p)
	}
}

func TestCompositeRoundTrip(t *testing.T) {
	d := CardDescriptor{
		PlayerName:       sp("Ken Griffey Jr. / Barry Bonds"),
		SetName:          sp("Upper  Deck"),
		Year:             sp("1994"),
		CardNumber:       sp("UD-55"),
		Variant:          sp("Électric Diamond"),
		Grade:            sp("8"),
		GradingAuthority: sp("SGC"),
	}

	p := Parse(Build(d))
	if p.Kind != KindComposite {
		t.Fatalf("round-trip kind = %q, want %q", p.Kind, KindComposite)
	}
	if want := normalization.NormalizePlayerName(*d.PlayerName); p.PlayerName != want {
		t.Errorf("PlayerName = %q, want %q", p.PlayerName, want)
	}
	if want := normalization.NormalizeField(*d.SetName); p.SetName != want {
		t.Errorf("SetName = %q, want %q", p.SetName, want)
	}
	if want := normalization.NormalizeField(*d.Variant); p.Variant != want {
		t.Errorf("Variant = %q, want %q", p.Variant, want)
	}
	if p.Year != "1994" || p.CardNumber != "ud-55" || p.Grade != "8" || p.GradingAuthority != "sgc" {
		t.Errorf("unexpected round-trip fields: %+v", p)
	}
}

func TestKindRoundTripRandom(t *testing.T) {
	gofakeit.Seed(23)

	for i := 0; i < 200; i++ {
		d := CardDescriptor{
			PlayerName: sp(gofakeit.Name()),
			SetName:    sp(gofakeit.Company()),
			Year:       sp(gofakeit.DigitN(4)),
			CardNumber: sp(gofakeit.DigitN(3)),
		}
		hasCert := i%2 == 0
		if hasCert {
			d.CertificationNumber = sp(gofakeit.DigitN(8))
		}

		fp := Build(d)
		kind := DetectKind(fp)
		if hasCert && kind != KindCertified {
			t.Errorf("descriptor with certification number %q detected as %q", fp, kind)
		}
		if !hasCert && kind != KindComposite {
			t.Errorf("composite fingerprint %q detected as %q", fp, kind)
		}

		p := Parse(fp)
		if !hasCert {
			if p.PlayerName != normalization.NormalizePlayerName(*d.PlayerName) {
				t.Errorf("round-trip player name mismatch for %q", fp)
			}
			if p.SetName != normalization.NormalizeField(*d.SetName) {
				t.Errorf("round-trip set name mismatch for %q", fp)
			}
		}
	}
}
