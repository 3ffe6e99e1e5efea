// Command parse_fingerprint reverses fingerprints back into their component
// fields for debugging. The recovered fields are the canonical form, not
// the original input: casing, accents and name suffixes are gone by design.
package main

import (
	"flag"
	"fmt"
	"log"

	"cardindex/fingerprint"
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatal("usage: parse_fingerprint <fingerprint> [<fingerprint> ...]")
	}

	for _, fp := range flag.Args() {
		p := fingerprint.Parse(fp)
		fmt.Printf("%s\n  kind: %s\n", fp, p.Kind)
		if p.Kind == fingerprint.KindCertified {
			fmt.Printf("  certification number: %s\n", p.CertificationNumber)
			continue
		}
		fmt.Printf("  player name:       %q\n", p.PlayerName)
		fmt.Printf("  set name:          %q\n", p.SetName)
		fmt.Printf("  year:              %q\n", p.Year)
		fmt.Printf("  card number:       %q\n", p.CardNumber)
		fmt.Printf("  variant:           %q\n", p.Variant)
		fmt.Printf("  grade:             %q\n", p.Grade)
		fmt.Printf("  grading authority: %q\n", p.GradingAuthority)
	}
}
