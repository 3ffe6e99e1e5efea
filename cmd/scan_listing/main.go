// Command scan_listing extracts a card descriptor from a saved marketplace
// listing page and prints the fingerprint it would be indexed under.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"cardindex/extractors"
	"cardindex/fingerprint"
	"cardindex/quality"
)

func main() {
	filePath := flag.String("file", "", "saved listing HTML file")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("usage: scan_listing -file listing.html")
	}

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("Failed to open listing: %v", err)
	}
	defer f.Close()

	d, err := extractors.ExtractListingDescriptor(f)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	printField := func(name string, v *string) {
		if v == nil {
			fmt.Printf("  %-21s (absent)\n", name+":")
			return
		}
		fmt.Printf("  %-21s %q\n", name+":", *v)
	}

	fmt.Println("Extracted descriptor:")
	printField("certification number", d.CertificationNumber)
	printField("player name", d.PlayerName)
	printField("set name", d.SetName)
	printField("year", d.Year)
	printField("card number", d.CardNumber)
	printField("variant", d.Variant)
	printField("grade", d.Grade)
	printField("grading authority", d.GradingAuthority)

	fmt.Printf("\nfingerprint [%s]: %s\n", fingerprint.Classify(d), fingerprint.Build(d))

	for _, issue := range quality.ValidateDescriptor(d) {
		fmt.Printf("! %s\n", issue)
	}
}
