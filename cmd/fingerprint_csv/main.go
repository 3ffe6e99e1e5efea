// Command fingerprint_csv ingests a card inventory file (CSV or XLSX),
// prints the fingerprint computed for every row and reports the duplicate
// groups found in the batch.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"cardindex/importer"
	"cardindex/internal/config"
)

func main() {
	filePath := flag.String("file", "", "inventory file to ingest (.csv or .xlsx)")
	configPath := flag.String("config", "", "optional JSON config file")
	showIssues := flag.Bool("issues", true, "print advisory validation issues per row")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("usage: fingerprint_csv -file inventory.csv [-config config.json]")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	parser := importer.NewInventoryParser(importer.ParserConfig{
		Delimiter:     cfg.Delimiter(),
		HasHeader:     true,
		Encoding:      cfg.Encoding,
		SkipEmptyRows: true,
		MaxErrors:     cfg.MaxRowErrors,
		ErrorCallback: func(err error) { log.Printf("row error: %v", err) },
	})

	var result *importer.ImportResult
	switch strings.ToLower(filepath.Ext(*filePath)) {
	case ".xlsx":
		result, err = parser.ParseXLSXFile(*filePath)
	case ".csv":
		result, err = parser.ParseCSVFile(*filePath)
	default:
		log.Fatalf("Unsupported file extension %q, expected .csv or .xlsx", filepath.Ext(*filePath))
	}
	if err != nil {
		log.Fatalf("Ingest failed: %v", err)
	}

	fmt.Printf("Batch %s: %d cards, %d row errors\n\n", result.BatchID, len(result.Cards), len(result.RowErrors))

	for _, card := range result.Cards {
		fmt.Printf("row %4d  [%s]  %s\n", card.Row, card.Kind, card.Fingerprint)
		if *showIssues {
			for _, issue := range card.Issues {
				fmt.Printf("          ! %s\n", issue)
			}
		}
	}

	if len(result.Duplicates) == 0 {
		fmt.Println("\nNo duplicates found.")
		return
	}

	fmt.Printf("\nDuplicate groups: %d\n", len(result.Duplicates))
	for _, group := range result.Duplicates {
		fmt.Printf("  [%s] %s\n", group.Kind, group.Fingerprint)
		for _, item := range group.Items {
			marker := " "
			if group.MasterItem != nil && item.Row == group.MasterItem.Row {
				marker = "*"
			}
			fmt.Printf("    %s row %d (%s)\n", marker, item.Row, item.Source)
		}
	}
}
