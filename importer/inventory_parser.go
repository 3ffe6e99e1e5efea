// Package importer is the file-based ingestion layer: it reads card
// inventories from CSV and XLSX files, maps columns onto card descriptors,
// fingerprints every row and reports the duplicate groups found in the
// batch. It constructs descriptors; it never mutates them afterwards.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"cardindex/fingerprint"
	"cardindex/quality"
)

// ParserConfig holds configuration options for the inventory parser.
type ParserConfig struct {
	Delimiter     rune        // CSV delimiter (default: comma)
	HasHeader     bool        // Whether the CSV has a header row
	Encoding      string      // "utf-8" (default) or "windows-1252"
	SkipEmptyRows bool        // Skip rows with no non-blank cells
	MaxErrors     int         // Max row errors before giving up
	ErrorCallback func(error) // Callback invoked per row error
}

// DefaultParserConfig returns the defaults used by the cmd tools.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		Delimiter:     ',',
		HasHeader:     true,
		Encoding:      "utf-8",
		SkipEmptyRows: true,
		MaxErrors:     100,
	}
}

// ImportedCard is one successfully ingested row.
type ImportedCard struct {
	Row         int // 1-based position in the source file, header included
	Descriptor  fingerprint.CardDescriptor
	Fingerprint string
	Kind        fingerprint.Kind
	Issues      []string // advisory validation findings, may be empty
}

// RowError records a row that could not be ingested.
type RowError struct {
	Row int
	Err error
}

// ImportResult is the outcome of ingesting one file.
type ImportResult struct {
	BatchID    string // unique id for this ingest run, used in logs
	Source     string
	Cards      []ImportedCard
	RowErrors  []RowError
	Duplicates []quality.DuplicateGroup
}

// InventoryParser ingests card inventory files.
type InventoryParser struct {
	config   ParserConfig
	logger   *slog.Logger
	analyzer *quality.DuplicateAnalyzer
}

// NewInventoryParser creates a parser with the given configuration.
func NewInventoryParser(config ParserConfig) *InventoryParser {
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	if config.MaxErrors <= 0 {
		config.MaxErrors = 100
	}
	return &InventoryParser{
		config:   config,
		logger:   slog.Default().With("component", "inventory_parser"),
		analyzer: quality.NewDuplicateAnalyzer(),
	}
}

// columnAliases maps lowered, trimmed header names onto descriptor fields.
// Covers the header spellings seen across manual exports, grading
// submissions and marketplace CSVs.
var columnAliases = map[string]string{
	"player":               "playerName",
	"player name":          "playerName",
	"players":              "playerName",
	"athlete":              "playerName",
	"name":                 "playerName",
	"set":                  "setName",
	"set name":             "setName",
	"product":              "setName",
	"release":              "setName",
	"year":                 "year",
	"season":               "year",
	"card number":          "cardNumber",
	"card #":               "cardNumber",
	"card no":              "cardNumber",
	"number":               "cardNumber",
	"variant":              "variant",
	"parallel":             "variant",
	"insert":               "variant",
	"grade":                "grade",
	"condition grade":      "grade",
	"grading authority":    "gradingAuthority",
	"grading company":      "gradingAuthority",
	"grader":               "gradingAuthority",
	"certification number": "certificationNumber",
	"certification no":     "certificationNumber",
	"cert number":          "certificationNumber",
	"cert #":               "certificationNumber",
	"cert":                 "certificationNumber",
}

// ParseCSVFile ingests a CSV inventory file.
func (p *InventoryParser) ParseCSVFile(filePath string) (*ImportResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	return p.ParseCSV(f, filePath)
}

// ParseCSV ingests a CSV inventory from a reader. source labels the origin
// in logs and duplicate reports.
func (p *InventoryParser) ParseCSV(r io.Reader, source string) (*ImportResult, error) {
	if !p.config.HasHeader {
		return nil, fmt.Errorf("headerless CSV input is not supported: column mapping needs a header row")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	data, err = p.decode(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = p.config.Delimiter
	reader.FieldsPerRecord = -1

	result := p.newResult(source)
	var fields map[string]int
	rowNum := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			if !p.recordRowError(result, rowNum, err) {
				return result, fmt.Errorf("too many row errors (%d), aborting after row %d", len(result.RowErrors), rowNum)
			}
			continue
		}

		if fields == nil {
			fields = p.mapHeader(row)
			if len(fields) == 0 {
				return nil, fmt.Errorf("no recognizable card columns in header %v", row)
			}
			continue
		}

		p.ingestRow(result, rowNum, fields, row)
	}

	p.finish(result)
	return result, nil
}

// ParseXLSXFile ingests the first sheet of an XLSX workbook.
func (p *InventoryParser) ParseXLSXFile(filePath string) (*ImportResult, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	fields := p.mapHeader(rows[0])
	if len(fields) == 0 {
		return nil, fmt.Errorf("no recognizable card columns in header %v", rows[0])
	}

	result := p.newResult(filePath)
	for i, row := range rows[1:] {
		p.ingestRow(result, i+2, fields, row)
	}

	p.finish(result)
	return result, nil
}

func (p *InventoryParser) newResult(source string) *ImportResult {
	return &ImportResult{
		BatchID: uuid.NewString(),
		Source:  source,
	}
}

// decode hands back UTF-8 bytes. Marketplaces still export Windows-1252
// CSVs; when the configured encoding says so, or the bytes are not valid
// UTF-8, the data is transcoded.
func (p *InventoryParser) decode(data []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(p.config.Encoding))
	if encoding == "" || encoding == "utf-8" || encoding == "utf8" {
		if utf8.Valid(data) {
			return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}), nil
		}
		p.logger.Warn("Input is not valid UTF-8, assuming Windows-1252")
		encoding = "windows-1252"
	}

	switch encoding {
	case "windows-1252", "cp1252", "latin-1", "iso-8859-1":
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s input: %w", encoding, err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", p.config.Encoding)
	}
}

// mapHeader resolves header cells to descriptor fields via columnAliases.
func (p *InventoryParser) mapHeader(header []string) map[string]int {
	fields := make(map[string]int)
	for i, cell := range header {
		key := strings.TrimSpace(strings.ToLower(cell))
		if field, ok := columnAliases[key]; ok {
			if _, taken := fields[field]; !taken {
				fields[field] = i
			}
		}
	}
	return fields
}

func (p *InventoryParser) ingestRow(result *ImportResult, rowNum int, fields map[string]int, row []string) {
	if p.config.SkipEmptyRows && isEmptyRow(row) {
		return
	}

	// A cell pointer is set only when the column exists in the file, so a
	// missing column stays distinct from an empty cell.
	cell := func(field string) *string {
		idx, ok := fields[field]
		if !ok || idx >= len(row) {
			return nil
		}
		value := strings.TrimSpace(row[idx])
		return &value
	}

	d := fingerprint.CardDescriptor{
		CertificationNumber: cell("certificationNumber"),
		PlayerName:          cell("playerName"),
		SetName:             cell("setName"),
		Year:                cell("year"),
		CardNumber:          cell("cardNumber"),
		Variant:             cell("variant"),
		Grade:               cell("grade"),
		GradingAuthority:    cell("gradingAuthority"),
	}

	result.Cards = append(result.Cards, ImportedCard{
		Row:         rowNum,
		Descriptor:  d,
		Fingerprint: fingerprint.Build(d),
		Kind:        fingerprint.Classify(d),
		Issues:      quality.ValidateDescriptor(d),
	})
}

// recordRowError stores a row error, invokes the callback and reports
// whether parsing may continue.
func (p *InventoryParser) recordRowError(result *ImportResult, rowNum int, err error) bool {
	rowErr := RowError{Row: rowNum, Err: err}
	result.RowErrors = append(result.RowErrors, rowErr)
	if p.config.ErrorCallback != nil {
		p.config.ErrorCallback(fmt.Errorf("row %d: %w", rowNum, err))
	}
	return len(result.RowErrors) < p.config.MaxErrors
}

func (p *InventoryParser) finish(result *ImportResult) {
	items := make([]quality.DuplicateItem, 0, len(result.Cards))
	for _, card := range result.Cards {
		items = append(items, quality.DuplicateItem{
			Descriptor:  card.Descriptor,
			Fingerprint: card.Fingerprint,
			Source:      result.Source,
			Row:         card.Row,
		})
	}
	result.Duplicates = p.analyzer.AnalyzeDuplicates(items)

	p.logger.Info("Inventory ingest finished",
		"batch_id", result.BatchID,
		"source", result.Source,
		"cards", len(result.Cards),
		"row_errors", len(result.RowErrors),
		"duplicate_groups", len(result.Duplicates))
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
