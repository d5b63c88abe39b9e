// Package importer reads state candidate filing exports (CSV and Excel) into
// pipeline records. Column layouts vary by state; a per-state mapping resolves
// each file's headers to record fields.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html/charset"

	"github.com/cadenwurzbacher/condensed-candidate-filings-data/address"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/standardize"
)

// Importer reads filing files for one election state.
type Importer struct {
	state  string
	logger *slog.Logger
}

// NewImporter creates an importer for the given election state (full name or
// USPS code).
func NewImporter(state string) (*Importer, error) {
	if address.ToUSPS(state) == "" {
		return nil, fmt.Errorf("unknown state %q", state)
	}
	return &Importer{
		state:  state,
		logger: slog.Default().With("component", "importer", "state", state),
	}, nil
}

// ReadFile reads a filing export, dispatching on the file extension.
func (im *Importer) ReadFile(path string) ([]standardize.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".tsv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open filing file: %w", err)
		}
		defer f.Close()
		return im.ReadCSV(f)
	case ".xlsx", ".xlsm":
		return im.ReadExcel(path)
	default:
		return nil, fmt.Errorf("unsupported filing file type %q", filepath.Ext(path))
	}
}

// ReadCSV reads a delimited filing export. The encoding is sniffed (state
// exports arrive in UTF-8, Latin-1 and Windows-1252), the delimiter is
// detected from the header line and columns resolve through the state
// mapping.
func (im *Importer) ReadCSV(r io.Reader) ([]standardize.Record, error) {
	decoded, err := charset.NewReader(r, "text/csv")
	if err != nil {
		return nil, fmt.Errorf("failed to detect file encoding: %w", err)
	}

	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to read filing file: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = detectDelimiter(string(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	cols := resolveColumns(headers, mappingFor(address.ToUSPS(im.state)))
	if cols.name == -1 && cols.office == -1 {
		return nil, fmt.Errorf("no candidate or office column found in headers %v", headers)
	}

	var records []standardize.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(records)+2, err)
		}
		if isEmptyRow(row) {
			continue
		}
		records = append(records, im.rowToRecord(row, cols))
	}

	im.logger.Info("Read filing file", "format", "csv", "records", len(records))
	return records, nil
}

// ReadExcel reads the first sheet of an Excel filing export.
func (im *Importer) ReadExcel(path string) ([]standardize.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("file is too short, expected a header row and at least one data row")
	}

	headerIdx := findHeaderRow(rows)
	cols := resolveColumns(rows[headerIdx], mappingFor(address.ToUSPS(im.state)))
	if cols.name == -1 && cols.office == -1 {
		return nil, fmt.Errorf("no candidate or office column found in headers %v", rows[headerIdx])
	}

	var records []standardize.Record
	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) {
			continue
		}
		records = append(records, im.rowToRecord(row, cols))
	}

	im.logger.Info("Read filing file", "format", "xlsx", "sheet", sheetName, "records", len(records))
	return records, nil
}

// rowToRecord maps one source row to a pipeline record. The election state
// comes from the importer unless the file carries its own state column.
func (im *Importer) rowToRecord(row []string, cols columnIndices) standardize.Record {
	state := cell(row, cols.state)
	if state == "" {
		state = im.state
	}
	return standardize.Record{
		RawName:      cell(row, cols.name),
		RawOffice:    cell(row, cols.office),
		RawParty:     cell(row, cols.party),
		RawAddress:   cell(row, cols.address),
		County:       cell(row, cols.county),
		ElectionYear: cell(row, cols.electionYear),
		ElectionDate: cell(row, cols.electDate),
		Phone:        cell(row, cols.phone),
		State:        state,
	}
}

// MapRows resolves headers against the state's column mapping and converts
// tabular rows to records. Used for sources that are already tabular but not
// files, like scraped HTML tables.
func MapRows(state string, headers []string, rows [][]string) ([]standardize.Record, error) {
	if address.ToUSPS(state) == "" {
		return nil, fmt.Errorf("unknown state %q", state)
	}

	cols := resolveColumns(headers, mappingFor(address.ToUSPS(state)))
	if cols.name == -1 && cols.office == -1 {
		return nil, fmt.Errorf("no candidate or office column found in headers %v", headers)
	}

	im := &Importer{state: state}
	var records []standardize.Record
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		records = append(records, im.rowToRecord(row, cols))
	}
	return records, nil
}

// findHeaderRow locates the header inside the first few rows. Some state
// exports put a title or export timestamp above the real header.
func findHeaderRow(rows [][]string) int {
	best := 0
	bestCols := 0
	for i := 0; i < len(rows) && i < 5; i++ {
		cols := 0
		for _, c := range rows[i] {
			if strings.TrimSpace(c) != "" {
				cols++
			}
		}
		if cols > bestCols {
			best = i
			bestCols = cols
		}
	}
	return best
}

// detectDelimiter picks the delimiter from the header line. Tab and
// semicolon exports exist alongside plain CSV.
func detectDelimiter(data string) rune {
	line := data
	if idx := strings.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}

	delims := []rune{',', '\t', ';', '|'}
	best := ','
	bestCount := 0
	for _, d := range delims {
		if n := strings.Count(line, string(d)); n > bestCount {
			best = d
			bestCount = n
		}
	}
	return best
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
