// Package export writes standardized candidates to JSON, CSV and Excel
// files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cadenwurzbacher/condensed-candidate-filings-data/standardize"
)

// Format selects the output file format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

var csvHeaders = []string{
	"Stable ID", "Candidate Name", "Office", "Source Office", "District",
	"Party", "Source Party", "State", "County", "Election Year",
	"Election Date", "Street", "City", "Address State", "Zip", "Phone",
	"Office Confidence", "Party Confidence",
}

// ToFile writes records to filename in the given format.
func ToFile(filename string, format Format, records []standardize.Record) error {
	switch format {
	case FormatJSON:
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		defer file.Close()
		return ToJSON(file, records)
	case FormatCSV:
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		defer file.Close()
		return ToCSV(file, records)
	case FormatExcel:
		return ToExcelFile(filename, records)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// ToJSON writes records as a JSON document with an export envelope.
func ToJSON(w io.Writer, records []standardize.Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	result := map[string]interface{}{
		"exported_at": time.Now().UTC().Format(time.RFC3339),
		"total":       len(records),
		"candidates":  records,
	}
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ToCSV writes records as CSV with a header row.
func ToCSV(w io.Writer, records []standardize.Record) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for _, r := range records {
		if err := writer.Write(csvRow(r)); err != nil {
			return fmt.Errorf("failed to write record %s: %w", r.StableID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ToExcelFile writes records to an Excel workbook with one sheet.
func ToExcelFile(filename string, records []standardize.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(csvHeaders))
	for i, h := range csvHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, r := range records {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		row := csvRow(r)
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		if err := f.SetSheetRow(sheet, cellRef, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func csvRow(r standardize.Record) []string {
	return []string{
		r.StableID, r.CandidateName, r.Office, r.SourceOffice, r.District,
		r.Party, r.SourceParty, r.State, r.County, r.ElectionYear,
		r.ElectionDate, r.Street, r.City, r.AddressState, r.Zip, r.Phone,
		strconv.FormatFloat(r.OfficeConfidence, 'f', 4, 64),
		strconv.FormatFloat(r.PartyConfidence, 'f', 4, 64),
	}
}
