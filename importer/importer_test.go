package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadCSV_StandardHeaders(t *testing.T) {
	im, err := NewImporter("Hawaii")
	if err != nil {
		t.Fatalf("NewImporter: %v", err)
	}

	csvContent := `Candidate Name,Office,Party,Address,County,Election Year
John Smith,U.S. Representative,Republican,"123 Main St, Honolulu, HI 96801",Honolulu,2016
Jane Doe,Governor,Democratic,,Maui,2016
`
	records, err := im.ReadCSV(strings.NewReader(csvContent))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	r := records[0]
	if r.RawName != "John Smith" {
		t.Errorf("RawName = %q", r.RawName)
	}
	if r.RawOffice != "U.S. Representative" {
		t.Errorf("RawOffice = %q", r.RawOffice)
	}
	if r.RawAddress != "123 Main St, Honolulu, HI 96801" {
		t.Errorf("RawAddress = %q", r.RawAddress)
	}
	if r.County != "Honolulu" || r.ElectionYear != "2016" {
		t.Errorf("County/Year = %q/%q", r.County, r.ElectionYear)
	}
	if r.State != "Hawaii" {
		t.Errorf("State = %q, want the importer's election state", r.State)
	}
}

func TestReadCSV_SemicolonDelimiter(t *testing.T) {
	im, err := NewImporter("Kansas")
	if err != nil {
		t.Fatalf("NewImporter: %v", err)
	}

	csvContent := "Name;Office;Party\nJohn Smith;Governor;Republican\n"
	records, err := im.ReadCSV(strings.NewReader(csvContent))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 1 || records[0].RawOffice != "Governor" {
		t.Fatalf("semicolon file misread: %+v", records)
	}
}

func TestReadCSV_StateColumnMapping(t *testing.T) {
	im, err := NewImporter("FL")
	if err != nil {
		t.Fatalf("NewImporter: %v", err)
	}

	// Florida exports use their own column vocabulary.
	csvContent := "CandName,OfficeDesc,PartyCode\nJane Doe,Governor,DEM\n"
	records, err := im.ReadCSV(strings.NewReader(csvContent))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].RawName != "Jane Doe" || records[0].RawParty != "DEM" {
		t.Errorf("Florida mapping misread: %+v", records[0])
	}
}

func TestReadCSV_SkipsEmptyRows(t *testing.T) {
	im, _ := NewImporter("Kansas")

	csvContent := "Name,Office\nJohn Smith,Governor\n,\n\nJane Doe,Sheriff\n"
	records, err := im.ReadCSV(strings.NewReader(csvContent))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (empty rows skipped)", len(records))
	}
}

func TestReadCSV_NoRecognizableColumns(t *testing.T) {
	im, _ := NewImporter("Kansas")

	if _, err := im.ReadCSV(strings.NewReader("foo,bar\n1,2\n")); err == nil {
		t.Fatal("expected an error for a file without candidate or office columns")
	}
}

func TestNewImporter_UnknownState(t *testing.T) {
	if _, err := NewImporter("Atlantis"); err == nil {
		t.Fatal("expected an error for an unknown state")
	}
}

func TestReadFile_CSV(t *testing.T) {
	im, _ := NewImporter("Hawaii")

	path := filepath.Join(t.TempDir(), "filings.csv")
	content := "Candidate,Office\nJohn Smith,Governor\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	records, err := im.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(records) != 1 || records[0].RawName != "John Smith" {
		t.Fatalf("ReadFile misread: %+v", records)
	}
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	im, _ := NewImporter("Hawaii")

	if _, err := im.ReadFile("filings.pdf"); err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
}

func TestReadExcel(t *testing.T) {
	im, _ := NewImporter("Alaska")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Candidate", "Seat", "Political Group"},
		{"John Smith", "House District 06", "Republican"},
		{"Jane Doe", "Governor", "Democratic"},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "filings.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	f.Close()

	records, err := im.ReadExcel(path)
	if err != nil {
		t.Fatalf("ReadExcel: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].RawOffice != "House District 06" {
		t.Errorf("Alaska seat column not mapped: %+v", records[0])
	}
	if records[1].RawName != "Jane Doe" {
		t.Errorf("second row misread: %+v", records[1])
	}
}

func TestReadExcel_TitleRowAboveHeader(t *testing.T) {
	im, _ := NewImporter("Kansas")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"2016 Candidate Filings"},
		{"Name", "Office", "Party"},
		{"John Smith", "Governor", "Republican"},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "filings.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	f.Close()

	records, err := im.ReadExcel(path)
	if err != nil {
		t.Fatalf("ReadExcel: %v", err)
	}
	if len(records) != 1 || records[0].RawName != "John Smith" {
		t.Fatalf("header row below title misread: %+v", records)
	}
}
