// Command standardize runs the pipeline over a filing file, or a directory
// of filing files, and writes the standardized candidates without the server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cadenwurzbacher/condensed-candidate-filings-data/export"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/importer"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/standardize"
)

func main() {
	var (
		state   = flag.String("state", "", "election state (full name or USPS code)")
		in      = flag.String("in", "", "input filing file or directory (.csv, .txt, .xlsx)")
		out     = flag.String("out", "candidates.csv", "output file")
		format  = flag.String("format", "csv", "output format: json, csv or excel")
		workers = flag.Int("workers", 4, "parallel enrichment workers")
	)
	flag.Parse()

	if *state == "" || *in == "" {
		fmt.Fprintln(os.Stderr, "usage: standardize -state <state> -in <file> [-out <file>] [-format json|csv|excel]")
		os.Exit(2)
	}

	if err := run(*state, *in, *out, export.Format(*format), *workers); err != nil {
		slog.Error("Standardization failed", "error", err)
		os.Exit(1)
	}
}

func run(state, in, out string, format export.Format, workers int) error {
	im, err := importer.NewImporter(state)
	if err != nil {
		return err
	}

	records, err := readInput(im, in)
	if err != nil {
		return err
	}

	o := standardize.NewOrchestrator(standardize.WithWorkers(workers))
	clean, report := o.Standardize(records)

	if err := export.ToFile(out, format, clean); err != nil {
		return err
	}

	summary, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(summary))
	return nil
}

// readInput reads one filing file, or every supported file in a directory.
func readInput(im *importer.Importer, in string) ([]standardize.Record, error) {
	info, err := os.Stat(in)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return im.ReadFile(in)
	}

	entries, err := os.ReadDir(in)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".txt", ".tsv", ".xlsx", ".xlsm":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no filing files in %s", in)
	}
	sort.Strings(names)

	var records []standardize.Record
	for _, name := range names {
		batch, err := im.ReadFile(filepath.Join(in, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		records = append(records, batch...)
	}
	return records, nil
}
