// Package scraper pulls candidate filing tables from state election sites.
// Each state registers a source (page URL plus a CSS selector for the filing
// table); fetches are rate limited per scraper.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/cadenwurzbacher/condensed-candidate-filings-data/importer"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/standardize"
)

const userAgent = "candidate-filings-pipeline/1.0"

// Source describes where one state publishes its filings.
type Source struct {
	State         string `json:"state"`
	URL           string `json:"url"`
	TableSelector string `json:"table_selector"`
}

// defaultSources are the shipped state sources. New states are configuration:
// register a Source, no new code.
var defaultSources = map[string]Source{
	"AK": {State: "Alaska", URL: "https://www.elections.alaska.gov/candidates/", TableSelector: "table.candidate-list"},
	"FL": {State: "Florida", URL: "https://dos.elections.myflorida.com/candidates/", TableSelector: "table#candidates"},
	"WV": {State: "West Virginia", URL: "https://apps.sos.wv.gov/elections/candidate-search/", TableSelector: "table"},
}

// Config configures a Scraper.
type Config struct {
	Timeout   time.Duration
	RateLimit rate.Limit
}

// Scraper fetches and extracts filing tables.
type Scraper struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	sources    map[string]Source
	logger     *slog.Logger
}

// NewScraper builds a scraper with the shipped sources registered.
func NewScraper(config Config) *Scraper {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Every(2 * time.Second)
	}

	sources := make(map[string]Source, len(defaultSources))
	for code, src := range defaultSources {
		sources[code] = src
	}
	return &Scraper{
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(config.RateLimit, 1),
		sources:    sources,
		logger:     slog.Default().With("component", "scraper"),
	}
}

// RegisterSource adds or replaces the source for a state.
func (s *Scraper) RegisterSource(code string, src Source) {
	s.sources[strings.ToUpper(strings.TrimSpace(code))] = src
}

// Source returns the registered source for a state code.
func (s *Scraper) Source(code string) (Source, bool) {
	src, ok := s.sources[strings.ToUpper(strings.TrimSpace(code))]
	return src, ok
}

// Fetch downloads a state's filing page and extracts its candidate records.
func (s *Scraper) Fetch(ctx context.Context, code string) ([]standardize.Record, error) {
	src, ok := s.Source(code)
	if !ok {
		return nil, fmt.Errorf("no source registered for state %q", code)
	}
	return s.FetchSource(ctx, src)
}

// FetchSource downloads one source and extracts its filing table.
func (s *Scraper) FetchSource(ctx context.Context, src Source) ([]standardize.Record, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, src.URL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	records, err := extractTable(doc, src)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Fetched filing table", "state", src.State, "url", src.URL, "records", len(records))
	return records, nil
}

// extractTable pulls headers and rows out of the source's filing table and
// maps them through the state's column mapping.
func extractTable(doc *goquery.Document, src Source) ([]standardize.Record, error) {
	selector := src.TableSelector
	if selector == "" {
		selector = "table"
	}

	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table matched selector %q", selector)
	}

	var headers []string
	table.Find("tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(cell.Text()))
	})
	if len(headers) == 0 {
		return nil, fmt.Errorf("filing table has no header row")
	}

	var rows [][]string
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		var row []string
		tr.Find("td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, strings.TrimSpace(cell.Text()))
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})

	return importer.MapRows(src.State, headers, rows)
}
