package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenwurzbacher/condensed-candidate-filings-data/database"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/internal/config"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/standardize"
)

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()

	store, err := database.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{Port: "8080", Workers: 2, ScrapeRatePerMinute: 60}
	srv, err := New(cfg, store)
	require.NoError(t, err)

	return srv, srv.Router()
}

func TestHealth(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUploadAndQuery(t *testing.T) {
	_, router := newTestServer(t)

	csvContent := `Candidate Name,Office,Party,Address,Election Year
JOHN SMITH,U.S. Representative,Republican,"123 Main St, Honolulu, HI 96801",2016
Jane Doe,Governor,Democratic,,2016
Jane Doe,Governor,Democratic,,2016
`
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "filings.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvContent))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload/Hawaii", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		RunID   int                 `json:"run_id"`
		Written int                 `json:"written"`
		Report  *standardize.Report `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Written)
	assert.Equal(t, 3, resp.Report.RecordsIn)
	assert.Equal(t, 1, resp.Report.StatewideCollapsed)
	assert.NotZero(t, resp.RunID)

	// Candidates are queryable after ingestion.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/candidates?office=US+House", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Total      int                  `json:"total"`
		Candidates []standardize.Record `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "John Smith", list.Candidates[0].CandidateName)

	// Single-candidate lookup by stable ID.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/candidates/"+list.Candidates[0].StableID, nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// The run is in the history with its report.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/runs?state=Hawaii", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var runs struct {
		Count int            `json:"count"`
		Runs  []database.Run `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	require.Equal(t, 1, runs.Count)
	assert.Equal(t, 2, runs.Runs[0].Report.RecordsOut)
}

func TestUpload_InvalidState(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload/Atlantis", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_MissingFile(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload/Hawaii", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCandidate_NotFound(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/candidates/ffffffffffff", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRun_NotFoundAndBadID(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/runs/99", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/runs/abc", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScrape_UnknownState(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scrape/Atlantis", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport_CSV(t *testing.T) {
	srv, router := newTestServer(t)

	_, err := srv.store.UpsertCandidates([]standardize.Record{
		{StableID: "abc123def456", CandidateName: "John Smith", State: "Hawaii", Office: "US House"},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/export?format=csv", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "John Smith")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "candidates.csv")
}

func TestExport_UnknownFormat(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/export?format=parquet", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(1, 1))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
