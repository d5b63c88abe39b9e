package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cadenwurzbacher/condensed-candidate-filings-data/address"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/database"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/export"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/importer"
)

// handleHealth reports service liveness.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleUpload ingests an uploaded filing file for one state.
// @Summary Upload a state filing file
// @Description Accepts a CSV or Excel filing export, standardizes it and stores the candidates.
// @Tags pipeline
// @Accept multipart/form-data
// @Produce json
// @Param state path string true "State name or USPS code"
// @Param file formData file true "Filing file (.csv, .txt, .xlsx)"
// @Success 200 {object} runResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /upload/{state} [post]
func (s *Server) handleUpload(c *gin.Context) {
	state := c.Param("state")

	im, err := importer.NewImporter(state)
	if err != nil {
		sendBadRequest(c, "invalid state: %v", err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		sendBadRequest(c, "file is required: %v", err)
		return
	}

	// Excel needs a real file on disk for excelize; CSV could stream, but
	// one temp-file path keeps both formats uniform.
	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		sendError(c, http.StatusInternalServerError, fmt.Errorf("failed to save upload: %w", err))
		return
	}
	defer os.Remove(tmpPath)

	records, err := im.ReadFile(tmpPath)
	if err != nil {
		sendBadRequest(c, "failed to read filing file: %v", err)
		return
	}

	resp, err := s.ingest(state, records)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleScrape pulls a state's filings from its registered source.
// @Summary Scrape a state's filings
// @Tags pipeline
// @Produce json
// @Param state path string true "State USPS code"
// @Success 200 {object} runResponse
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /scrape/{state} [post]
func (s *Server) handleScrape(c *gin.Context) {
	state := c.Param("state")
	code := address.ToUSPS(state)
	if code == "" {
		sendBadRequest(c, "unknown state %q", state)
		return
	}

	records, err := s.scraper.Fetch(c.Request.Context(), code)
	if err != nil {
		sendError(c, http.StatusBadGateway, fmt.Errorf("scrape failed: %w", err))
		return
	}

	resp, err := s.ingest(state, records)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleListCandidates queries stored candidates.
// @Summary List candidates
// @Tags candidates
// @Produce json
// @Param state query string false "Election state"
// @Param office query string false "Canonical office"
// @Param party query string false "Canonical party"
// @Param year query string false "Election year"
// @Param limit query int false "Page size (default 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} errorResponse
// @Router /candidates [get]
func (s *Server) handleListCandidates(c *gin.Context) {
	filter := database.CandidateFilter{
		State:        c.Query("state"),
		Office:       c.Query("office"),
		Party:        c.Query("party"),
		ElectionYear: c.Query("year"),
		Limit:        queryInt(c, "limit", 100),
		Offset:       queryInt(c, "offset", 0),
	}

	candidates, err := s.store.ListCandidates(filter)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	total, err := s.store.CountCandidates(filter)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":      total,
		"count":      len(candidates),
		"candidates": candidates,
	})
}

// handleGetCandidate loads one candidate by stable ID.
// @Summary Get a candidate
// @Tags candidates
// @Produce json
// @Param id path string true "Stable candidate ID"
// @Success 200 {object} standardize.Record
// @Failure 404 {object} errorResponse
// @Router /candidates/{id} [get]
func (s *Server) handleGetCandidate(c *gin.Context) {
	id := c.Param("id")

	candidate, err := s.store.GetCandidate(id)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	if candidate == nil {
		sendError(c, http.StatusNotFound, fmt.Errorf("candidate %q not found", id))
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// handleListRuns returns run history, newest first.
// @Summary List standardization runs
// @Tags runs
// @Produce json
// @Param state query string false "Election state"
// @Param limit query int false "Max runs (default 50)"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} errorResponse
// @Router /runs [get]
func (s *Server) handleListRuns(c *gin.Context) {
	runs, err := s.store.ListRuns(c.Query("state"), queryInt(c, "limit", 50))
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(runs), "runs": runs})
}

// handleGetRun loads one run with its report.
// @Summary Get a run
// @Tags runs
// @Produce json
// @Param id path int true "Run ID"
// @Success 200 {object} database.Run
// @Failure 404 {object} errorResponse
// @Router /runs/{id} [get]
func (s *Server) handleGetRun(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		sendBadRequest(c, "run id must be numeric")
		return
	}

	run, err := s.store.GetRun(id)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	if run == nil {
		sendError(c, http.StatusNotFound, fmt.Errorf("run %d not found", id))
		return
	}
	c.JSON(http.StatusOK, run)
}

// handleExport streams stored candidates as JSON, CSV or an Excel workbook.
// @Summary Export candidates
// @Tags candidates
// @Produce octet-stream
// @Param format query string false "json, csv or excel (default csv)"
// @Param state query string false "Election state"
// @Param office query string false "Canonical office"
// @Param year query string false "Election year"
// @Success 200 {file} file
// @Failure 400 {object} errorResponse
// @Router /export [get]
func (s *Server) handleExport(c *gin.Context) {
	format := export.Format(c.DefaultQuery("format", string(export.FormatCSV)))

	candidates, err := s.store.ListCandidates(database.CandidateFilter{
		State:        c.Query("state"),
		Office:       c.Query("office"),
		ElectionYear: c.Query("year"),
	})
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	switch format {
	case export.FormatJSON:
		c.Header("Content-Disposition", `attachment; filename="candidates.json"`)
		c.Header("Content-Type", "application/json")
		if err := export.ToJSON(c.Writer, candidates); err != nil {
			sendError(c, http.StatusInternalServerError, err)
		}
	case export.FormatCSV:
		c.Header("Content-Disposition", `attachment; filename="candidates.csv"`)
		c.Header("Content-Type", "text/csv")
		if err := export.ToCSV(c.Writer, candidates); err != nil {
			sendError(c, http.StatusInternalServerError, err)
		}
	case export.FormatExcel:
		tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+".xlsx")
		defer os.Remove(tmpPath)
		if err := export.ToExcelFile(tmpPath, candidates); err != nil {
			sendError(c, http.StatusInternalServerError, err)
			return
		}
		c.FileAttachment(tmpPath, "candidates.xlsx")
	default:
		sendBadRequest(c, "unknown export format %q", format)
	}
}

func queryInt(c *gin.Context, key string, defaultValue int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return defaultValue
}
