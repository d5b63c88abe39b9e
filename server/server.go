// Package server exposes the standardization pipeline over HTTP: file
// uploads, scraping, candidate queries, exports and run history.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	"github.com/cadenwurzbacher/condensed-candidate-filings-data/database"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/docs"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/internal/config"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/scraper"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/standardize"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/taxonomy"
)

// Server wires the pipeline components behind the HTTP API.
type Server struct {
	cfg          *config.Config
	store        *database.Store
	orchestrator *standardize.Orchestrator
	scraper      *scraper.Scraper
	logger       *slog.Logger
}

// New builds a server over an open store.
func New(cfg *config.Config, store *database.Store) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}

	opts := []standardize.Option{standardize.WithWorkers(cfg.Workers)}
	if cfg.OfficeTablePath != "" {
		t, err := taxonomy.LoadTable(cfg.OfficeTablePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load office table: %w", err)
		}
		oc, err := taxonomy.NewOfficeClassifierWithTable(t)
		if err != nil {
			return nil, err
		}
		opts = append(opts, standardize.WithOfficeClassifier(oc))
	}
	if cfg.PartyTablePath != "" {
		t, err := taxonomy.LoadTable(cfg.PartyTablePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load party table: %w", err)
		}
		opts = append(opts, standardize.WithPartyTable(t))
	}

	return &Server{
		cfg:          cfg,
		store:        store,
		orchestrator: standardize.NewOrchestrator(opts...),
		scraper: scraper.NewScraper(scraper.Config{
			Timeout:   cfg.ScrapeTimeout,
			RateLimit: rate.Limit(float64(cfg.ScrapeRatePerMinute) / 60.0),
		}),
		logger: slog.Default().With("component", "server"),
	}, nil
}

// Router builds the gin engine with all middleware and routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		RequestIDMiddleware(),
		LoggerMiddleware(s.logger),
		RecoveryMiddleware(s.logger),
		CORSMiddleware(),
		RateLimitMiddleware(rate.Limit(100), 200),
	)

	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/upload/:state", s.handleUpload)
		api.POST("/scrape/:state", s.handleScrape)
		api.GET("/candidates", s.handleListCandidates)
		api.GET("/candidates/:id", s.handleGetCandidate)
		api.GET("/runs", s.handleListRuns)
		api.GET("/runs/:id", s.handleGetRun)
		api.GET("/export", s.handleExport)
	}

	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}

// Run starts the HTTP server on the configured port.
func (s *Server) Run() error {
	addr := ":" + s.cfg.Port
	s.logger.Info("Starting server", "addr", addr)
	return s.Router().Run(addr)
}

// ingest standardizes records, persists the survivors and records the run.
func (s *Server) ingest(state string, records []standardize.Record) (*runResponse, error) {
	clean, report := s.orchestrator.Standardize(records)

	written, err := s.store.UpsertCandidates(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to store candidates: %w", err)
	}

	runID, err := s.store.SaveRun(state, report)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	return &runResponse{
		RunID:   runID,
		State:   state,
		Written: written,
		Report:  report,
	}, nil
}

type runResponse struct {
	RunID   int                 `json:"run_id"`
	State   string              `json:"state"`
	Written int                 `json:"written"`
	Report  *standardize.Report `json:"report"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func sendError(c *gin.Context, status int, err error) {
	c.JSON(status, errorResponse{Error: err.Error(), RequestID: RequestID(c)})
}

func sendBadRequest(c *gin.Context, format string, args ...interface{}) {
	sendError(c, http.StatusBadRequest, fmt.Errorf(format, args...))
}
