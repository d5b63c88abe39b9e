// @title Candidate Filings Standardization API
// @version 1.0
// @description Standardizes US election candidate filing records across states: stable identities, office and party classification, address decomposition and duplicate removal.

// @BasePath /api
// @schemes http

package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/cadenwurzbacher/condensed-candidate-filings-data/database"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/internal/config"
	"github.com/cadenwurzbacher/condensed-candidate-filings-data/server"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	store, err := database.NewStore(cfg.DatabasePath)
	if err != nil {
		slog.Error("Failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	srv, err := server.New(cfg, store)
	if err != nil {
		slog.Error("Failed to build server", "error", err)
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
