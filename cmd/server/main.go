package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cardflowhq/cardflow"
	"github.com/cardflowhq/cardflow/store"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON)")
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := cardflow.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			slog.Error("opening config", "error", err)
			os.Exit(1)
		}
		if err := json.NewDecoder(f).Decode(&cfg); err != nil {
			f.Close()
			slog.Error("parsing config", "error", err)
			os.Exit(1)
		}
		f.Close()
	}

	// Override from environment variables.
	if v := os.Getenv("CARDFLOW_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CARDFLOW_DEFAULT_THEME"); v != "" {
		cfg.DefaultTheme = v
	}
	apiKey := os.Getenv("CARDFLOW_API_KEY")

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		slog.Error("resolving database path", "error", err)
		os.Exit(1)
	}
	st, err := store.New(dbPath)
	if err != nil {
		slog.Error("opening store", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	h := newHandler(cfg, st)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("POST /documents/parse", h.handleParse)
	mux.HandleFunc("POST /documents/export", h.handleExport)
	mux.HandleFunc("GET /themes", h.handleThemes)
	mux.HandleFunc("GET /projects", h.handleListProjects)
	mux.HandleFunc("POST /projects", h.handleSaveProject)
	mux.HandleFunc("GET /projects/{id}", h.handleGetProject)
	mux.HandleFunc("PUT /projects/{id}", h.handleUpdateProject)
	mux.HandleFunc("DELETE /projects/{id}", h.handleDeleteProject)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           recoveryMiddleware(logMiddleware(authMiddleware(apiKey, mux))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}
