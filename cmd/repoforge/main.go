package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	geminiadapter "github.com/ericfisherdev/repoforge/internal/adapter/driven/gemini"
	githubadapter "github.com/ericfisherdev/repoforge/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/repoforge/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/repoforge/internal/adapter/driving/http"
	"github.com/ericfisherdev/repoforge/internal/application"
	"github.com/ericfisherdev/repoforge/internal/config"
	"github.com/ericfisherdev/repoforge/internal/domain/model"
	"github.com/ericfisherdev/repoforge/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"cache_ttl", cfg.CacheTTL,
		"github_auth", cfg.HasGitHubToken(),
		"gemini", cfg.HasGeminiKey(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire driven adapters.
	exclusionStore := sqliteadapter.NewExclusionRepo(db)
	combinationStore := sqliteadapter.NewCombinationRepo(db)
	ghClient := githubadapter.NewClient(cfg.GitHubToken)

	var analyzer driven.RepoAnalyzer
	if cfg.HasGeminiKey() {
		gemini, err := geminiadapter.NewAnalyzer(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := gemini.Close(); closeErr != nil {
				slog.Error("error closing gemini client", "error", closeErr)
			}
		}()
		analyzer = gemini
		slog.Info("gemini analyzer created")
	} else {
		slog.Info("no gemini key configured, analysis degrades to fallback insights")
	}

	// 6. Wire application services.
	scorer := application.NewQualityScorer()
	limiter := application.NewRateLimiter()
	searchCache := application.NewTTLCache[model.SearchPage](cfg.CacheTTL)
	searchSvc := application.NewSearchService(ghClient, limiter, searchCache, exclusionStore, scorer)
	combineSvc := application.NewCombineService(scorer, analyzer, combinationStore)

	if err := combineSvc.LoadPersisted(ctx); err != nil {
		return err
	}

	// 7. Create HTTP handler and server.
	handler := httphandler.NewHandler(searchSvc, combineSvc, exclusionStore, slog.Default())
	mux := httphandler.NewServeMux(handler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("repoforge started", "listen_addr", cfg.ListenAddr)

	// 8. Wait for shutdown signal, then drain the HTTP server.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
