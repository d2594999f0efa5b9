package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	apiconfig "modelrisk_intake/pkg/api/config"
	"modelrisk_intake/pkg/api/intake"
	"modelrisk_intake/pkg/api/server"
	"modelrisk_intake/pkg/api/sessions"
	"modelrisk_intake/pkg/core/agent"
	"modelrisk_intake/pkg/core/classify"
	"modelrisk_intake/pkg/core/config"
	"modelrisk_intake/pkg/core/docs"
	"modelrisk_intake/pkg/core/interview"
	"modelrisk_intake/pkg/core/logging"
	"modelrisk_intake/pkg/core/prefill"
	"modelrisk_intake/pkg/core/prompt"
	"modelrisk_intake/pkg/core/report"
	"modelrisk_intake/pkg/core/schema"
	"modelrisk_intake/pkg/core/store"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	flag.Parse()

	// Load environment variables
	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	prompts := prompt.Get()
	if n, err := prompts.LoadFromDirectory(cfg.Server.PromptsDir); err != nil {
		logger.Warn("failed to load prompt overrides, using built-ins", zap.String("dir", cfg.Server.PromptsDir), zap.Error(err))
	} else {
		logger.Info("prompts loaded", zap.Int("overrides", n), zap.Int("total", prompts.Count()))
	}

	agentMgr := agent.NewManager(cfg.Agents, logger.Named("agent"))
	if err := agentMgr.Ready(agent.Classifier); err != nil {
		logger.Warn("active provider is not ready; LLM endpoints will return 503", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openSessions(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	extractor := docs.NewExtractor(docs.Config{
		MaxFileSize: cfg.MaxUploadBytes(),
		Cache:       docs.NewTextCache(filepath.Join(cfg.Server.CacheDir, "text")),
		Logger:      logger.Named("docs"),
	})
	intakeHandler := intake.NewHandler(
		extractor,
		classify.New(agentMgr, prompts, logger.Named("classify")),
		prefill.New(agentMgr, prompts, schema.Default(), logger.Named("prefill")),
		report.New(agentMgr, prompts, logger.Named("report")),
		interview.New(agentMgr, prompts, logger.Named("interview")),
		cfg.MaxUploadBytes(),
		logger,
	)

	router := server.NewRouter(logger,
		apiconfig.NewHandler(agentMgr, logger),
		intakeHandler,
		sessions.NewHandler(repo, logger),
	)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server starting",
			zap.String("addr", cfg.Server.Addr),
			zap.String("provider", agentMgr.GetActiveProvider()),
			zap.String("sessions", repo.Backend()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openSessions uses Postgres when DATABASE_URL is set and JSON files otherwise.
func openSessions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*store.SessionRepo, error) {
	fileDir := filepath.Join(cfg.Server.CacheDir, "sessions")
	if cfg.DatabaseURL == "" {
		return store.NewSessionRepo(nil, fileDir), nil
	}
	if err := store.InitDB(ctx, cfg.DatabaseURL); err != nil {
		return nil, err
	}
	repo := store.NewSessionRepo(store.GetPool(), fileDir)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	logger.Info("session store connected", zap.String("backend", repo.Backend()))
	return repo, nil
}
