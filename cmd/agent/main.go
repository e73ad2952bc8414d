package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viewcap/viewcap-agent/internal/api"
	"github.com/viewcap/viewcap-agent/internal/catalog"
	"github.com/viewcap/viewcap-agent/internal/config"
	"github.com/viewcap/viewcap-agent/internal/db"
	"github.com/viewcap/viewcap-agent/internal/host"
	"github.com/viewcap/viewcap-agent/internal/logging"
	"github.com/viewcap/viewcap-agent/internal/playblast"
	"github.com/viewcap/viewcap-agent/internal/review"
	"github.com/viewcap/viewcap-agent/internal/ui"
	"github.com/viewcap/viewcap-agent/internal/watcher"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting viewcap agent",
		"version", config.Version, "data_dir", logging.SanitizePath(cfg.DataDir()))

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := catalog.NewRepository(database.Conn())

	agentID, err := ensureAgentID(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure agent ID: %w", err)
	}

	authToken, err := ensureAuthToken(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║                     VIEWCAP AGENT                         ║")
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d ║\n", cfg.Port())
	fmt.Printf("║  Auth Token: %-45s ║\n", authToken)
	fmt.Printf("║  Agent ID:   %-45s ║\n", agentID[:16]+"...")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	var hostClient host.Client
	if cfg.StubHost() || cfg.HostURL() == "" {
		hostClient = host.NewStubClient(logger)
		logger.Info("using stub host (no bridge configured)")
	} else {
		httpClient := host.NewHTTPClient(cfg.HostURL(), cfg.HostToken(), cfg.HostTimeout(), logger)
		httpClient.SetAgentID(agentID)
		hostClient = httpClient
		logger.Info("host bridge configured", "url", cfg.HostURL())
	}

	probe := host.NewCachedProbe(hostClient, cfg.ProbeTTL(), logger)

	initCtx, initCancel := context.WithTimeout(context.Background(), cfg.HostTimeout())
	if info, err := probe.Refresh(initCtx); err != nil {
		logger.Warn("initial host probe failed", "error", err)
	} else {
		logger.Info("host detected",
			"host", info.HostName,
			"host_version", info.HostVersion,
			"bridge_version", info.BridgeVersion,
			"scene_loaded", info.SceneLoaded,
		)
	}
	initCancel()

	orch := playblast.New(hostClient, hostClient, logger)
	batchSvc := catalog.NewService(repo, orch, hostClient, logger)
	reviewSrv := review.NewServer(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clipWatcher, err := watcher.New(repo, logger)
	if err != nil {
		return fmt.Errorf("failed to create output watcher: %w", err)
	}
	defer clipWatcher.Close()
	go clipWatcher.Run(ctx)

	// Re-watch output directories of batches from previous runs.
	if batches, err := repo.ListBatches(ctx, 50); err == nil {
		for _, b := range batches {
			if b.OutputDir != "" {
				if err := clipWatcher.Add(b.OutputDir); err != nil {
					logger.Warn("could not watch output dir", "dir", b.OutputDir, "error", err)
				}
			}
		}
	}

	runner := catalog.NewRunner(batchSvc, repo, logger)
	runner.OnBatchCompleted = func(b *catalog.Batch) {
		if b.OutputDir == "" {
			return
		}
		if err := clipWatcher.Add(b.OutputDir); err != nil {
			logger.Warn("could not watch output dir", "dir", b.OutputDir, "error", err)
		}
	}
	go runner.Start(ctx)

	apiServer := api.NewServer(api.ServerConfig{
		Port:         cfg.Port(),
		BatchService: batchSvc,
		Scene:        hostClient,
		Probe:        probe,
		Repository:   repo,
		Runner:       runner,
		Review:       reviewSrv,
		Logger:       logger,
		StartTime:    startTime,
		AgentID:      agentID,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			close(quitCh)
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			BatchService: batchSvc,
			Runner:       runner,
			Logger:       logger,
			OnOpenReview: func() error {
				logger.Info("review page requested from tray",
					"url", fmt.Sprintf("http://127.0.0.1:%d/playblasts", cfg.Port()))
				return nil
			},
			OnQuit: func() {
				close(quitCh)
			},
		})
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func ensureAgentID(repo catalog.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetConfig(ctx, "agent_id")
	if err == nil && existing != "" {
		return existing, nil
	}

	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return "", err
	}
	agentID := hex.EncodeToString(idBytes)

	if err := repo.SetConfig(ctx, "agent_id", agentID); err != nil {
		return "", err
	}

	return agentID, nil
}

func ensureAuthToken(repo catalog.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetConfig(ctx, "auth_token")
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := repo.SetConfig(ctx, "auth_token", token); err != nil {
		return "", err
	}

	return token, nil
}
