package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/staalberg/facetnav/app/api"
	"github.com/staalberg/facetnav/app/cfg"
	"github.com/staalberg/facetnav/app/config"
	"github.com/staalberg/facetnav/app/database"
	"github.com/staalberg/facetnav/app/generate"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// help was shown
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting facetnav", "version", appCfg.Version)

	if err := os.MkdirAll(appCfg.DataDir, 0755); err != nil {
		slog.Error("Failed to create data directory", "dir", appCfg.DataDir, "error", err)
		os.Exit(1)
	}

	db, err := database.NewConnection(filepath.Join(appCfg.DataDir, "facetnav.db"))
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "migration_version", version, "dirty", dirty)

	configCache := config.NewConfigCache(appCfg.ConfigDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load repository configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Repository configurations loaded", "count", configCache.GetConfigCount())

	rowRepo := database.NewRowRepository(db)
	entryRepo := database.NewEntryRepository(db)

	outDir := filepath.Join(appCfg.DataDir, "generated")
	generator := generate.NewGenerator(configCache, rowRepo, entryRepo, generate.Options{
		OutDir:          outDir,
		BaseURL:         appCfg.BaseUrl,
		ArchiveSize:     appCfg.ArchiveSize,
		RepublishSource: appCfg.RepublishSource,
		AuthorName:      appCfg.UserAgent,
	})

	scheduler := generate.NewScheduler(generator,
		time.Duration(appCfg.SchedulerInterval)*time.Second, appCfg.Force)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(configCache, rowRepo, entryRepo, generator, outDir)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
