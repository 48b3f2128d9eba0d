package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/revittco/storefront/internal/api"
	"github.com/revittco/storefront/internal/config"
	"github.com/revittco/storefront/internal/store/sqlite"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const version = "0.1.0"

func serveCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the development storefront API backed by SQLite",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       cfg.HTTPAddr,
				Destination: &cfg.HTTPAddr,
			},
			&cli.StringFlag{
				Name:        "db",
				Usage:       "SQLite database path",
				Value:       cfg.DBPath,
				Destination: &cfg.DBPath,
			},
			&cli.BoolFlag{
				Name:  "no-seed",
				Usage: "skip loading demo data",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServe(ctx, cfg, !cmd.Bool("no-seed"))
		},
	}
}

func runServe(ctx context.Context, cfg *Config, seed bool) error {
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	db, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	fc, err := loadFileConfig(cfg.ConfigFile)
	if err != nil {
		return err
	}
	if seed {
		data := fc.Seed
		if data == nil {
			data = &config.DefaultSeed
		}
		if err := config.ApplySeed(ctx, db, data, 0); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(api.RouterDeps{Store: db, Logger: logger, Version: version}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MiB
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", "addr", cfg.HTTPAddr, "db", cfg.DBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
