package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/revittco/storefront/internal/client"
	"github.com/revittco/storefront/internal/config"
	"github.com/revittco/storefront/internal/querycache"
	"github.com/revittco/storefront/internal/shop"
	"github.com/urfave/cli/v3"
)

func newApp(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "storefront",
		Usage: "storefront client and development backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "api",
				Usage:       "storefront API base URL",
				Value:       cfg.APIURL,
				Destination: &cfg.APIURL,
			},
			&cli.StringFlag{
				Name:        "customer",
				Aliases:     []string{"c"},
				Usage:       "customer id for account commands",
				Value:       cfg.Customer,
				Destination: &cfg.Customer,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to storefront.yaml",
				Value:       cfg.ConfigFile,
				Destination: &cfg.ConfigFile,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print results as JSON",
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "print query cache statistics when the command finishes",
			},
			&cli.BoolFlag{
				Name:  "color",
				Usage: "color table headers",
			},
		},
		Commands: []*cli.Command{
			serveCommand(cfg),
			ordersCommand(cfg),
			registerCommand(cfg),
			profileCommand(cfg),
			wishlistCommand(cfg),
			watchCommand(cfg),
		},
	}
}

// session is the client side of one command: a query cache in front of the
// HTTP transport.
type session struct {
	api    *shop.API
	cache  *querycache.Cache
	logger *slog.Logger
	out    io.Writer
	json   bool
	color  bool
	stats  bool
}

// loadFileConfig reads the YAML config. A missing file yields an empty
// config.
func loadFileConfig(path string) (*config.FileConfig, error) {
	if path == "" {
		return &config.FileConfig{}, nil
	}
	fc, err := config.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &config.FileConfig{}, nil
	}
	return fc, err
}

func newSession(cfg *Config, cmd *cli.Command) (*session, error) {
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	fc, err := loadFileConfig(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	shopOpts, err := fc.ShopOptions(logger)
	if err != nil {
		return nil, err
	}

	cache := querycache.New(fc.CacheOptions(logger)...)
	transport := client.New(cfg.APIURL,
		client.WithLogger(logger),
		client.WithTimeout(cfg.Timeout),
		client.WithToken(cfg.Token),
	)
	var out io.Writer = os.Stdout
	if w := cmd.Root().Writer; w != nil {
		out = w
	}
	return &session{
		api:    shop.New(cache, transport, shopOpts...),
		cache:  cache,
		logger: logger,
		out:    out,
		json:   cmd.Bool("json"),
		color:  cmd.Bool("color"),
		stats:  cmd.Bool("stats"),
	}, nil
}

// close waits for background refetches, prints statistics when asked and
// shuts the cache down.
func (s *session) close(ctx context.Context) {
	if err := s.cache.WaitIdle(ctx); err != nil {
		s.logger.Debug("cache did not settle", "error", err)
	}
	if s.stats {
		printStats(s.out, s.cache.Stats())
	}
	s.cache.Close()
}

// withSession adapts a session-based action to a cli action.
func withSession(cfg *Config, fn func(ctx context.Context, s *session, cmd *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		s, err := newSession(cfg, cmd)
		if err != nil {
			return err
		}
		defer s.close(ctx)
		return fn(ctx, s, cmd)
	}
}

func requireArgs(cmd *cli.Command, n int, usage string) error {
	if cmd.Args().Len() < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}
