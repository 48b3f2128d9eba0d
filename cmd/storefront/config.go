package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration loaded from STOREFRONT_*
// environment variables. Command-line flags override it.
type Config struct {
	HTTPAddr   string        `env:"HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	APIURL     string        `env:"API_URL"`
	DBPath     string        `env:"DB_PATH"`
	ConfigFile string        `env:"CONFIG"`
	LogLevel   slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	Customer   string        `env:"CUSTOMER" envDefault:"c1"`
	Token      string        `env:"TOKEN"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// defaultDataPath returns ~/.storefront/<filename>, falling back to
// a CWD-relative path if the home directory can't be resolved.
func defaultDataPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filename
	}
	return filepath.Join(home, ".storefront", filename)
}

func loadConfig() (*Config, error) {
	return parseConfig(os.Environ())
}

func parseConfig(environ []string) (*Config, error) {
	var cfg Config
	opts := env.Options{Prefix: "STOREFRONT_", Environment: env.ToMap(environ)}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDataPath("storefront.db")
	}
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = defaultDataPath("storefront.yaml")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = httpURLFromAddr(cfg.HTTPAddr)
	}
	return &cfg, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// httpURLFromAddr converts a listen address into the base URL clients use.
//
//	:8080            -> http://localhost:8080
//	127.0.0.1:8080   -> http://127.0.0.1:8080
//	[::1]:8080       -> http://[::1]:8080
func httpURLFromAddr(addr string) string {
	a := strings.TrimSpace(addr)
	if a == "" {
		return "http://localhost"
	}
	if strings.HasPrefix(a, "http://") || strings.HasPrefix(a, "https://") {
		return strings.TrimRight(a, "/")
	}

	host, port, err := net.SplitHostPort(a)
	if err == nil {
		if host == "" || host == "0.0.0.0" || host == "::" {
			host = "localhost"
		}
		return "http://" + net.JoinHostPort(host, port)
	}
	return "http://" + a
}
