package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/revittco/storefront/internal/querycache"
	"github.com/revittco/storefront/internal/shop"
	"github.com/revittco/storefront/internal/tagscript"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the top-level storefront.yaml structure.
type FileConfig struct {
	Cache     CacheConfig               `yaml:"cache"`
	Endpoints map[string]EndpointConfig `yaml:"endpoints,omitempty"`
	Seed      *SeedConfig               `yaml:"seed,omitempty"`
}

// CacheConfig tunes the query cache.
type CacheConfig struct {
	GracePeriod       *time.Duration `yaml:"grace_period,omitempty"`
	ClearOnInvalidate bool           `yaml:"clear_on_invalidate"`
	// RetryRejectedOnSubscribe defaults to true when omitted.
	RetryRejectedOnSubscribe *bool `yaml:"retry_rejected_on_subscribe,omitempty"`
}

// EndpointConfig overrides the tags a query endpoint provides.
type EndpointConfig struct {
	ProvidesTags       []string `yaml:"provides_tags,omitempty"`
	ProvidesTagsScript string   `yaml:"provides_tags_script,omitempty"`
}

// LoadFile reads, parses, and validates a YAML config file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates YAML config data.
func Parse(data []byte) (*FileConfig, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CacheOptions converts the cache section into query cache options.
func (c *FileConfig) CacheOptions(logger *slog.Logger) []querycache.Option {
	opts := []querycache.Option{
		querycache.WithLogger(logger),
		querycache.WithClearOnInvalidate(c.Cache.ClearOnInvalidate),
	}
	if c.Cache.GracePeriod != nil {
		opts = append(opts, querycache.WithGracePeriod(*c.Cache.GracePeriod))
	}
	if c.Cache.RetryRejectedOnSubscribe != nil {
		opts = append(opts, querycache.WithRetryRejectedOnSubscribe(*c.Cache.RetryRejectedOnSubscribe))
	}
	return opts
}

// ShopOptions converts the endpoint overrides into shop options, compiling
// any tag scripts.
func (c *FileConfig) ShopOptions(logger *slog.Logger) ([]shop.Option, error) {
	opts := []shop.Option{shop.WithLogger(logger)}
	for name, ep := range c.Endpoints {
		t := shop.EndpointTags{Static: ep.ProvidesTags}
		if ep.ProvidesTagsScript != "" {
			s, err := tagscript.Compile(name, ep.ProvidesTagsScript)
			if err != nil {
				return nil, fmt.Errorf("endpoint %s: %w", name, err)
			}
			fallback := ep.ProvidesTags
			if len(fallback) == 0 {
				if q, ok := defaultTags[name]; ok {
					fallback = []string{q}
				}
			}
			t.Func = s.Func(fallback, logger)
		}
		opts = append(opts, shop.WithEndpointTags(name, t))
	}
	return opts, nil
}

// defaultTags is the tag each query endpoint provides without overrides.
var defaultTags = map[string]string{
	shop.EndpointGetOrder:     shop.TagOrder,
	shop.EndpointGetOrders:    shop.TagOrder,
	shop.EndpointGetOrderByID: shop.TagOrder,
	shop.EndpointGetProfile:   shop.TagProfile,
	shop.EndpointGetWishlist:  shop.TagWishlist,
}
