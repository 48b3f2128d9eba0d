package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/revittco/storefront/internal/shop"
	"github.com/revittco/storefront/internal/store"
	"github.com/revittco/storefront/internal/tagscript"
	"github.com/shopspring/decimal"
)

// ValidationError holds all validation failures for a config file.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: %s", strings.Join(e.Errors, "; "))
}

// validate checks the parsed config for correctness.
func validate(cfg *FileConfig) error {
	var errs []string

	if g := cfg.Cache.GracePeriod; g != nil && *g < 0 {
		errs = append(errs, fmt.Sprintf("cache.grace_period: must not be negative, got %s", *g))
	}

	names := make([]string, 0, len(cfg.Endpoints))
	for name := range cfg.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ep := cfg.Endpoints[name]
		if _, ok := defaultTags[name]; !ok {
			errs = append(errs, fmt.Sprintf("endpoints.%s: unknown query endpoint (known: %s)",
				name, strings.Join(shop.QueryNames(), ", ")))
			continue
		}
		for i, tag := range ep.ProvidesTags {
			if strings.TrimSpace(tag) == "" {
				errs = append(errs, fmt.Sprintf("endpoints.%s.provides_tags[%d]: empty tag", name, i))
			}
		}
		if ep.ProvidesTagsScript != "" {
			if _, err := tagscript.Compile(name, ep.ProvidesTagsScript); err != nil {
				errs = append(errs, fmt.Sprintf("endpoints.%s.provides_tags_script: %v", name, err))
			}
		}
	}

	if cfg.Seed != nil {
		errs = append(errs, validateSeed(cfg.Seed)...)
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func validateSeed(seed *SeedConfig) []string {
	var errs []string
	ids := make(map[string]bool)
	emails := make(map[string]bool)
	orderIDs := make(map[string]bool)
	for i, c := range seed.Customers {
		p := fmt.Sprintf("seed.customers[%d]", i)
		if c.ID == "" {
			errs = append(errs, p+": id is required")
		}
		if ids[c.ID] {
			errs = append(errs, fmt.Sprintf("%s: duplicate id %q", p, c.ID))
		}
		ids[c.ID] = true
		email := strings.ToLower(c.Email)
		if !strings.Contains(email, "@") {
			errs = append(errs, fmt.Sprintf("%s: invalid email %q", p, c.Email))
		}
		if emails[email] {
			errs = append(errs, fmt.Sprintf("%s: duplicate email %q", p, c.Email))
		}
		emails[email] = true
		if len(c.Password) < 6 {
			errs = append(errs, p+": password must be at least 6 characters")
		}
		for j, o := range c.Orders {
			op := fmt.Sprintf("%s.orders[%d]", p, j)
			if o.ID == "" {
				errs = append(errs, op+": id is required")
			}
			if orderIDs[o.ID] {
				errs = append(errs, fmt.Sprintf("%s: duplicate id %q", op, o.ID))
			}
			orderIDs[o.ID] = true
			if o.State != "" && !store.OrderState(o.State).Valid() {
				errs = append(errs, fmt.Sprintf("%s: invalid state %q", op, o.State))
			}
			for k, it := range o.Items {
				if it.Quantity <= 0 {
					errs = append(errs, fmt.Sprintf("%s.items[%d]: quantity must be positive", op, k))
				}
				if _, err := decimal.NewFromString(it.UnitPrice); err != nil {
					errs = append(errs, fmt.Sprintf("%s.items[%d]: invalid unit_price %q", op, k, it.UnitPrice))
				}
			}
		}
		for j, w := range c.Wishlist {
			if w.ProductID == "" {
				errs = append(errs, fmt.Sprintf("%s.wishlist[%d]: product_id is required", p, j))
			}
			if _, err := decimal.NewFromString(w.Price); err != nil {
				errs = append(errs, fmt.Sprintf("%s.wishlist[%d]: invalid price %q", p, j, w.Price))
			}
		}
	}
	return errs
}
