package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/revittco/storefront/internal/store"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// SeedConfig is demo data loaded into the dev backend.
type SeedConfig struct {
	Customers []SeedCustomer `yaml:"customers"`
}

type SeedCustomer struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Email    string         `yaml:"email"`
	Password string         `yaml:"password"`
	Image    string         `yaml:"image,omitempty"`
	Verified bool           `yaml:"verified"`
	Orders   []SeedOrder    `yaml:"orders,omitempty"`
	Wishlist []SeedWishlist `yaml:"wishlist,omitempty"`
}

type SeedOrder struct {
	ID    string          `yaml:"id"`
	State string          `yaml:"state,omitempty"`
	Items []SeedOrderItem `yaml:"items"`
}

type SeedOrderItem struct {
	ProductID string `yaml:"product_id"`
	Name      string `yaml:"name"`
	Quantity  int    `yaml:"quantity"`
	UnitPrice string `yaml:"unit_price"`
}

type SeedWishlist struct {
	ProductID string `yaml:"product_id"`
	Name      string `yaml:"name"`
	Price     string `yaml:"price"`
}

// DefaultSeed is the demo data used when no seed section is configured.
var DefaultSeed = SeedConfig{
	Customers: []SeedCustomer{
		{
			ID:       "c1",
			Name:     "Demo Customer",
			Email:    "demo@storefront.test",
			Password: "demo1234",
			Verified: true,
			Orders: []SeedOrder{
				{
					ID:    "o-1001",
					State: string(store.OrderPending),
					Items: []SeedOrderItem{
						{ProductID: "p-mug", Name: "Stoneware Mug", Quantity: 2, UnitPrice: "12.50"},
						{ProductID: "p-tea", Name: "Loose Leaf Tea", Quantity: 1, UnitPrice: "8.75"},
					},
				},
				{
					ID:    "o-1002",
					State: string(store.OrderShipped),
					Items: []SeedOrderItem{
						{ProductID: "p-kettle", Name: "Gooseneck Kettle", Quantity: 1, UnitPrice: "64.00"},
					},
				},
				{
					ID:    "o-1003",
					State: string(store.OrderDelivered),
					Items: []SeedOrderItem{
						{ProductID: "p-filter", Name: "Paper Filters", Quantity: 3, UnitPrice: "4.20"},
					},
				},
			},
			Wishlist: []SeedWishlist{
				{ProductID: "p-grinder", Name: "Burr Grinder", Price: "129.00"},
				{ProductID: "p-scale", Name: "Brew Scale", Price: "39.90"},
			},
		},
	},
}

// ApplySeed inserts seed data that is not in the store yet. Existing
// customers, orders and wishlist items are left untouched, so applying the
// same seed twice is a no-op.
func ApplySeed(ctx context.Context, s store.Store, seed *SeedConfig, bcryptCost int) error {
	if seed == nil {
		return nil
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return s.Tx(ctx, func(tx store.Store) error {
		for _, c := range seed.Customers {
			if err := seedCustomer(ctx, tx, c, bcryptCost); err != nil {
				return fmt.Errorf("seed customer %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

func seedCustomer(ctx context.Context, tx store.Store, c SeedCustomer, cost int) error {
	if _, err := tx.GetCustomer(ctx, c.ID); errors.Is(err, store.ErrNotFound) {
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), cost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		cust := &store.Customer{
			ID: c.ID, Name: c.Name, Email: c.Email, PasswordHash: hash,
			Image: c.Image, Verified: c.Verified,
		}
		if err := tx.CreateCustomer(ctx, cust); err != nil {
			return err
		}
		slog.Info("seeded customer", "id", c.ID, "email", cust.Email)
	} else if err != nil {
		return err
	}

	for _, so := range c.Orders {
		if _, err := tx.GetOrder(ctx, so.ID); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		o := &store.Order{ID: so.ID, CustomerID: c.ID, State: store.OrderState(so.State)}
		for _, it := range so.Items {
			price, err := decimal.NewFromString(it.UnitPrice)
			if err != nil {
				return fmt.Errorf("order %s: unit price: %w", so.ID, err)
			}
			o.Items = append(o.Items, store.OrderItem{
				ProductID: it.ProductID, Name: it.Name, Quantity: it.Quantity, UnitPrice: price,
			})
		}
		if err := tx.CreateOrder(ctx, o); err != nil {
			return fmt.Errorf("order %s: %w", so.ID, err)
		}
	}

	for _, w := range c.Wishlist {
		price, err := decimal.NewFromString(w.Price)
		if err != nil {
			return fmt.Errorf("wishlist %s: price: %w", w.ProductID, err)
		}
		err = tx.AddWishlistItem(ctx, &store.WishlistItem{
			CustomerID: c.ID, ProductID: w.ProductID, Name: w.Name, Price: price,
		})
		if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("wishlist %s: %w", w.ProductID, err)
		}
	}
	return nil
}
