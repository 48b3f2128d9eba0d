package main

import (
	"context"
	"fmt"

	"github.com/revittco/storefront/internal/shop"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
)

func wishlistCommand(cfg *Config) *cli.Command {
	show := func(ctx context.Context, s *session) error {
		sub, err := s.api.GetWishlist(ctx, cfg.Customer)
		if err != nil {
			return err
		}
		defer sub.Release()
		items, err := sub.Result(ctx)
		if err != nil {
			return err
		}
		return s.printWishlist(items)
	}

	return &cli.Command{
		Name:  "wishlist",
		Usage: "manage the customer's wishlist",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list saved products",
				Action: withSession(cfg, func(ctx context.Context, s *session, _ *cli.Command) error {
					return show(ctx, s)
				}),
			},
			{
				Name:      "add",
				Usage:     "save a product",
				ArgsUsage: "PRODUCT_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "product name"},
					&cli.StringFlag{Name: "price", Usage: "product price", Value: "0"},
				},
				Action: withSession(cfg, func(ctx context.Context, s *session, cmd *cli.Command) error {
					if err := requireArgs(cmd, 1, "storefront wishlist add PRODUCT_ID"); err != nil {
						return err
					}
					price, err := decimal.NewFromString(cmd.String("price"))
					if err != nil {
						return fmt.Errorf("invalid price %q: %w", cmd.String("price"), err)
					}
					_, err = s.api.AddToWishlist(ctx, cfg.Customer, shop.WishlistAdd{
						ProductID: cmd.Args().First(),
						Name:      cmd.String("name"),
						Price:     price,
					})
					if err != nil {
						return err
					}
					return show(ctx, s)
				}),
			},
			{
				Name:      "remove",
				Usage:     "remove a saved product",
				ArgsUsage: "PRODUCT_ID",
				Action: withSession(cfg, func(ctx context.Context, s *session, cmd *cli.Command) error {
					if err := requireArgs(cmd, 1, "storefront wishlist remove PRODUCT_ID"); err != nil {
						return err
					}
					if err := s.api.RemoveFromWishlist(ctx, cfg.Customer, cmd.Args().First()); err != nil {
						return err
					}
					return show(ctx, s)
				}),
			},
		},
	}
}
