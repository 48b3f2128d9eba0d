package main

import (
	"context"
	"fmt"

	"github.com/revittco/storefront/internal/shop"
	"github.com/revittco/storefront/internal/store"
	"github.com/urfave/cli/v3"
)

func ordersCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "list, show and update the customer's orders",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list the customer's orders",
				Action: withSession(cfg, ordersList(cfg)),
			},
			{
				Name:      "show",
				Usage:     "show one order",
				ArgsUsage: "ORDER_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "any-customer", Usage: "look the order up without customer scoping"},
				},
				Action: withSession(cfg, ordersShow(cfg)),
			},
			{
				Name:      "set-status",
				Usage:     "move an order to a new state and refresh cached order views",
				ArgsUsage: "ORDER_ID STATE",
				Action:    withSession(cfg, ordersSetStatus(cfg)),
			},
		},
	}
}

func ordersList(cfg *Config) func(context.Context, *session, *cli.Command) error {
	return func(ctx context.Context, s *session, _ *cli.Command) error {
		sub, err := s.api.GetOrders(ctx, cfg.Customer)
		if err != nil {
			return err
		}
		defer sub.Release()
		orders, err := sub.Result(ctx)
		if err != nil {
			return err
		}
		return s.printOrders(orders)
	}
}

func ordersShow(cfg *Config) func(context.Context, *session, *cli.Command) error {
	return func(ctx context.Context, s *session, cmd *cli.Command) error {
		if err := requireArgs(cmd, 1, "storefront orders show ORDER_ID"); err != nil {
			return err
		}
		id := cmd.Args().First()

		var sub *shop.Subscription[*store.Order]
		var err error
		if cmd.Bool("any-customer") {
			sub, err = s.api.GetOrderByID(ctx, id)
		} else {
			sub, err = s.api.GetOrder(ctx, id, cfg.Customer)
		}
		if err != nil {
			return err
		}
		defer sub.Release()
		o, err := sub.Result(ctx)
		if err != nil {
			return err
		}
		return s.printOrder(o)
	}
}

func ordersSetStatus(cfg *Config) func(context.Context, *session, *cli.Command) error {
	return func(ctx context.Context, s *session, cmd *cli.Command) error {
		if err := requireArgs(cmd, 2, "storefront orders set-status ORDER_ID STATE"); err != nil {
			return err
		}
		id := cmd.Args().Get(0)
		state, err := shop.ParseOrderState(cmd.Args().Get(1))
		if err != nil {
			return err
		}

		// Hold the list view so the mutation refreshes it.
		list, err := s.api.GetOrders(ctx, cfg.Customer)
		if err != nil {
			return err
		}
		defer list.Release()
		if _, err := list.Result(ctx); err != nil {
			return err
		}

		o, err := s.api.ChangeOrderStatus(ctx, id, state)
		if err != nil {
			return err
		}
		if !s.json {
			fmt.Fprintf(s.out, "order %s is now %s\n", o.ID, o.State)
		}

		if err := s.cache.WaitIdle(ctx); err != nil {
			return err
		}
		orders, err := list.Result(ctx)
		if err != nil {
			return err
		}
		return s.printOrders(orders)
	}
}
