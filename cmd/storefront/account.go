package main

import (
	"context"
	"fmt"

	"github.com/revittco/storefront/internal/shop"
	"github.com/urfave/cli/v3"
)

func registerCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create a customer account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "full name"},
			&cli.StringFlag{Name: "email", Usage: "email address"},
			&cli.StringFlag{Name: "password", Usage: "password, at least 6 characters"},
			&cli.StringFlag{Name: "image", Usage: "profile image file name"},
			&cli.BoolFlag{Name: "accept-terms", Usage: "agree to the terms and conditions"},
		},
		Action: withSession(cfg, func(ctx context.Context, s *session, cmd *cli.Command) error {
			c, err := s.api.Register(ctx, shop.RegisterForm{
				Name:     cmd.String("name"),
				Email:    cmd.String("email"),
				Password: cmd.String("password"),
				Image:    cmd.String("image"),
				Terms:    cmd.Bool("accept-terms"),
			})
			if err != nil {
				return err
			}
			if !s.json {
				fmt.Fprintln(s.out, "account created, check your inbox to verify it")
			}
			return s.printCustomer(c)
		}),
	}
}

func profileCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "show or edit the customer's profile",
		Action: withSession(cfg, func(ctx context.Context, s *session, _ *cli.Command) error {
			sub, err := s.api.GetProfile(ctx, cfg.Customer)
			if err != nil {
				return err
			}
			defer sub.Release()
			c, err := sub.Result(ctx)
			if err != nil {
				return err
			}
			return s.printCustomer(c)
		}),
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "update profile fields",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "new display name"},
					&cli.StringFlag{Name: "image", Usage: "new profile image file name"},
				},
				Action: withSession(cfg, func(ctx context.Context, s *session, cmd *cli.Command) error {
					var upd shop.ProfileUpdate
					if cmd.IsSet("name") {
						v := cmd.String("name")
						upd.Name = &v
					}
					if cmd.IsSet("image") {
						v := cmd.String("image")
						upd.Image = &v
					}
					if upd.Name == nil && upd.Image == nil {
						return fmt.Errorf("nothing to update: pass --name or --image")
					}
					c, err := s.api.UpdateProfile(ctx, cfg.Customer, upd)
					if err != nil {
						return err
					}
					return s.printCustomer(c)
				}),
			},
			{
				Name:  "logout",
				Usage: "drop every cached query of the session",
				Action: withSession(cfg, func(_ context.Context, s *session, _ *cli.Command) error {
					s.api.Logout()
					return nil
				}),
			},
		},
	}
}
