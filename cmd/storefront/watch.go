package main

import (
	"context"
	"fmt"
	"time"

	"github.com/revittco/storefront/internal/shop"
	"github.com/revittco/storefront/internal/store"
	"github.com/urfave/cli/v3"
)

func watchCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "follow the customer's order list until interrupted",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "refetch period, 0 disables polling",
				Value: 10 * time.Second,
			},
		},
		Action: withSession(cfg, func(ctx context.Context, s *session, cmd *cli.Command) error {
			sub, err := s.api.GetOrders(ctx, cfg.Customer)
			if err != nil {
				return err
			}
			defer sub.Release()

			cancel := sub.OnChange(func(st shop.State[[]store.Order]) {
				printTransition(s, st)
			})
			defer cancel()
			printTransition(s, sub.State())

			interval := cmd.Duration("interval")
			if interval <= 0 {
				<-ctx.Done()
				return nil
			}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := sub.Refetch(ctx); err != nil && ctx.Err() == nil {
						s.logger.Warn("refetch orders", "error", err)
					}
				}
			}
		}),
	}
}

func printTransition(s *session, st shop.State[[]store.Order]) {
	if s.json {
		_ = printJSON(s.out, map[string]any{
			"status":   st.Status.String(),
			"orders":   len(st.Data),
			"fetching": st.Fetching,
			"error":    errString(st.Err),
		})
		return
	}
	line := fmt.Sprintf("%s  %-9s orders=%d", time.Now().Format(time.TimeOnly), st.Status, len(st.Data))
	if st.Fetching {
		line += " fetching"
	}
	if st.Err != nil {
		line += " error=" + st.Err.Error()
	}
	fmt.Fprintln(s.out, line)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
