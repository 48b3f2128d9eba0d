package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/revittco/storefront/internal/querycache"
	"github.com/revittco/storefront/internal/store"
)

func renderTable(w io.Writer, color bool, headers []string, rows [][]string) {
	headerStyle := lipgloss.NewStyle().Bold(true)
	cellStyle := lipgloss.NewStyle()
	if color {
		headerStyle = headerStyle.Foreground(lipgloss.Color("12"))
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cellStyle
			if row == table.HeaderRow {
				style = headerStyle
			}
			if col > 0 {
				style = style.PaddingLeft(2)
			}
			return style
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s *session) printOrders(orders []store.Order) error {
	if s.json {
		return printJSON(s.out, orders)
	}
	if len(orders) == 0 {
		fmt.Fprintln(s.out, "no orders")
		return nil
	}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.ID,
			string(o.State),
			humanize.Comma(int64(len(o.Items))),
			o.Total.StringFixed(2),
			humanize.Time(o.CreatedAt),
		})
	}
	renderTable(s.out, s.color, []string{"ID", "STATE", "ITEMS", "TOTAL", "PLACED"}, rows)
	return nil
}

func (s *session) printOrder(o *store.Order) error {
	if s.json {
		return printJSON(s.out, o)
	}
	fmt.Fprintf(s.out, "Order %s (%s), placed %s, updated %s\n",
		o.ID, o.State, humanize.Time(o.CreatedAt), humanize.Time(o.UpdatedAt))
	rows := make([][]string, 0, len(o.Items))
	for _, it := range o.Items {
		rows = append(rows, []string{
			it.ProductID, it.Name, humanize.Comma(int64(it.Quantity)),
			it.UnitPrice.StringFixed(2), it.Subtotal().StringFixed(2),
		})
	}
	renderTable(s.out, s.color, []string{"PRODUCT", "NAME", "QTY", "PRICE", "SUBTOTAL"}, rows)
	fmt.Fprintf(s.out, "Total: %s\n", o.Total.StringFixed(2))
	return nil
}

func (s *session) printCustomer(c *store.Customer) error {
	if s.json {
		return printJSON(s.out, c)
	}
	verified := "no"
	if c.Verified {
		verified = "yes"
	}
	renderTable(s.out, s.color, []string{"ID", "NAME", "EMAIL", "VERIFIED", "JOINED"}, [][]string{
		{c.ID, c.Name, c.Email, verified, humanize.Time(c.CreatedAt)},
	})
	return nil
}

func (s *session) printWishlist(items []store.WishlistItem) error {
	if s.json {
		return printJSON(s.out, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(s.out, "wishlist is empty")
		return nil
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.ProductID, it.Name, it.Price.StringFixed(2), humanize.Time(it.AddedAt)})
	}
	renderTable(s.out, s.color, []string{"PRODUCT", "NAME", "PRICE", "ADDED"}, rows)
	return nil
}

func printStats(w io.Writer, st querycache.Stats) {
	fmt.Fprintln(w, strings.Join([]string{
		"cache: " + humanize.Comma(int64(st.Entries)) + " entries",
		humanize.Comma(int64(st.Tags)) + " tags",
		humanize.Comma(st.Hits) + " hits",
		humanize.Comma(st.Misses) + " misses",
		humanize.Comma(st.Fetches) + " fetches",
		humanize.Comma(st.FetchFailures) + " failed",
		humanize.Comma(st.Mutations) + " mutations",
		humanize.Comma(st.Invalidations) + " invalidations",
		humanize.Comma(st.Evictions) + " evictions",
		fmt.Sprintf("hit rate %.0f%%", st.HitRate*100),
	}, ", "))
}
