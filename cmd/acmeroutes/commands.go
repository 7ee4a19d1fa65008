package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dalemusser/acmelearning/internal/app/site"
	"github.com/dalemusser/acmelearning/internal/app/system/routetable"
	"github.com/spf13/cobra"
)

type tableFunc func() (*routetable.Table, error)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// newTable returns a bordered table with a bold header row.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func listCmd(load tableFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List route entries in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := load()
			if err != nil {
				return err
			}
			out := newTable("PATH", "NAME", "TARGET", "FLAGS")
			for _, e := range t.Entries() {
				target := e.Redirect
				if target != "" {
					target = "→ " + target
				} else {
					target = site.DocumentTitle(e.Name)
				}
				out.Row(e.Path, e.Name, target, flags(e))
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Render())
			return nil
		},
	}
}

func flags(e routetable.Entry) string {
	var f []string
	if e.Meta.RequiresAuth {
		f = append(f, "auth")
	}
	if e.Meta.GuestOnly {
		f = append(f, "guest")
	}
	if e.Component.IsLazy() {
		f = append(f, "lazy")
	}
	if len(f) == 0 {
		return "-"
	}
	return strings.Join(f, ",")
}

func resolveCmd(load tableFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve PATH...",
		Short: "Resolve paths to route entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := load()
			if err != nil {
				return err
			}
			out := newTable("PATH", "ROUTE", "MATCHED", "REDIRECTS", "PARAMS", "TITLE")
			for _, p := range args {
				m, err := t.Resolve(p)
				if err != nil {
					return fmt.Errorf("%s: %w", p, err)
				}
				redirects := "-"
				if m.Redirected() {
					redirects = strings.Join(m.Redirects, " → ")
				}
				out.Row(p, m.Name(), m.Path, redirects, params(m.Params), site.DocumentTitle(m.Name()))
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Render())
			return nil
		},
	}
}

// params renders captured parameters as sorted key=value pairs.
func params(p map[string]string) string {
	if len(p) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+p[k])
	}
	return strings.Join(pairs, " ")
}

func checkCmd(load tableFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the route table and exit non-zero on error",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := load()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d routes, max %d redirects\n", t.Len(), t.MaxRedirects())
			return nil
		},
	}
}
