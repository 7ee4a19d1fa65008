// Command acmeroutes inspects the learning center's route table without
// starting the server.
package main

import (
	"fmt"
	"os"

	"github.com/dalemusser/acmelearning/internal/app/site"
	"github.com/dalemusser/acmelearning/internal/app/system/routetable"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var maxRedirects int

	root := &cobra.Command{
		Use:     "acmeroutes",
		Short:   "Inspect the ACME Learning Center route table",
		Version: version,
		Long: `acmeroutes builds the same route table the server uses and lets you
list its entries, resolve a path the way a browser navigation would,
or validate the table in CI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().IntVar(&maxRedirects, "max-redirects", routetable.DefaultMaxRedirects, "Redirect chain bound")

	load := func() (*routetable.Table, error) {
		return site.NewTable(routetable.WithMaxRedirects(maxRedirects))
	}

	root.AddCommand(
		listCmd(load),
		resolveCmd(load),
		checkCmd(load),
	)
	return root
}
