// Package cli implements the brewbuddy command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

// NewRootCommand builds the brewbuddy command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "brewbuddy",
		Short: "BrewBuddy coffee shop storefront",
		Long: `BrewBuddy serves a coffee shop storefront: menu browsing, drink
customization, a per-session cart, checkout and order history.

Run "brewbuddy serve" to start the HTTP and gRPC APIs, or use the menu,
price, orders and audit commands from a terminal.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")

	cmd.AddCommand(
		newServeCommand(opts),
		newMenuCommand(),
		newPriceCommand(),
		newOrdersCommand(opts),
		newAuditCommand(opts),
	)
	return cmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
