package cmd

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X ...cmd.version=..."
var version = "dev"

// NewRootCmd builds the fennel command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fennel",
		Short: "patient order search and PPO rate maintenance",
		Long: `fennel - patient order search and PPO rate maintenance
  - fuzzy search of orders by patient name and date of service
  - negotiated imaging rates by provider TIN and procedure category`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newClassifyCmd())

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
