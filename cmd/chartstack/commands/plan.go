package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/chartstack/cmd/chartstack/handlers"
)

// Plan returns the command that shows the apply order of a stack.
func Plan() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the order in which releases are applied",
		Long: `Show the releases of the stack grouped into levels.

Releases in one level only depend on releases in earlier levels and are
applied concurrently by 'chartstack apply'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: chartstack.yaml)")

	return cmd
}
