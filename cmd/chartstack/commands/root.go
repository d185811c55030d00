// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the chartstack CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "chartstack",
		Short:        "Install a curated Helm chart stack into an EKS cluster",
		SilenceUsage: true,
	}

	cmd.AddCommand(Init())
	cmd.AddCommand(Render())
	cmd.AddCommand(Plan())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Version())

	return cmd
}
