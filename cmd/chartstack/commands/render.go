package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/chartstack/cmd/chartstack/handlers"
)

// Render returns the command that prints the release descriptors of a stack.
func Render() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the release descriptors built from the configuration",
		Long: `Print every release descriptor built from the configuration as YAML.

Each document names the chart, version, repository, namespace and
dependencies of one release, followed by the full values passed to Helm.
Nothing is sent to the cluster.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Render(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: chartstack.yaml)")

	return cmd
}
