package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/chartstack/cmd/chartstack/handlers"
)

// Apply returns the command that installs or upgrades the stack.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect chartstack.yaml)
//	--dry-run: Render manifests locally instead of applying them
//	--parallelism, -p: Releases applied concurrently within a level
//	--skip-preflight: Skip the S3 bucket checks
//	--metrics-file: Write apply metrics in Prometheus text format
//	--verbose, -v: Debug logging
func Apply() *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Install or upgrade the stack",
		Long: `Install or upgrade every enabled add-on in dependency order.

Before anything is installed, the S3 buckets referenced by thanos, loki and
the prometheus sidecar are checked to exist in the cluster region.

If no config file is specified, chartstack.yaml is searched in the current
directory and its parents. Use 'chartstack init' to create one.

Examples:
  # Apply using chartstack.yaml
  chartstack apply

  # Print the rendered manifests without touching the cluster
  chartstack apply --dry-run

  # Apply up to four releases at a time
  chartstack apply -c production.yaml -p 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: chartstack.yaml)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Render manifests locally instead of applying them")
	cmd.Flags().IntVarP(&opts.Parallelism, "parallelism", "p", handlers.DefaultParallelism, "Releases applied concurrently within a level")
	cmd.Flags().BoolVar(&opts.SkipPreflight, "skip-preflight", false, "Skip the S3 bucket checks")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write apply metrics to this file in Prometheus text format")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}
