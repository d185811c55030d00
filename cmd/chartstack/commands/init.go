package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/chartstack/cmd/chartstack/handlers"
	"github.com/imamik/chartstack/internal/config"
)

// Init returns the command for interactively creating a stack configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "chartstack.yaml")
//	--force: Overwrite an existing file without asking
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a stack configuration",
		Long: `Interactively create a stack configuration file.

The wizard asks for:

  - The EKS cluster (name, region and kubeconfig context)
  - The parent domain of add-on hostnames
  - The add-ons to install
  - IAM roles for add-ons that need AWS access
  - S3 buckets for long-term metrics and logs

The generated file can be edited afterwards; every add-on section accepts
helm overrides (repository, chart, version and values).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Output file path")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
