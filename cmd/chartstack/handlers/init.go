package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/imamik/chartstack/internal/config"
	"github.com/imamik/chartstack/internal/config/wizard"
)

// ErrNotInteractive is returned by Init when stdout is not a terminal.
var ErrNotInteractive = errors.New("init needs an interactive terminal")

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive wizard.
	runWizard = wizard.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string, force bool) error {
	if !isInteractiveTTY() {
		return ErrNotInteractive
	}

	if fileExists(outputPath) {
		if !force {
			return fmt.Errorf("%s already exists, use --force to overwrite it", outputPath)
		}
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := wizard.BuildConfig(result)

	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

func printWelcome() {
	fmt.Println()
	fmt.Println("chartstack - Helm chart stacks for EKS")
	fmt.Println("======================================")
	fmt.Println()
	fmt.Println("This wizard creates a stack configuration for an existing cluster.")
	fmt.Println()
}

func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Stack Summary")
	fmt.Println("-------------")
	fmt.Printf("  Cluster:  %s\n", cfg.Cluster.Name)
	fmt.Printf("  Region:   %s\n", cfg.Cluster.Region)
	if cfg.Ingress.Domain != "" {
		fmt.Printf("  Domain:   %s\n", cfg.Ingress.Domain)
	}
	if enabled := cfg.Addons.Enabled(); len(enabled) > 0 {
		fmt.Printf("  Add-ons:  %s\n", strings.Join(enabled, ", "))
	}
	if buckets := cfg.Buckets(); len(buckets) > 0 {
		fmt.Printf("  Buckets:  %s\n", strings.Join(buckets, ", "))
	}
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Printf("  1. Review %s if needed\n", outputPath)
	fmt.Println()
	fmt.Println("  2. Preview the apply order:")
	fmt.Println("     chartstack plan")
	fmt.Println()
	fmt.Println("  3. Install the stack:")
	fmt.Println("     chartstack apply")
	fmt.Println()
}
