package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imamik/chartstack/internal/config"
)

// Function variable for dependency injection in tests.
var now = time.Now

// WriteConfig writes the config to a YAML file with a descriptive header.
func WriteConfig(cfg *config.Config, outputPath string) error {
	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(cfg))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func generateHeader(cfg *config.Config) string {
	var sb strings.Builder
	sb.WriteString("# chartstack configuration\n")
	sb.WriteString(fmt.Sprintf("# Generated: %s\n", now().UTC().Format(time.RFC3339)))
	sb.WriteString("#\n")
	sb.WriteString(fmt.Sprintf("# Cluster: %s (%s)\n", cfg.Cluster.Name, cfg.Cluster.Region))
	if enabled := cfg.Addons.Enabled(); len(enabled) > 0 {
		sb.WriteString(fmt.Sprintf("# Add-ons: %s\n", strings.Join(enabled, ", ")))
	}
	sb.WriteString("#\n")
	sb.WriteString("# Values may use Go template syntax with sprig functions such as env.\n")
	return sb.String()
}
