package handlers

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/chartstack/internal/addons"
	"github.com/imamik/chartstack/internal/config"
	"github.com/imamik/chartstack/internal/release"
	"github.com/imamik/chartstack/internal/stack"
)

// Factory function variables shared by the handlers - can be replaced in tests.
var (
	// findConfigFile locates chartstack.yaml when no path is given.
	findConfigFile = config.FindConfigFile

	// loadConfig loads and validates a configuration file.
	loadConfig = config.Load

	// readKubeconfig reads the kubeconfig the configuration points at.
	readKubeconfig = func(cfg *config.Config) ([]byte, error) {
		return cfg.ReadKubeconfig()
	}

	// buildStack assembles the release stack.
	buildStack = addons.BuildStack

	// isInteractiveTTY reports whether stdout is a terminal.
	isInteractiveTTY = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// loadedStack is a configuration with the stack built from it.
type loadedStack struct {
	config   *config.Config
	provider *release.Provider
	stack    *stack.Stack
}

// loadStack resolves and loads the configuration and builds its stack.
// Without a readable kubeconfig the provider carries no credentials, which is
// enough for commands that never reach the cluster.
func loadStack(configPath string, requireKubeconfig bool) (*loadedStack, error) {
	if configPath == "" {
		found, err := findConfigFile()
		if err != nil {
			return nil, err
		}
		configPath = found
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	kubeconfig, err := readKubeconfig(cfg)
	if err != nil && requireKubeconfig {
		return nil, err
	}

	provider := &release.Provider{
		Name:       cfg.Cluster.Name,
		Kubeconfig: kubeconfig,
		Context:    cfg.Cluster.Context,
	}

	s, err := buildStack(provider, cfg)
	if err != nil {
		return nil, err
	}
	return &loadedStack{config: cfg, provider: provider, stack: s}, nil
}
