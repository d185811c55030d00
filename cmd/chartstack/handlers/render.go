package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
	"github.com/imamik/chartstack/internal/stack"
)

// stdout is where render and plan write - can be replaced in tests.
var stdout io.Writer = os.Stdout

// descriptor is the printed form of a stack resource.
type descriptor struct {
	Kind       string      `json:"kind"`
	Name       string      `json:"name"`
	Namespace  string      `json:"namespace,omitempty"`
	Chart      string      `json:"chart"`
	Version    string      `json:"version"`
	Repository string      `json:"repository"`
	SkipAwait  bool        `json:"skipAwait,omitempty"`
	DependsOn  []string    `json:"dependsOn,omitempty"`
	Values     helm.Values `json:"values,omitempty"`
}

// Render prints every release descriptor of the configured stack as YAML.
func Render(_ context.Context, configPath string) error {
	loaded, err := loadStack(configPath, false)
	if err != nil {
		return err
	}
	return renderDescriptors(stdout, loaded.stack)
}

func renderDescriptors(w io.Writer, s *stack.Stack) error {
	for _, res := range s.Resources() {
		d, ok := describe(res)
		if !ok {
			continue
		}
		out, err := yaml.Marshal(d)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", d.Name, err)
		}
		if _, err := fmt.Fprintf(w, "---\n%s", out); err != nil {
			return err
		}
	}
	return nil
}

func describe(res release.Resource) (descriptor, bool) {
	var d descriptor
	switch r := res.(type) {
	case *release.Release:
		d = descriptor{
			Namespace: r.Args.Namespace,
			SkipAwait: r.Args.SkipAwait,
			Values:    r.Args.Values,
		}
		spec := r.ChartSpec()
		d.Chart, d.Version, d.Repository = spec.Name, spec.Version, spec.Repository
	case *release.ChartRender:
		d = descriptor{
			Namespace: r.Config.Namespace,
			SkipAwait: r.Config.SkipAwait,
			Values:    r.Config.Values,
		}
		spec := r.ChartSpec()
		d.Chart, d.Version, d.Repository = spec.Name, spec.Version, spec.Repository
	default:
		return d, false
	}

	d.Kind = res.ResourceKind()
	d.Name = res.ResourceName()
	d.DependsOn = dependencyNames(res)
	return d, true
}
