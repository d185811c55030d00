package helm

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chartutil"
	"helm.sh/helm/v3/pkg/engine"
)

// DefaultKubeVersion is the cluster version charts are rendered against.
const DefaultKubeVersion = "v1.29.0"

// Renderer renders Helm charts into multi-document YAML the way
// `helm template --include-crds` does.
type Renderer struct {
	releaseName string
	namespace   string
	kubeVersion string
	skipCRDs    bool
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithKubeVersion sets the version reported in .Capabilities.KubeVersion.
func WithKubeVersion(version string) RendererOption {
	return func(r *Renderer) { r.kubeVersion = version }
}

// WithoutCRDs leaves the chart's crds/ directory out of the output.
func WithoutCRDs() RendererOption {
	return func(r *Renderer) { r.skipCRDs = true }
}

// NewRenderer creates a renderer for the given release name and namespace.
func NewRenderer(releaseName, namespace string, opts ...RendererOption) *Renderer {
	r := &Renderer{
		releaseName: releaseName,
		namespace:   namespace,
		kubeVersion: DefaultKubeVersion,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderFromSpec downloads a chart and renders it with the provided values.
func RenderFromSpec(ctx context.Context, spec ChartSpec, releaseName, namespace string, values Values) ([]byte, error) {
	loadedChart, err := DownloadChart(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to download chart: %w", err)
	}
	return NewRenderer(releaseName, namespace).Render(loadedChart, values)
}

// RenderFromPath renders a chart from a local directory or archive.
func RenderFromPath(chartPath, releaseName, namespace string, values Values) ([]byte, error) {
	loadedChart, err := loadChartFromPath(chartPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart: %w", err)
	}
	return NewRenderer(releaseName, namespace).Render(loadedChart, values)
}

// Render renders ch with values layered over the chart defaults. CRDs come
// first, then templates sorted by file name. NOTES.txt and templates that
// render to whitespace are dropped.
func (r *Renderer) Render(ch *chart.Chart, values Values) ([]byte, error) {
	kubeVersion, err := chartutil.ParseKubeVersion(r.kubeVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid kube version %q: %w", r.kubeVersion, err)
	}
	capabilities := chartutil.DefaultCapabilities.Copy()
	capabilities.KubeVersion = *kubeVersion

	// Chart defaults first so nested blocks the caller doesn't touch survive.
	merged := DeepMerge(Values(ch.Values), values)

	releaseOptions := chartutil.ReleaseOptions{
		Name:      r.releaseName,
		Namespace: r.namespace,
		IsInstall: true,
	}
	renderValues, err := chartutil.ToRenderValues(ch, chartutil.Values(merged.ToMap()), releaseOptions, capabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: failed to prepare values: %w", err)
	}

	rendered, err := engine.Render(ch, renderValues)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	var docs []string
	if !r.skipCRDs {
		for _, crd := range ch.CRDObjects() {
			docs = append(docs, cleanDocument(string(crd.File.Data)))
		}
	}

	names := make([]string, 0, len(rendered))
	for name := range rendered {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if filepath.Base(name) == "NOTES.txt" {
			continue
		}
		docs = append(docs, cleanDocument(rendered[name]))
	}

	var out bytes.Buffer
	for _, doc := range docs {
		if doc == "" {
			continue
		}
		if out.Len() > 0 {
			out.WriteString("\n---\n")
		}
		out.WriteString(doc)
		out.WriteString("\n")
	}
	return out.Bytes(), nil
}

// cleanDocument trims whitespace and a leading document separator.
func cleanDocument(doc string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(doc), "---"))
}
