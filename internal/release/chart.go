package release

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/util/yaml"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/imamik/chartstack/internal/addons/helm"
)

// DefaultChartNamespace is used when NewChartRender gets no namespace.
const DefaultChartNamespace = "default"

// FetchOpts points at the Helm repository a rendered chart is fetched from.
type FetchOpts struct {
	Repo string
}

// ChartOpts are the chart-level arguments of a locally rendered chart.
type ChartOpts struct {
	Chart     string
	Version   string
	FetchOpts FetchOpts
	Namespace string
	SkipAwait bool
	Values    helm.Values
}

// Transformation rewrites one rendered Kubernetes object. Returning nil
// drops the object from the output.
type Transformation func(obj map[string]any) map[string]any

// ChartRender describes a chart rendered locally and applied as manifests.
type ChartRender struct {
	ReleaseName     string
	Provider        *Provider
	Config          ChartOpts
	DependsOn       []Resource
	Transformations []Transformation
}

// NewChartRender builds a chart render descriptor. Without options it
// renders into DefaultChartNamespace with empty values, dependencies and
// transformations.
func NewChartRender(provider *Provider, name, chart, version, repo string, opts ...ChartOption) *ChartRender {
	c := &ChartRender{
		ReleaseName: name,
		Provider:    provider,
		Config: ChartOpts{
			Chart:     chart,
			Version:   version,
			FetchOpts: FetchOpts{Repo: repo},
			Namespace: DefaultChartNamespace,
			Values:    helm.Values{},
		},
		DependsOn:       []Resource{},
		Transformations: []Transformation{},
	}
	for _, opt := range opts {
		opt.applyToChart(c)
	}
	return c
}

// ResourceName implements Resource.
func (c *ChartRender) ResourceName() string { return c.ReleaseName }

// ResourceKind implements Resource.
func (c *ChartRender) ResourceKind() string { return KindChartRender }

// Dependencies implements Resource.
func (c *ChartRender) Dependencies() []Resource { return c.DependsOn }

// ChartSpec returns the chart identity of the render.
func (c *ChartRender) ChartSpec() helm.ChartSpec {
	return helm.ChartSpec{
		Repository: c.Config.FetchOpts.Repo,
		Name:       c.Config.Chart,
		Version:    c.Config.Version,
	}
}

// Transform applies the transformations to a copy of obj in list order.
// The input is never modified. A nil result means the object was dropped.
func (c *ChartRender) Transform(obj map[string]any) map[string]any {
	if obj == nil {
		return nil
	}
	out := helm.Values(obj).ToMap()
	for _, t := range c.Transformations {
		out = t(out)
		if out == nil {
			return nil
		}
	}
	return out
}

// TransformManifests runs Transform over every object in a multi-document
// YAML stream and re-encodes the survivors.
func (c *ChartRender) TransformManifests(manifests []byte) ([]byte, error) {
	decoder := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(manifests), 4096)

	var docs [][]byte
	for {
		var obj map[string]any
		if err := decoder.Decode(&obj); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode YAML document: %w", err)
		}
		if len(obj) == 0 {
			continue
		}

		transformed := c.Transform(obj)
		if transformed == nil {
			continue
		}

		out, err := sigsyaml.Marshal(transformed)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML document: %w", err)
		}
		docs = append(docs, out)
	}

	var buf bytes.Buffer
	for i, doc := range docs {
		if i > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(doc)
	}
	return buf.Bytes(), nil
}
