package addons

import (
	"time"

	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
)

// longTimeout is used by add-ons whose workloads take minutes to settle.
const longTimeout = 600 * time.Second

// ReleaseArgs holds the arguments every add-on accepts. Zero values select
// the add-on's defaults.
type ReleaseArgs struct {
	Name      string
	Chart     string
	Version   string
	Repo      string
	Namespace string
	SkipAwait bool
	DependsOn []release.Resource

	// Values are deep merged over the built values.
	Values map[string]any
}

// product describes an add-on's defaults.
type product struct {
	key       string
	namespace string
	timeout   time.Duration
}

func (a ReleaseArgs) resolvedNamespace(p product) string {
	if a.Namespace != "" {
		return a.Namespace
	}
	return p.namespace
}

func (a ReleaseArgs) chartSpec(p product) helm.ChartSpec {
	spec, _ := helm.LookupChartSpec(p.key)
	return spec.WithOverrides(a.Repo, a.Chart, a.Version)
}

func (a ReleaseArgs) newRelease(provider *release.Provider, p product, values helm.Values) *release.Release {
	name := a.Name
	if name == "" {
		name = p.key
	}
	spec := a.chartSpec(p)

	return release.NewRelease(provider, name, spec.Name, spec.Version, spec.Repository,
		release.WithNamespace(a.resolvedNamespace(p)),
		release.WithSkipAwait(a.SkipAwait),
		release.WithTimeout(p.timeout),
		release.WithValues(helm.MergeCustomValues(values, a.Values)),
		release.WithDependsOn(a.DependsOn...),
	)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
