package release

import (
	"time"

	"github.com/imamik/chartstack/internal/addons/helm"
)

// DefaultTimeout is how long the engine waits for a release to become ready.
const DefaultTimeout = 60 * time.Second

// RepositoryOpts points at the Helm repository a chart is fetched from.
type RepositoryOpts struct {
	Repo string
}

// ReleaseArgs are the Helm-level arguments of a live release.
type ReleaseArgs struct {
	Name            string
	Chart           string
	Version         string
	RepositoryOpts  RepositoryOpts
	Namespace       string
	CreateNamespace bool
	SkipAwait       bool
	Timeout         time.Duration
	Values          helm.Values
}

// Release describes a Helm release to install or upgrade.
type Release struct {
	Name      string
	Provider  *Provider
	Args      ReleaseArgs
	DependsOn []Resource
}

// NewRelease builds a release descriptor. Without options the release has
// no namespace (the engine falls back to the provider's), creates its
// namespace, waits for readiness for DefaultTimeout and has empty values
// and dependencies.
//
// Values are stored exactly as passed; callers assemble the full overlay.
func NewRelease(provider *Provider, name, chart, version, repo string, opts ...ReleaseOption) *Release {
	r := &Release{
		Name:     name,
		Provider: provider,
		Args: ReleaseArgs{
			Name:            name,
			Chart:           chart,
			Version:         version,
			RepositoryOpts:  RepositoryOpts{Repo: repo},
			CreateNamespace: true,
			Timeout:         DefaultTimeout,
			Values:          helm.Values{},
		},
		DependsOn: []Resource{},
	}
	for _, opt := range opts {
		opt.applyToRelease(r)
	}
	return r
}

// ResourceName implements Resource.
func (r *Release) ResourceName() string { return r.Name }

// ResourceKind implements Resource.
func (r *Release) ResourceKind() string { return KindRelease }

// Dependencies implements Resource.
func (r *Release) Dependencies() []Resource { return r.DependsOn }

// ChartSpec returns the chart identity of the release.
func (r *Release) ChartSpec() helm.ChartSpec {
	return helm.ChartSpec{
		Repository: r.Args.RepositoryOpts.Repo,
		Name:       r.Args.Chart,
		Version:    r.Args.Version,
	}
}
