package release

import (
	"time"

	"github.com/imamik/chartstack/internal/addons/helm"
)

// ReleaseOption configures a Release built by NewRelease.
type ReleaseOption interface {
	applyToRelease(*Release)
}

// ChartOption configures a ChartRender built by NewChartRender.
type ChartOption interface {
	applyToChart(*ChartRender)
}

// SharedOption configures both constructors.
type SharedOption interface {
	ReleaseOption
	ChartOption
}

type releaseOptionFunc func(*Release)

func (f releaseOptionFunc) applyToRelease(r *Release) { f(r) }

type chartOptionFunc func(*ChartRender)

func (f chartOptionFunc) applyToChart(c *ChartRender) { f(c) }

type sharedOption struct {
	release releaseOptionFunc
	chart   chartOptionFunc
}

func (o sharedOption) applyToRelease(r *Release)   { o.release(r) }
func (o sharedOption) applyToChart(c *ChartRender) { o.chart(c) }

// WithNamespace sets the namespace the chart is installed into.
func WithNamespace(namespace string) SharedOption {
	return sharedOption{
		release: func(r *Release) { r.Args.Namespace = namespace },
		chart:   func(c *ChartRender) { c.Config.Namespace = namespace },
	}
}

// WithSkipAwait disables waiting for the chart's resources to become ready.
func WithSkipAwait(skip bool) SharedOption {
	return sharedOption{
		release: func(r *Release) { r.Args.SkipAwait = skip },
		chart:   func(c *ChartRender) { c.Config.SkipAwait = skip },
	}
}

// WithValues sets the values overlay. A nil overlay keeps the empty default.
func WithValues(values helm.Values) SharedOption {
	return sharedOption{
		release: func(r *Release) {
			if values != nil {
				r.Args.Values = values
			}
		},
		chart: func(c *ChartRender) {
			if values != nil {
				c.Config.Values = values
			}
		},
	}
}

// WithDependsOn appends resources that must be applied first. The caller's
// slice is copied; order is kept.
func WithDependsOn(resources ...Resource) SharedOption {
	return sharedOption{
		release: func(r *Release) { r.DependsOn = append(r.DependsOn, resources...) },
		chart:   func(c *ChartRender) { c.DependsOn = append(c.DependsOn, resources...) },
	}
}

// WithCreateNamespace controls whether the release creates its namespace.
func WithCreateNamespace(create bool) ReleaseOption {
	return releaseOptionFunc(func(r *Release) { r.Args.CreateNamespace = create })
}

// WithTimeout sets how long the engine waits for the release.
func WithTimeout(timeout time.Duration) ReleaseOption {
	return releaseOptionFunc(func(r *Release) { r.Args.Timeout = timeout })
}

// WithTransformations appends post-render hooks, applied in the given order.
func WithTransformations(transformations ...Transformation) ChartOption {
	return chartOptionFunc(func(c *ChartRender) {
		c.Transformations = append(c.Transformations, transformations...)
	})
}
