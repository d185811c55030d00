package engine

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/k8sclient"
	"github.com/imamik/chartstack/internal/util/retry"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: discard.
func WithLogger(log logr.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithParallelism bounds how many resources of one level are applied at
// once. Values below one mean sequential.
func WithParallelism(n int) Option {
	return func(e *Engine) { e.parallelism = n }
}

// WithDryRun renders every resource without touching the cluster.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) { e.dryRun = dryRun }
}

// WithRegisterer registers the engine metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Engine) { e.registerer = reg }
}

// WithRetryOptions overrides the backoff of remote calls.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(e *Engine) { e.retryOpts = append(e.retryOpts, opts...) }
}

// WithDefaultNamespace sets the namespace for releases without one.
// Default: the namespace of the provider's kubeconfig context.
func WithDefaultNamespace(namespace string) Option {
	return func(e *Engine) { e.defaultNamespace = namespace }
}

// WithHelmClientFactory replaces the Helm client constructor.
func WithHelmClientFactory(fn func(namespace string) (HelmClient, error)) Option {
	return func(e *Engine) { e.newHelmClient = fn }
}

// WithManifestClientFactory replaces the server-side apply client constructor.
func WithManifestClientFactory(fn func() (k8sclient.Client, error)) Option {
	return func(e *Engine) { e.newManifestClient = fn }
}

// WithRenderer replaces the chart renderer.
func WithRenderer(fn func(ctx context.Context, spec helm.ChartSpec, releaseName, namespace string, values helm.Values) ([]byte, error)) Option {
	return func(e *Engine) { e.render = fn }
}
