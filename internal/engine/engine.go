package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	helmrelease "helm.sh/helm/v3/pkg/release"

	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/k8sclient"
	"github.com/imamik/chartstack/internal/release"
	"github.com/imamik/chartstack/internal/stack"
	"github.com/imamik/chartstack/internal/util/async"
	"github.com/imamik/chartstack/internal/util/labels"
	"github.com/imamik/chartstack/internal/util/retry"
)

// FieldManager identifies chartstack in server-side applies.
const FieldManager = "chartstack"

// ErrUnsupportedResource is returned for resources the engine cannot apply.
var ErrUnsupportedResource = errors.New("unsupported resource kind")

// HelmClient installs or upgrades Helm releases.
type HelmClient interface {
	InstallOrUpgrade(ctx context.Context, req helm.InstallRequest) (*helmrelease.Release, error)
}

// Engine applies stacks to the cluster of one provider.
type Engine struct {
	provider *release.Provider
	log      logr.Logger

	parallelism      int
	dryRun           bool
	registerer       prometheus.Registerer
	retryOpts        []retry.Option
	defaultNamespace string

	newHelmClient     func(namespace string) (HelmClient, error)
	newManifestClient func() (k8sclient.Client, error)
	render            func(ctx context.Context, spec helm.ChartSpec, releaseName, namespace string, values helm.Values) ([]byte, error)

	metrics *metrics

	mu             sync.Mutex
	helmClients    map[string]HelmClient
	manifestClient k8sclient.Client
}

// New creates an engine for provider.
func New(provider *release.Provider, opts ...Option) *Engine {
	e := &Engine{
		provider:    provider,
		log:         logr.Discard(),
		parallelism: 1,
		render:      helm.RenderFromSpec,
		helmClients: make(map[string]HelmClient),
	}
	e.newHelmClient = e.defaultHelmClient
	e.newManifestClient = e.defaultManifestClient

	for _, opt := range opts {
		opt(e)
	}

	if e.defaultNamespace == "" {
		e.defaultNamespace = kubeconfigNamespace(provider)
	}
	e.metrics = newMetrics(e.registerer)
	return e
}

// Apply validates the stack and applies it level by level. It stops at the
// first level with a failure; the report holds what was applied until then.
func (e *Engine) Apply(ctx context.Context, s *stack.Stack) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stack: %w", err)
	}

	report := &Report{DryRun: e.dryRun}
	var mu sync.Mutex

	for i, level := range s.Levels() {
		e.log.Info("applying level", "level", i, "resources", len(level), "dryRun", e.dryRun)

		tasks := make([]async.Task, 0, len(level))
		for _, res := range level {
			tasks = append(tasks, async.Task{
				Name: res.ResourceName(),
				Func: func(ctx context.Context) error {
					outcome, err := e.applyResource(ctx, res)
					if err != nil {
						return err
					}
					outcome.Level = i
					mu.Lock()
					report.Outcomes = append(report.Outcomes, outcome)
					mu.Unlock()
					return nil
				},
			})
		}

		if err := async.Run(ctx, e.parallelism, tasks); err != nil {
			return report, fmt.Errorf("failed to apply level %d: %w", i, err)
		}
	}

	return report, nil
}

func (e *Engine) applyResource(ctx context.Context, res release.Resource) (Outcome, error) {
	kind := res.ResourceKind()
	name := res.ResourceName()
	log := e.log.WithValues("kind", kind, "name", name)
	start := time.Now()

	var (
		manifests []byte
		err       error
	)
	switch r := res.(type) {
	case *release.Release:
		manifests, err = e.applyRelease(ctx, log, r)
	case *release.ChartRender:
		manifests, err = e.applyChartRender(ctx, log, r)
	default:
		if release.IsExternal(res) {
			log.V(1).Info("skipping external resource")
			return Outcome{Name: name, Kind: kind}, nil
		}
		err = fmt.Errorf("%s %q: %w", kind, name, ErrUnsupportedResource)
	}

	duration := time.Since(start)
	switch {
	case err != nil:
		e.metrics.record(kind, resultError, duration)
		log.Error(err, "apply failed")
		return Outcome{}, err
	case e.dryRun:
		e.metrics.record(kind, resultDryRun, duration)
	default:
		e.metrics.record(kind, resultSuccess, duration)
	}

	log.Info("applied", "duration", duration.Round(time.Millisecond))
	return Outcome{Name: name, Kind: kind, Duration: duration, Manifests: manifests}, nil
}

func (e *Engine) applyRelease(ctx context.Context, log logr.Logger, r *release.Release) ([]byte, error) {
	namespace := e.namespace(r.Args.Namespace)

	if e.dryRun {
		return e.renderWithRetry(ctx, log, r.ChartSpec(), r.Args.Name, namespace, r.Args.Values)
	}

	client, err := e.helmClient(namespace)
	if err != nil {
		return nil, err
	}

	req := helm.InstallRequest{
		ReleaseName:     r.Args.Name,
		Spec:            r.ChartSpec(),
		Namespace:       namespace,
		CreateNamespace: r.Args.CreateNamespace,
		Wait:            !r.Args.SkipAwait,
		Timeout:         r.Args.Timeout,
		Values:          r.Args.Values,
	}
	err = e.retry(ctx, log, func(ctx context.Context) error {
		_, err := client.InstallOrUpgrade(ctx, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to install release %s: %w", r.Args.Name, err)
	}
	return nil, nil
}

func (e *Engine) applyChartRender(ctx context.Context, log logr.Logger, c *release.ChartRender) ([]byte, error) {
	namespace := e.namespace(c.Config.Namespace)

	rendered, err := e.renderWithRetry(ctx, log, c.ChartSpec(), c.ReleaseName, namespace, c.Config.Values)
	if err != nil {
		return nil, err
	}

	manifests, err := c.TransformManifests(rendered)
	if err != nil {
		return nil, fmt.Errorf("failed to transform %s: %w", c.ReleaseName, err)
	}
	if e.dryRun {
		return manifests, nil
	}

	client, err := e.k8sClient()
	if err != nil {
		return nil, err
	}

	err = e.retry(ctx, log, func(ctx context.Context) error {
		if err := client.EnsureNamespace(ctx, namespace, e.namespaceLabels(c.ReleaseName)); err != nil {
			return err
		}
		err := client.ApplyManifests(ctx, manifests, namespace, FieldManager)
		if err != nil {
			// CRDs from this or an earlier render may not be mapped yet.
			if rerr := client.RefreshDiscovery(ctx); rerr != nil {
				return errors.Join(err, rerr)
			}
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", c.ReleaseName, err)
	}
	return nil, nil
}

func (e *Engine) renderWithRetry(ctx context.Context, log logr.Logger, spec helm.ChartSpec, name, namespace string, values helm.Values) ([]byte, error) {
	var out []byte
	err := e.retry(ctx, log, func(ctx context.Context) error {
		rendered, err := e.render(ctx, spec, name, namespace, values)
		if err != nil {
			return err
		}
		out = rendered
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return out, nil
}

func (e *Engine) retry(ctx context.Context, log logr.Logger, op func(context.Context) error) error {
	opts := append([]retry.Option{
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Info("retrying", "attempt", attempt, "delay", delay, "error", err.Error())
		}),
	}, e.retryOpts...)
	return retry.Do(ctx, op, opts...)
}

func (e *Engine) namespace(ns string) string {
	if ns != "" {
		return ns
	}
	return e.defaultNamespace
}

// helmClient returns the cached client for namespace. Helm stores release
// records in the namespace of its action configuration.
func (e *Engine) helmClient(namespace string) (HelmClient, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.helmClients[namespace]; ok {
		return c, nil
	}
	c, err := e.newHelmClient(namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create helm client for namespace %s: %w", namespace, err)
	}
	e.helmClients[namespace] = c
	return c, nil
}

func (e *Engine) k8sClient() (k8sclient.Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.manifestClient != nil {
		return e.manifestClient, nil
	}
	c, err := e.newManifestClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	e.manifestClient = c
	return c, nil
}

func (e *Engine) defaultHelmClient(namespace string) (HelmClient, error) {
	if e.provider == nil {
		return nil, errors.New("no provider configured")
	}
	c, err := helm.NewClient(e.provider.Kubeconfig, e.provider.Context, namespace)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (e *Engine) defaultManifestClient() (k8sclient.Client, error) {
	if e.provider == nil {
		return nil, errors.New("no provider configured")
	}
	return k8sclient.NewFromKubeconfig(e.provider.Kubeconfig, e.provider.Context)
}

// namespaceLabels are set on namespaces the engine creates.
func (e *Engine) namespaceLabels(releaseName string) map[string]string {
	stackName := ""
	if e.provider != nil {
		stackName = e.provider.Name
	}
	return labels.NewLabelBuilder(stackName).WithRelease(releaseName).Build()
}

// kubeconfigNamespace returns the namespace of the provider's kubeconfig
// context, or "default".
func kubeconfigNamespace(provider *release.Provider) string {
	if provider == nil || len(provider.Kubeconfig) == 0 {
		return release.DefaultChartNamespace
	}
	ns, _, err := helm.NewInMemoryRESTClientGetter(provider.Kubeconfig, provider.Context, "").ToRawKubeConfigLoader().Namespace()
	if err != nil || ns == "" {
		return release.DefaultChartNamespace
	}
	return ns
}
