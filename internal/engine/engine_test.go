package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
	"github.com/imamik/chartstack/internal/stack"
	"github.com/imamik/chartstack/internal/util/retry"
)

var testProvider = &release.Provider{Name: "eks-test"}

func fastRetry() Option {
	return WithRetryOptions(
		retry.WithMaxRetries(2),
		retry.WithInitialDelay(time.Millisecond),
		retry.WithMaxDelay(time.Millisecond),
	)
}

func newTestEngine(t *testing.T, cluster *fakeCluster, opts ...Option) *Engine {
	t.Helper()
	all := append(cluster.options(), WithLogger(testr.New(t)), fastRetry(), WithDefaultNamespace("default"))
	return New(testProvider, append(all, opts...)...)
}

func testStack(t *testing.T) *stack.Stack {
	t.Helper()
	cilium := release.NewRelease(testProvider, "cilium", "cilium", "1.14.1", "https://helm.cilium.io",
		release.WithNamespace("kube-system"))
	metrics := release.NewRelease(testProvider, "metrics-server", "metrics-server", "3.11.0", "https://kubernetes-sigs.github.io/metrics-server",
		release.WithNamespace("kube-system"), release.WithDependsOn(cilium), release.WithSkipAwait(true))
	dns := release.NewRelease(testProvider, "external-dns", "external-dns", "1.13.0", "https://kubernetes-sigs.github.io/external-dns",
		release.WithDependsOn(cilium), release.WithTimeout(90*time.Second))
	crds := release.NewChartRender(testProvider, "karpenter-crds", "karpenter", "0.16.3", "https://charts.karpenter.sh",
		release.WithNamespace("karpenter"),
		release.WithDependsOn(cilium),
		release.WithTransformations(release.DropKinds("Secret"), release.SetLabel("app.kubernetes.io/managed-by", "chartstack")))

	s := stack.New("test")
	require.NoError(t, s.Add(cilium, metrics, dns, crds))
	return s
}

func TestApply_InstallsReleases(t *testing.T) {
	t.Parallel()
	cluster := newFakeCluster()
	e := newTestEngine(t, cluster, WithParallelism(3))

	report, err := e.Apply(context.Background(), testStack(t))
	require.NoError(t, err)

	assert.False(t, report.DryRun)
	assert.ElementsMatch(t, []string{"cilium", "metrics-server", "external-dns", "karpenter-crds"}, report.Names())
	assert.Equal(t, "cilium", report.Outcomes[0].Name)
	assert.Equal(t, 0, report.Outcomes[0].Level)
	for _, o := range report.Outcomes[1:] {
		assert.Equal(t, 1, o.Level, o.Name)
	}

	assert.ElementsMatch(t, []string{"cilium", "metrics-server", "external-dns"}, cluster.installed())
	assert.Equal(t, 2, cluster.created, "one helm client per namespace")

	system := cluster.helmClients["kube-system"].requests
	require.Len(t, system, 2)
	assert.Equal(t, "cilium", system[0].ReleaseName)
	assert.True(t, system[0].Wait)
	assert.True(t, system[0].CreateNamespace)
	assert.Equal(t, release.DefaultTimeout, system[0].Timeout)
	assert.Equal(t, helm.ChartSpec{Repository: "https://helm.cilium.io", Name: "cilium", Version: "1.14.1"}, system[0].Spec)
	assert.False(t, system[1].Wait, "skip await disables wait")

	dns := cluster.helmClients["default"].requests
	require.Len(t, dns, 1)
	assert.Equal(t, "default", dns[0].Namespace)
	assert.Equal(t, 90*time.Second, dns[0].Timeout)
}

func TestApply_ChartRenderIsTransformedAndApplied(t *testing.T) {
	t.Parallel()
	cluster := newFakeCluster()
	e := newTestEngine(t, cluster)

	_, err := e.Apply(context.Background(), testStack(t))
	require.NoError(t, err)

	applied := cluster.manifests.applied
	require.Len(t, applied, 1)
	assert.Equal(t, "karpenter", applied[0].namespace)
	assert.Equal(t, FieldManager, applied[0].fieldManager)
	assert.Contains(t, applied[0].manifests, "name: karpenter-crds")
	assert.Contains(t, applied[0].manifests, "app.kubernetes.io/managed-by: chartstack")
	assert.NotContains(t, applied[0].manifests, "kind: Secret")
	assert.Equal(t, []string{"karpenter"}, cluster.manifests.namespaces)
	assert.Equal(t, map[string]string{
		"app.kubernetes.io/managed-by": "chartstack",
		"chartstack.io/stack":          "eks-test",
		"chartstack.io/release":        "karpenter-crds",
	}, cluster.manifests.namespaceLabels)
}

func TestApply_DryRun(t *testing.T) {
	t.Parallel()
	cluster := newFakeCluster()
	e := newTestEngine(t, cluster, WithDryRun(true))

	report, err := e.Apply(context.Background(), testStack(t))
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Empty(t, cluster.installed())
	assert.Empty(t, cluster.manifests.applied)
	assert.Zero(t, cluster.created)
	assert.ElementsMatch(t, []string{"cilium", "metrics-server", "external-dns", "karpenter-crds"}, cluster.renders)

	for _, o := range report.Outcomes {
		assert.NotEmpty(t, o.Manifests, o.Name)
	}
}

func TestApply_RetriesTransientFailures(t *testing.T) {
	t.Parallel()
	cluster := newFakeCluster()
	cluster.helmFails = 2
	e := newTestEngine(t, cluster)

	s := stack.New("retry")
	require.NoError(t, s.Add(release.NewRelease(testProvider, "cilium", "cilium", "1.14.1", "https://helm.cilium.io")))

	_, err := e.Apply(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"cilium"}, cluster.installed())
}

func TestApply_RefreshesDiscoveryAfterFailedApply(t *testing.T) {
	t.Parallel()
	cluster := newFakeCluster()
	cluster.manifests.applyFails = 1
	e := newTestEngine(t, cluster)

	_, err := e.Apply(context.Background(), testStack(t))
	require.NoError(t, err)

	assert.Equal(t, 1, cluster.manifests.refreshes)
	assert.Len(t, cluster.manifests.applied, 1)
}

func TestApply_StopsAtFailingLevel(t *testing.T) {
	t.Parallel()
	cluster := newFakeCluster()
	cluster.manifests.applyErr = retry.Fatal(errors.New("forbidden"))
	e := newTestEngine(t, cluster)

	crds := release.NewChartRender(testProvider, "crds", "karpenter", "0.16.3", "https://charts.karpenter.sh")
	after := release.NewRelease(testProvider, "karpenter", "karpenter", "0.16.3", "https://charts.karpenter.sh",
		release.WithDependsOn(crds))
	s := stack.New("fail")
	require.NoError(t, s.Add(crds, after))

	report, err := e.Apply(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply level 0")
	assert.Contains(t, err.Error(), "forbidden")
	assert.Empty(t, report.Outcomes)
	assert.Empty(t, cluster.installed())
}

func TestApply_RejectsInvalidStack(t *testing.T) {
	t.Parallel()
	cluster := newFakeCluster()
	e := newTestEngine(t, cluster)

	first := release.NewRelease(testProvider, "first", "a", "1.0.0", "https://charts.example.com")
	second := release.NewRelease(testProvider, "second", "b", "1.0.0", "https://charts.example.com")
	s := stack.New("invalid")
	require.NoError(t, s.Add(first, second))
	first.DependsOn = append(first.DependsOn, second)

	_, err := e.Apply(context.Background(), s)
	assert.ErrorIs(t, err, stack.ErrForwardReference)
}

func TestApply_SkipsExternalResources(t *testing.T) {
	t.Parallel()
	cluster := newFakeCluster()
	e := newTestEngine(t, cluster)

	s := stack.New("external")
	require.NoError(t, s.Add(release.External("Namespace", "monitoring")))

	report, err := e.Apply(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"monitoring"}, report.Names())
	assert.Empty(t, cluster.installed())
}

func TestApply_RecordsMetrics(t *testing.T) {
	t.Parallel()
	cluster := newFakeCluster()
	reg := prometheus.NewRegistry()
	e := newTestEngine(t, cluster, WithRegisterer(reg))

	_, err := e.Apply(context.Background(), testStack(t))
	require.NoError(t, err)

	assert.InDelta(t, 3, testutil.ToFloat64(e.metrics.applyTotal.WithLabelValues(release.KindRelease, resultSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(e.metrics.applyTotal.WithLabelValues(release.KindChartRender, resultSuccess)), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(e.metrics.applyDuration))

	count, err := testutil.GatherAndCount(reg, "chartstack_engine_apply_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestKubeconfigNamespace(t *testing.T) {
	t.Parallel()

	kubeconfig := []byte(`apiVersion: v1
kind: Config
clusters:
- name: eks
  cluster:
    server: https://eks.example.com
contexts:
- name: admin
  context:
    cluster: eks
    user: admin
    namespace: platform
- name: other
  context:
    cluster: eks
    user: admin
current-context: admin
users:
- name: admin
  user:
    token: secret
`)

	tests := []struct {
		name     string
		provider *release.Provider
		want     string
	}{
		{"nil provider", nil, "default"},
		{"empty kubeconfig", &release.Provider{}, "default"},
		{"current context namespace", &release.Provider{Kubeconfig: kubeconfig}, "platform"},
		{"explicit context without namespace", &release.Provider{Kubeconfig: kubeconfig, Context: "other"}, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, kubeconfigNamespace(tt.provider))
		})
	}
}
