package engine

import (
	"context"
	"errors"
	"sync"

	helmrelease "helm.sh/helm/v3/pkg/release"

	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/k8sclient"
)

type fakeHelmClient struct {
	namespace string

	mu       sync.Mutex
	requests []helm.InstallRequest
	failures int
}

func (f *fakeHelmClient) InstallOrUpgrade(_ context.Context, req helm.InstallRequest) (*helmrelease.Release, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("connection refused")
	}
	f.requests = append(f.requests, req)
	return &helmrelease.Release{Name: req.ReleaseName, Namespace: req.Namespace}, nil
}

type appliedManifest struct {
	manifests    string
	namespace    string
	fieldManager string
}

type fakeManifestClient struct {
	mu              sync.Mutex
	namespaces      []string
	namespaceLabels map[string]string
	applied         []appliedManifest
	applyErr        error
	applyFails      int
	refreshes       int
}

func (f *fakeManifestClient) ApplyManifests(_ context.Context, manifests []byte, namespace, fieldManager string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	if f.applyFails > 0 {
		f.applyFails--
		return errors.New("no matches for kind \"EC2NodeClass\"")
	}
	f.applied = append(f.applied, appliedManifest{string(manifests), namespace, fieldManager})
	return nil
}

func (f *fakeManifestClient) EnsureNamespace(_ context.Context, name string, labels map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.namespaces = append(f.namespaces, name)
	f.namespaceLabels = labels
	return nil
}

func (f *fakeManifestClient) RefreshDiscovery(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return nil
}

// fakeCluster hands out one fake Helm client per namespace and records
// every render.
type fakeCluster struct {
	mu          sync.Mutex
	helmClients map[string]*fakeHelmClient
	created     int
	renders     []string
	manifests   *fakeManifestClient
	helmFails   int
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{
		helmClients: make(map[string]*fakeHelmClient),
		manifests:   &fakeManifestClient{},
	}
}

func (f *fakeCluster) options() []Option {
	return []Option{
		WithHelmClientFactory(func(namespace string) (HelmClient, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.created++
			c := &fakeHelmClient{namespace: namespace, failures: f.helmFails}
			f.helmClients[namespace] = c
			return c, nil
		}),
		WithManifestClientFactory(func() (k8sclient.Client, error) { return f.manifests, nil }),
		WithRenderer(func(_ context.Context, spec helm.ChartSpec, releaseName, namespace string, _ helm.Values) ([]byte, error) {
			f.mu.Lock()
			f.renders = append(f.renders, releaseName)
			f.mu.Unlock()
			return []byte(`apiVersion: v1
kind: ConfigMap
metadata:
  name: ` + releaseName + `
  namespace: ` + namespace + `
data:
  chart: ` + spec.Name + `
---
apiVersion: v1
kind: Secret
metadata:
  name: ` + releaseName + `-secret
`), nil
		}),
	}
}

func (f *fakeCluster) installed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, c := range f.helmClients {
		for _, r := range c.requests {
			names = append(names, r.ReleaseName)
		}
	}
	return names
}
