package helm

import (
	"context"
	"fmt"
	"time"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/release"
)

// InstallRequest describes a single install-or-upgrade of a chart.
type InstallRequest struct {
	ReleaseName     string
	Spec            ChartSpec
	Namespace       string
	CreateNamespace bool
	Wait            bool
	Timeout         time.Duration
	Values          Values
}

// Client provides Helm operations using in-memory kubeconfig.
type Client struct {
	kubeconfig   []byte
	kubeContext  string
	namespace    string
	actionConfig *action.Configuration
	loadChart    func(ctx context.Context, spec ChartSpec) (*chart.Chart, error)
}

// NewClient creates a Helm client from kubeconfig bytes. The namespace is
// where release records are stored; requests may target other namespaces.
func NewClient(kubeconfig []byte, kubeContext, namespace string) (*Client, error) {
	c := &Client{
		kubeconfig:  kubeconfig,
		kubeContext: kubeContext,
		namespace:   namespace,
		loadChart:   DownloadChart,
	}

	actionConfig := new(action.Configuration)
	restGetter := NewInMemoryRESTClientGetter(kubeconfig, kubeContext, namespace)

	// Helm's debug output is noise for us.
	if err := actionConfig.Init(restGetter, namespace, "secret", func(string, ...interface{}) {}); err != nil {
		return nil, fmt.Errorf("failed to initialize helm action config: %w", err)
	}

	c.actionConfig = actionConfig
	return c, nil
}

// InstallOrUpgrade installs a chart or upgrades if already installed.
func (c *Client) InstallOrUpgrade(ctx context.Context, req InstallRequest) (*release.Release, error) {
	exists, err := c.ReleaseExists(req.ReleaseName)
	if err != nil {
		return nil, err
	}
	if exists {
		return c.upgrade(ctx, req)
	}
	return c.install(ctx, req)
}

func (c *Client) install(ctx context.Context, req InstallRequest) (*release.Release, error) {
	installClient := action.NewInstall(c.actionConfig)
	installClient.ReleaseName = req.ReleaseName
	installClient.Namespace = c.targetNamespace(req)
	installClient.CreateNamespace = req.CreateNamespace
	installClient.Version = req.Spec.Version
	installClient.Wait = req.Wait
	installClient.Timeout = req.Timeout

	loaded, err := c.loadChart(ctx, req.Spec)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart: %w", err)
	}

	return installClient.RunWithContext(ctx, loaded, req.Values.ToMap())
}

func (c *Client) upgrade(ctx context.Context, req InstallRequest) (*release.Release, error) {
	upgradeClient := action.NewUpgrade(c.actionConfig)
	upgradeClient.Namespace = c.targetNamespace(req)
	upgradeClient.Version = req.Spec.Version
	upgradeClient.Wait = req.Wait
	upgradeClient.Timeout = req.Timeout
	upgradeClient.ReuseValues = false

	loaded, err := c.loadChart(ctx, req.Spec)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart: %w", err)
	}

	return upgradeClient.RunWithContext(ctx, req.ReleaseName, loaded, req.Values.ToMap())
}

func (c *Client) targetNamespace(req InstallRequest) string {
	if req.Namespace != "" {
		return req.Namespace
	}
	return c.namespace
}

// ReleaseExists checks if a release exists. A failed history lookup counts
// as not installed.
func (c *Client) ReleaseExists(releaseName string) (bool, error) {
	histClient := action.NewHistory(c.actionConfig)
	histClient.Max = 1
	if _, err := histClient.Run(releaseName); err != nil {
		return false, nil
	}
	return true, nil
}
