package addons

import (
	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
)

var metricsServerProduct = product{key: "metrics-server", namespace: "kube-system", timeout: release.DefaultTimeout}

// MetricsServerArgs configures the Kubernetes Metrics Server.
type MetricsServerArgs struct {
	ReleaseArgs
}

// MetricsServer returns the Metrics Server release.
func MetricsServer(provider *release.Provider, args MetricsServerArgs) *release.Release {
	return args.newRelease(provider, metricsServerProduct, buildMetricsServerValues(args))
}

// buildMetricsServerValues creates helm values for the addon.
func buildMetricsServerValues(MetricsServerArgs) helm.Values {
	return helm.Values{
		"resources": helm.Resources("200m", "200Mi", "200m", "200Mi"),
	}
}
