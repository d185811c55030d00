package addons

import (
	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
)

var externalDNSProduct = product{key: "external-dns", namespace: "default", timeout: release.DefaultTimeout}

// ExternalDNSArgs configures ExternalDNS against Route 53.
type ExternalDNSArgs struct {
	ReleaseArgs
	RoleARN string
}

// ExternalDNS returns the ExternalDNS release.
func ExternalDNS(provider *release.Provider, args ExternalDNSArgs) *release.Release {
	return args.newRelease(provider, externalDNSProduct, buildExternalDNSValues(args))
}

// buildExternalDNSValues creates helm values syncing records for services
// and ingresses. Only one controller may own the records at a time, hence
// the Recreate strategy.
func buildExternalDNSValues(args ExternalDNSArgs) helm.Values {
	return helm.Values{
		"provider": "aws",
		"sources":  []string{"service", "ingress"},
		"policy":   "sync",
		"deploymentStrategy": helm.Values{
			"type": "Recreate",
		},
		"serviceAccount": helm.ServiceAccount(args.RoleARN),
	}
}
