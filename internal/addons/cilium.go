package addons

import (
	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
)

var ciliumProduct = product{key: "cilium", namespace: "kube-system", timeout: release.DefaultTimeout}

// CiliumArgs configures the Cilium CNI in AWS ENI mode.
type CiliumArgs struct {
	ReleaseArgs
	ClusterName string
}

// Cilium returns the Cilium release.
func Cilium(provider *release.Provider, args CiliumArgs) *release.Release {
	return args.newRelease(provider, ciliumProduct, buildCiliumValues(args))
}

// buildCiliumValues creates helm values for Cilium running with ENI IPAM
// and native routing.
func buildCiliumValues(args CiliumArgs) helm.Values {
	return helm.Values{
		"cluster": helm.Values{
			"name": args.ClusterName,
			"id":   0,
		},
		"eni": helm.Values{
			"enabled": true,
		},
		"ipam": helm.Values{
			"mode": "eni",
		},
		"egressMasqueradeInterfaces": "eth0",
		"routingMode":                "native",
		"hubble": helm.Values{
			"enabled": true,
		},
	}
}
