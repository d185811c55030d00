package addons

import (
	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
)

var clusterAutoscalerProduct = product{key: "cluster-autoscaler", namespace: "default", timeout: release.DefaultTimeout}

// ClusterAutoscalerArgs configures the cluster autoscaler for EKS node groups.
type ClusterAutoscalerArgs struct {
	ReleaseArgs
	Region      string
	RoleARN     string
	ClusterName string
}

// ClusterAutoscaler returns the cluster autoscaler release.
func ClusterAutoscaler(provider *release.Provider, args ClusterAutoscalerArgs) *release.Release {
	return args.newRelease(provider, clusterAutoscalerProduct, buildClusterAutoscalerValues(args))
}

// buildClusterAutoscalerValues creates helm values using tag based
// auto-discovery of the cluster's worker node groups.
func buildClusterAutoscalerValues(args ClusterAutoscalerArgs) helm.Values {
	return helm.Values{
		"cloudProvider": "aws",
		"awsRegion":     args.Region,
		"autoDiscovery": helm.Values{
			"clusterName": args.ClusterName,
			"tags":        []string{"k8s.io/cluster-autoscaler/enabled"},
			"roles":       []string{"worker"},
		},
		"rbac": helm.Values{
			"create": true,
			"serviceAccount": helm.Values{
				"create":                       true,
				"name":                         "cluster-autoscaler",
				"automountServiceAccountToken": true,
				"annotations":                  helm.IRSAAnnotations(args.RoleARN),
			},
		},
		"resources": helm.Resources("200m", "200Mi", "200m", "200Mi"),
	}
}
