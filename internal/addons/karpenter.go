package addons

import (
	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
	"github.com/imamik/chartstack/internal/util/labels"
)

var karpenterProduct = product{key: "karpenter", namespace: "default", timeout: release.DefaultTimeout}

// KarpenterArgs configures the karpenter node autoprovisioner.
type KarpenterArgs struct {
	ReleaseArgs
	RoleARN                    string
	ClusterName                string
	ClusterEndpoint            string
	DefaultInstanceProfileName string
}

// Karpenter returns the karpenter release.
func Karpenter(provider *release.Provider, args KarpenterArgs) *release.Release {
	return args.newRelease(provider, karpenterProduct, buildKarpenterValues(args))
}

// KarpenterCRDs returns a render of the karpenter chart reduced to its
// CustomResourceDefinitions. Helm never upgrades CRDs it installed from
// crds/, so applying them server-side keeps them in step with the chart
// version. The karpenter release should depend on it.
func KarpenterCRDs(provider *release.Provider, args KarpenterArgs) *release.ChartRender {
	name := args.Name
	if name == "" {
		name = karpenterProduct.key
	}
	spec := args.chartSpec(karpenterProduct)

	return release.NewChartRender(provider, name+"-crds", spec.Name, spec.Version, spec.Repository,
		release.WithNamespace(args.resolvedNamespace(karpenterProduct)),
		release.WithSkipAwait(args.SkipAwait),
		release.WithValues(helm.MergeCustomValues(buildKarpenterValues(args), args.Values)),
		release.WithDependsOn(args.DependsOn...),
		release.WithTransformations(
			release.KeepKinds("CustomResourceDefinition"),
			release.SetLabel(labels.KeyManagedBy, labels.ManagedByChartstack),
		),
	)
}

// buildKarpenterValues creates helm values. The chart creates its own
// service account, so only the IRSA annotation is set.
func buildKarpenterValues(args KarpenterArgs) helm.Values {
	return helm.Values{
		"serviceAccount": helm.Values{
			"annotations": helm.IRSAAnnotations(args.RoleARN),
		},
		"clusterName":     args.ClusterName,
		"clusterEndpoint": args.ClusterEndpoint,
		"aws": helm.Values{
			"defaultInstanceProfile": args.DefaultInstanceProfileName,
		},
	}
}
