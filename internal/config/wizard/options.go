package wizard

import "github.com/charmbracelet/huh"

// Add-on keys offered by the wizard, matching the config section names.
const (
	AddonCilium                    = "cilium"
	AddonMetricsServer             = "metricsServer"
	AddonAWSEBSCSIDriver           = "awsEbsCsiDriver"
	AddonAWSLoadBalancerController = "awsLoadBalancerController"
	AddonExternalDNS               = "externalDns"
	AddonClusterAutoscaler         = "clusterAutoscaler"
	AddonKarpenter                 = "karpenter"
	AddonIngressNginx              = "ingressNginx"
	AddonArgoCD                    = "argoCd"
	AddonKubePrometheusStack       = "kubePrometheusStack"
	AddonThanos                    = "thanos"
	AddonOpenSearch                = "opensearch"
	AddonLoki                      = "loki"
)

// addonOption describes an add-on in the selection list.
type addonOption struct {
	Key         string
	Label       string
	NeedsRole   bool
	NeedsBucket bool
	Default     bool
}

var addonOptions = []addonOption{
	{Key: AddonCilium, Label: "Cilium (CNI)", Default: true},
	{Key: AddonMetricsServer, Label: "Metrics Server", Default: true},
	{Key: AddonAWSEBSCSIDriver, Label: "EBS CSI driver", NeedsRole: true, Default: true},
	{Key: AddonAWSLoadBalancerController, Label: "AWS Load Balancer Controller", NeedsRole: true, Default: true},
	{Key: AddonExternalDNS, Label: "ExternalDNS", NeedsRole: true},
	{Key: AddonClusterAutoscaler, Label: "Cluster Autoscaler", NeedsRole: true},
	{Key: AddonKarpenter, Label: "Karpenter", NeedsRole: true},
	{Key: AddonIngressNginx, Label: "ingress-nginx", Default: true},
	{Key: AddonArgoCD, Label: "Argo CD"},
	{Key: AddonKubePrometheusStack, Label: "kube-prometheus-stack"},
	{Key: AddonThanos, Label: "Thanos", NeedsRole: true, NeedsBucket: true},
	{Key: AddonOpenSearch, Label: "OpenSearch"},
	{Key: AddonLoki, Label: "Loki + Promtail", NeedsRole: true, NeedsBucket: true},
}

// AddonOptions returns the add-on choices for a multi-select, with the
// defaults preselected.
func AddonOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(addonOptions))
	for _, a := range addonOptions {
		opts = append(opts, huh.NewOption(a.Label, a.Key).Selected(a.Default))
	}
	return opts
}

// RegionOptions lists common AWS regions.
func RegionOptions() []huh.Option[string] {
	regions := []string{
		"eu-central-1",
		"eu-west-1",
		"eu-north-1",
		"us-east-1",
		"us-east-2",
		"us-west-2",
		"ap-southeast-1",
	}
	opts := make([]huh.Option[string], 0, len(regions))
	for _, r := range regions {
		opts = append(opts, huh.NewOption(r, r))
	}
	return opts
}

func lookupAddon(key string) (addonOption, bool) {
	for _, a := range addonOptions {
		if a.Key == key {
			return a, true
		}
	}
	return addonOption{}, false
}
