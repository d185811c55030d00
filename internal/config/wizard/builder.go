package wizard

import (
	"github.com/imamik/chartstack/internal/config"
)

// BuildConfig converts wizard answers to a Config with defaults applied.
func BuildConfig(r *WizardResult) *config.Config {
	cfg := &config.Config{
		Cluster: config.ClusterConfig{
			Name:    r.ClusterName,
			Region:  r.Region,
			Context: r.Context,
		},
		Ingress: config.IngressConfig{
			Domain: r.Domain,
		},
	}

	enabled := func(key string) bool { return containsAddon(r.EnabledAddons, key) }
	irsa := func(key string) config.IRSAAddonConfig {
		return config.IRSAAddonConfig{
			AddonConfig: config.AddonConfig{Enabled: enabled(key)},
			RoleARN:     r.roleARN(key),
		}
	}

	a := &cfg.Addons
	a.Cilium.Enabled = enabled(AddonCilium)
	a.MetricsServer.Enabled = enabled(AddonMetricsServer)
	a.AWSEBSCSIDriver.IRSAAddonConfig = irsa(AddonAWSEBSCSIDriver)
	a.AWSLoadBalancerController = irsa(AddonAWSLoadBalancerController)
	a.ExternalDNS = irsa(AddonExternalDNS)
	a.ClusterAutoscaler = irsa(AddonClusterAutoscaler)
	a.Karpenter.IRSAAddonConfig = irsa(AddonKarpenter)
	a.IngressNginx.Enabled = enabled(AddonIngressNginx)
	a.ArgoCD.Enabled = enabled(AddonArgoCD)
	a.KubePrometheusStack.Enabled = enabled(AddonKubePrometheusStack)
	a.OpenSearch.Enabled = enabled(AddonOpenSearch)

	a.Thanos.IRSAAddonConfig = irsa(AddonThanos)
	a.Thanos.Bucket = r.MetricsBucket
	if a.Thanos.Enabled && a.KubePrometheusStack.Enabled {
		a.KubePrometheusStack.ThanosEnabled = true
		a.KubePrometheusStack.Bucket = r.MetricsBucket
	}

	a.Loki.IRSAAddonConfig = irsa(AddonLoki)
	a.Loki.Bucket = r.LogsBucket

	cfg.ApplyDefaults()
	return cfg
}
