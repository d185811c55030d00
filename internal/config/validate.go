package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// dnsNameRegex matches an RFC 1123 label of at most 63 characters.
	dnsNameRegex = regexp.MustCompile(`^[a-z]([a-z0-9-]{0,61}[a-z0-9])?$`)

	awsRegionRegex = regexp.MustCompile(`^[a-z]{2}(-gov)?-[a-z]+-\d$`)

	domainRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?)*\.[a-zA-Z]{2,}$`)
)

// NamedAddon pairs an add-on's configuration key with its common fields.
type NamedAddon struct {
	Key    string
	Config *AddonConfig
}

// All returns every add-on section in stack order.
func (a *AddonsConfig) All() []NamedAddon {
	return []NamedAddon{
		{"cilium", &a.Cilium},
		{"metricsServer", &a.MetricsServer},
		{"awsEbsCsiDriver", &a.AWSEBSCSIDriver.AddonConfig},
		{"awsLoadBalancerController", &a.AWSLoadBalancerController.AddonConfig},
		{"externalDns", &a.ExternalDNS.AddonConfig},
		{"clusterAutoscaler", &a.ClusterAutoscaler.AddonConfig},
		{"karpenter", &a.Karpenter.AddonConfig},
		{"ingressNginx", &a.IngressNginx.AddonConfig},
		{"argoCd", &a.ArgoCD.AddonConfig},
		{"kubePrometheusStack", &a.KubePrometheusStack.AddonConfig},
		{"thanos", &a.Thanos.AddonConfig},
		{"opensearch", &a.OpenSearch.AddonConfig},
		{"loki", &a.Loki.AddonConfig},
	}
}

// Enabled returns the keys of the enabled add-ons in stack order.
func (a *AddonsConfig) Enabled() []string {
	var keys []string
	for _, addon := range a.All() {
		if addon.Config.Enabled {
			keys = append(keys, addon.Key)
		}
	}
	return keys
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Version != "" && c.Version != DefaultSchemaVersion {
		errs = append(errs, fmt.Errorf("version must be %q, got %q", DefaultSchemaVersion, c.Version))
	}

	errs = append(errs, c.validateCluster()...)
	errs = append(errs, c.validateIngress()...)
	errs = append(errs, c.validateAddons()...)

	return errors.Join(errs...)
}

func (c *Config) validateCluster() []error {
	var errs []error

	if c.Cluster.Name == "" {
		errs = append(errs, errors.New("cluster.name is required"))
	} else if !dnsNameRegex.MatchString(c.Cluster.Name) {
		errs = append(errs, errors.New("cluster.name must be DNS-safe (lowercase alphanumeric and hyphens, must start with letter)"))
	}

	if c.Cluster.Region == "" {
		errs = append(errs, errors.New("cluster.region is required"))
	} else if !awsRegionRegex.MatchString(c.Cluster.Region) {
		errs = append(errs, fmt.Errorf("cluster.region %q is not a valid AWS region", c.Cluster.Region))
	}

	return errs
}

func (c *Config) validateIngress() []error {
	var errs []error

	if c.Ingress.Domain != "" && !domainRegex.MatchString(c.Ingress.Domain) {
		errs = append(errs, fmt.Errorf("ingress.domain %q must be a valid domain name", c.Ingress.Domain))
	}
	if p := c.Ingress.Protocol; p != "" && p != "http" && p != "https" {
		errs = append(errs, fmt.Errorf("ingress.protocol must be http or https, got %q", p))
	}

	return errs
}

func (c *Config) validateAddons() []error {
	var errs []error
	a := &c.Addons

	for _, addon := range a.All() {
		if !addon.Config.Enabled {
			continue
		}
		errs = append(errs, validateHelm("addons."+addon.Key+".helm", addon.Config.Helm)...)
	}

	requireRole := func(key string, cfg IRSAAddonConfig) {
		if !cfg.Enabled {
			return
		}
		if cfg.RoleARN == "" {
			errs = append(errs, fmt.Errorf("addons.%s.roleArn is required when %s is enabled", key, key))
		} else if !strings.HasPrefix(cfg.RoleARN, "arn:") {
			errs = append(errs, fmt.Errorf("addons.%s.roleArn %q is not an ARN", key, cfg.RoleARN))
		}
	}
	requireRole("clusterAutoscaler", a.ClusterAutoscaler)
	requireRole("awsLoadBalancerController", a.AWSLoadBalancerController)
	requireRole("externalDns", a.ExternalDNS)
	requireRole("awsEbsCsiDriver", a.AWSEBSCSIDriver.IRSAAddonConfig)
	requireRole("karpenter", a.Karpenter.IRSAAddonConfig)

	if a.AWSLoadBalancerController.Enabled && c.Cluster.VPCID == "" {
		errs = append(errs, errors.New("cluster.vpcId is required when awsLoadBalancerController is enabled"))
	}
	if a.Karpenter.Enabled && c.Cluster.Endpoint == "" {
		errs = append(errs, errors.New("cluster.endpoint is required when karpenter is enabled"))
	}

	if a.IngressNginx.Enabled && a.IngressNginx.SSLEnabled && len(a.IngressNginx.ACMCertARNs) == 0 {
		errs = append(errs, errors.New("addons.ingressNginx.acmCertArns is required when sslEnabled is true"))
	}

	for _, key := range []string{"argoCd", "kubePrometheusStack", "thanos", "opensearch", "loki"} {
		if c.addonEnabled(key) && c.Ingress.Domain == "" {
			errs = append(errs, fmt.Errorf("ingress.domain is required when %s is enabled", key))
		}
	}

	if a.KubePrometheusStack.Enabled && a.KubePrometheusStack.ThanosEnabled && a.KubePrometheusStack.Bucket == "" {
		errs = append(errs, errors.New("addons.kubePrometheusStack.bucket is required when thanosEnabled is true"))
	}
	if a.Thanos.Enabled && a.Thanos.Bucket == "" {
		errs = append(errs, errors.New("addons.thanos.bucket is required when thanos is enabled"))
	}
	if a.Loki.Enabled && a.Loki.Bucket == "" {
		errs = append(errs, errors.New("addons.loki.bucket is required when loki is enabled"))
	}

	return errs
}

func (c *Config) addonEnabled(key string) bool {
	for _, addon := range c.Addons.All() {
		if addon.Key == key {
			return addon.Config.Enabled
		}
	}
	return false
}

// validateHelm checks chart overrides: the version must be a semantic
// version or constraint and the repository an http(s) or oci URL.
func validateHelm(path string, h HelmChartConfig) []error {
	var errs []error

	if h.Version != "" {
		if _, err := semver.NewVersion(h.Version); err != nil {
			if _, cerr := semver.NewConstraint(h.Version); cerr != nil {
				errs = append(errs, fmt.Errorf("%s.version %q is not a valid version or constraint: %w", path, h.Version, err))
			}
		}
	}

	if h.Repository != "" {
		u, err := url.Parse(h.Repository)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "oci") {
			errs = append(errs, fmt.Errorf("%s.repository %q must be an http(s) or oci URL", path, h.Repository))
		}
	}

	return errs
}
