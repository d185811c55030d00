package config

// Config is the stack configuration: the target cluster, shared ingress and
// storage settings, and one section per add-on.
type Config struct {
	// Version of the configuration schema.
	Version string `yaml:"version,omitempty"`

	Cluster ClusterConfig `yaml:"cluster"`
	Ingress IngressConfig `yaml:"ingress,omitempty"`

	// StorageClass is used by add-ons with persistent volumes.
	// Default: the class created by the EBS CSI driver ("ebs").
	StorageClass string `yaml:"storageClass,omitempty"`

	Addons AddonsConfig `yaml:"addons"`
}

// ClusterConfig identifies the EKS cluster the stack is applied to.
type ClusterConfig struct {
	// Name is the EKS cluster name.
	Name string `yaml:"name"`

	// Region is the AWS region of the cluster and its buckets.
	Region string `yaml:"region"`

	VPCID    string `yaml:"vpcId,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`

	// Kubeconfig is the path to the kubeconfig file.
	// Default: $KUBECONFIG, then ~/.kube/config.
	Kubeconfig string `yaml:"kubeconfig,omitempty"`

	// Context selects a kubeconfig context. Default: the current context.
	Context string `yaml:"context,omitempty"`
}

// IngressConfig holds the settings shared by add-ons that expose an ingress.
type IngressConfig struct {
	// Domain is the parent domain of every add-on hostname.
	Domain string `yaml:"domain,omitempty"`

	// ClassName is the ingress class. Default: the class of the
	// ingress-nginx add-on.
	ClassName string `yaml:"className,omitempty"`

	// Protocol is the scheme of public URLs. Default: "https".
	Protocol string `yaml:"protocol,omitempty"`
}

// HelmChartConfig defines custom Helm chart configuration for addons.
// This allows overriding the default repository, chart, version, and values.
type HelmChartConfig struct {
	// Repository specifies a custom Helm repository URL.
	Repository string `yaml:"repository,omitempty"`

	// Chart specifies a custom chart name.
	Chart string `yaml:"chart,omitempty"`

	// Version specifies a custom chart version.
	Version string `yaml:"version,omitempty"`

	// Values specifies custom Helm values to merge with defaults.
	Values map[string]any `yaml:"values,omitempty"`
}

// AddonConfig holds the fields every add-on section accepts.
type AddonConfig struct {
	Enabled bool `yaml:"enabled"`

	// Namespace overrides the add-on's default namespace.
	Namespace string `yaml:"namespace,omitempty"`

	// SkipAwait disables waiting for the release to become ready.
	SkipAwait bool `yaml:"skipAwait,omitempty"`

	Helm HelmChartConfig `yaml:"helm,omitempty"`
}

// AddonsConfig holds the configuration of every add-on.
type AddonsConfig struct {
	Cilium                    AddonConfig                     `yaml:"cilium,omitempty"`
	MetricsServer             AddonConfig                     `yaml:"metricsServer,omitempty"`
	ClusterAutoscaler         IRSAAddonConfig                 `yaml:"clusterAutoscaler,omitempty"`
	AWSLoadBalancerController IRSAAddonConfig                 `yaml:"awsLoadBalancerController,omitempty"`
	ExternalDNS               IRSAAddonConfig                 `yaml:"externalDns,omitempty"`
	AWSEBSCSIDriver           AWSEBSCSIDriverConfig           `yaml:"awsEbsCsiDriver,omitempty"`
	Karpenter                 KarpenterConfig                 `yaml:"karpenter,omitempty"`
	IngressNginx              IngressNginxConfig              `yaml:"ingressNginx,omitempty"`
	ArgoCD                    ArgoCDConfig                    `yaml:"argoCd,omitempty"`
	KubePrometheusStack       KubePrometheusStackConfig       `yaml:"kubePrometheusStack,omitempty"`
	Thanos                    ThanosConfig                    `yaml:"thanos,omitempty"`
	OpenSearch                OpenSearchConfig                `yaml:"opensearch,omitempty"`
	Loki                      LokiConfig                      `yaml:"loki,omitempty"`
}

// IRSAAddonConfig is an add-on whose service account assumes an IAM role.
type IRSAAddonConfig struct {
	AddonConfig `yaml:",inline"`

	// RoleARN is the IAM role bound to the service account.
	RoleARN string `yaml:"roleArn,omitempty"`
}

// AWSEBSCSIDriverConfig configures the EBS CSI driver.
type AWSEBSCSIDriverConfig struct {
	IRSAAddonConfig `yaml:",inline"`

	// StorageClassName is the default storage class the driver creates.
	// Default: "ebs".
	StorageClassName string `yaml:"storageClassName,omitempty"`
}

// KarpenterConfig configures the karpenter node autoprovisioner.
type KarpenterConfig struct {
	IRSAAddonConfig `yaml:",inline"`

	DefaultInstanceProfile string `yaml:"defaultInstanceProfile,omitempty"`

	// ManageCRDs applies the chart's CRDs server-side before the release,
	// so chart upgrades also upgrade them.
	ManageCRDs bool `yaml:"manageCrds,omitempty"`
}

// IngressNginxConfig configures the ingress-nginx controller.
type IngressNginxConfig struct {
	AddonConfig `yaml:",inline"`

	// NameSuffix distinguishes several controllers. Default: "default".
	NameSuffix string `yaml:"nameSuffix,omitempty"`

	SSLEnabled  bool     `yaml:"sslEnabled,omitempty"`
	ACMCertARNs []string `yaml:"acmCertArns,omitempty"`

	// Public selects an internet-facing load balancer. Default: true.
	Public *bool `yaml:"public,omitempty"`

	// ProxyProtocol enables proxy protocol v2 on the NLB. Default: true.
	ProxyProtocol *bool `yaml:"proxyProtocol,omitempty"`

	TargetNodeLabels []string `yaml:"targetNodeLabels,omitempty"`
	MetricsEnabled   bool     `yaml:"metricsEnabled,omitempty"`
}

// ArgoCDConfig configures Argo CD.
type ArgoCDConfig struct {
	AddonConfig `yaml:",inline"`

	// Hostname defaults to argocd.<ingress.domain>.
	Hostname string `yaml:"hostname,omitempty"`

	RedisHAEnabled                   bool `yaml:"redisHaEnabled,omitempty"`
	RedisHAHAProxyEnabled            bool `yaml:"redisHaHaproxyEnabled,omitempty"`
	ApplicationControllerReplicas    *int `yaml:"applicationControllerReplicas,omitempty"`
	ApplicationSetControllerReplicas *int `yaml:"applicationSetControllerReplicas,omitempty"`
	KarpenterNodeEnabled             bool `yaml:"karpenterNodeEnabled,omitempty"`
}

// KubePrometheusStackConfig configures prometheus, alertmanager and grafana.
type KubePrometheusStackConfig struct {
	IRSAAddonConfig `yaml:",inline"`

	ThanosEnabled        bool   `yaml:"thanosEnabled,omitempty"`
	TSDBRetention        string `yaml:"tsdbRetention,omitempty"`
	ExternalLabelEnv     string `yaml:"externalLabelEnv,omitempty"`
	CRDsEnabled          *bool  `yaml:"crdsEnabled,omitempty"`
	KarpenterNodeEnabled bool   `yaml:"karpenterNodeEnabled,omitempty"`

	// Bucket receives the thanos sidecar uploads.
	Bucket string `yaml:"bucket,omitempty"`
}

// ThanosConfig configures the thanos components.
type ThanosConfig struct {
	IRSAAddonConfig `yaml:",inline"`

	Bucket string `yaml:"bucket,omitempty"`

	CompactorEnabled                bool   `yaml:"compactorEnabled,omitempty"`
	CompactorRetentionResolutionRaw string `yaml:"compactorRetentionResolutionRaw,omitempty"`
	CompactorRetentionResolution5m  string `yaml:"compactorRetentionResolution5m,omitempty"`
	CompactorRetentionResolution1h  string `yaml:"compactorRetentionResolution1h,omitempty"`

	KarpenterNodeEnabled bool   `yaml:"karpenterNodeEnabled,omitempty"`
	NameOverride         string `yaml:"nameOverride,omitempty"`
}

// OpenSearchConfig configures the OpenSearch cluster.
type OpenSearchConfig struct {
	AddonConfig `yaml:",inline"`

	StorageSize               string `yaml:"storageSize,omitempty"`
	NameOverride              string `yaml:"nameOverride,omitempty"`
	KarpenterNodeEnabled      *bool  `yaml:"karpenterNodeEnabled,omitempty"`
	KarpenterNodeProviderName string `yaml:"karpenterNodeProviderName,omitempty"`
	Replicas                  *int   `yaml:"replicas,omitempty"`
	ResourcesMemoryMB         int    `yaml:"resourcesMemoryMb,omitempty"`
	ResourcesCPU              string `yaml:"resourcesCpu,omitempty"`
}

// LokiConfig configures loki and promtail.
type LokiConfig struct {
	IRSAAddonConfig `yaml:",inline"`

	Bucket         string `yaml:"bucket,omitempty"`
	MetricsEnabled bool   `yaml:"metricsEnabled,omitempty"`

	StorageSizeRead    string `yaml:"storageSizeRead,omitempty"`
	StorageSizeWrite   string `yaml:"storageSizeWrite,omitempty"`
	StorageSizeBackend string `yaml:"storageSizeBackend,omitempty"`

	// Replica counts default per target when unset; zero is kept.
	ReplicasRead    *int `yaml:"replicasRead,omitempty"`
	ReplicasWrite   *int `yaml:"replicasWrite,omitempty"`
	ReplicasBackend *int `yaml:"replicasBackend,omitempty"`
	ReplicasGateway *int `yaml:"replicasGateway,omitempty"`

	AutoscalingEnabled     bool `yaml:"autoscalingEnabled,omitempty"`
	AutoscalingMinReplicas *int `yaml:"autoscalingMinReplicas,omitempty"`
	AutoscalingMaxReplicas *int `yaml:"autoscalingMaxReplicas,omitempty"`

	KarpenterNodeEnabled      *bool  `yaml:"karpenterNodeEnabled,omitempty"`
	KarpenterNodeProviderName string `yaml:"karpenterNodeProviderName,omitempty"`
	NameOverride              string `yaml:"nameOverride,omitempty"`
}

// Buckets returns the S3 buckets referenced by enabled add-ons, without
// duplicates, in add-on order.
func (c *Config) Buckets() []string {
	var buckets []string
	seen := make(map[string]bool)
	add := func(enabled bool, bucket string) {
		if !enabled || bucket == "" || seen[bucket] {
			return
		}
		seen[bucket] = true
		buckets = append(buckets, bucket)
	}

	a := c.Addons
	add(a.KubePrometheusStack.Enabled && a.KubePrometheusStack.ThanosEnabled, a.KubePrometheusStack.Bucket)
	add(a.Thanos.Enabled, a.Thanos.Bucket)
	add(a.Loki.Enabled, a.Loki.Bucket)
	return buckets
}
