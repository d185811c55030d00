package config

// Defaults applied by ApplyDefaults.
const (
	DefaultSchemaVersion   = "v1"
	DefaultStorageClass    = "ebs"
	DefaultIngressProtocol = "https"
	DefaultIngressSuffix   = "default"
)

// ApplyDefaults fills in values derived from other fields. It is called by
// the loaders and is idempotent.
func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = DefaultSchemaVersion
	}
	if c.StorageClass == "" {
		c.StorageClass = c.Addons.AWSEBSCSIDriver.StorageClassName
	}
	if c.StorageClass == "" {
		c.StorageClass = DefaultStorageClass
	}
	if c.Ingress.Protocol == "" {
		c.Ingress.Protocol = DefaultIngressProtocol
	}
	if c.Ingress.ClassName == "" {
		suffix := c.Addons.IngressNginx.NameSuffix
		if suffix == "" {
			suffix = DefaultIngressSuffix
		}
		c.Ingress.ClassName = "nginx-" + suffix
	}
	if c.Addons.ArgoCD.Hostname == "" && c.Ingress.Domain != "" {
		c.Addons.ArgoCD.Hostname = "argocd." + c.Ingress.Domain
	}
}
