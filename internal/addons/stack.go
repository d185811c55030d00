package addons

import (
	"fmt"

	"github.com/imamik/chartstack/internal/config"
	"github.com/imamik/chartstack/internal/release"
	"github.com/imamik/chartstack/internal/stack"
)

// BuildStack composes the enabled add-ons of cfg into a stack. Add-ons are
// registered in a fixed order. Everything after cilium depends on it,
// add-ons exposing an ingress depend on ingress-nginx, and thanos depends on
// kube-prometheus-stack.
func BuildStack(provider *release.Provider, cfg *config.Config) (*stack.Stack, error) {
	b := &stackBuilder{stack: stack.New(cfg.Cluster.Name)}

	a := &cfg.Addons
	region := cfg.Cluster.Region
	clusterName := cfg.Cluster.Name
	ingress := cfg.Ingress

	if a.Cilium.Enabled {
		b.cilium = Cilium(provider, CiliumArgs{
			ReleaseArgs: b.args(a.Cilium),
			ClusterName: clusterName,
		})
		b.add(b.cilium)
	}

	if a.MetricsServer.Enabled {
		b.add(MetricsServer(provider, MetricsServerArgs{ReleaseArgs: b.args(a.MetricsServer)}))
	}

	if c := a.AWSEBSCSIDriver; c.Enabled {
		b.add(AWSEBSCSIDriver(provider, AWSEBSCSIDriverArgs{
			ReleaseArgs:             b.args(c.AddonConfig),
			RoleARN:                 c.RoleARN,
			DefaultStorageClassName: c.StorageClassName,
		}))
	}

	if c := a.AWSLoadBalancerController; c.Enabled {
		b.add(AWSLoadBalancerController(provider, AWSLoadBalancerControllerArgs{
			ReleaseArgs: b.args(c.AddonConfig),
			Region:      region,
			VPCID:       cfg.Cluster.VPCID,
			RoleARN:     c.RoleARN,
			ClusterName: clusterName,
		}))
	}

	if c := a.ExternalDNS; c.Enabled {
		b.add(ExternalDNS(provider, ExternalDNSArgs{
			ReleaseArgs: b.args(c.AddonConfig),
			RoleARN:     c.RoleARN,
		}))
	}

	if c := a.ClusterAutoscaler; c.Enabled {
		b.add(ClusterAutoscaler(provider, ClusterAutoscalerArgs{
			ReleaseArgs: b.args(c.AddonConfig),
			Region:      region,
			RoleARN:     c.RoleARN,
			ClusterName: clusterName,
		}))
	}

	if c := a.Karpenter; c.Enabled {
		args := KarpenterArgs{
			ReleaseArgs:                b.args(c.AddonConfig),
			RoleARN:                    c.RoleARN,
			ClusterName:                clusterName,
			ClusterEndpoint:            cfg.Cluster.Endpoint,
			DefaultInstanceProfileName: c.DefaultInstanceProfile,
		}
		if c.ManageCRDs {
			crds := KarpenterCRDs(provider, args)
			b.add(crds)
			args.DependsOn = append(args.DependsOn, crds)
		}
		b.add(Karpenter(provider, args))
	}

	if c := a.IngressNginx; c.Enabled {
		b.ingress = IngressNginx(provider, IngressNginxArgs{
			ReleaseArgs:      b.args(c.AddonConfig),
			NameSuffix:       c.NameSuffix,
			SSLEnabled:       c.SSLEnabled,
			ACMCertARNs:      c.ACMCertARNs,
			Public:           c.Public,
			ProxyProtocol:    c.ProxyProtocol,
			TargetNodeLabels: c.TargetNodeLabels,
			MetricsEnabled:   c.MetricsEnabled,
		})
		b.add(b.ingress)
	}

	if c := a.ArgoCD; c.Enabled {
		b.add(ArgoCD(provider, ArgoCDArgs{
			ReleaseArgs:                      b.args(c.AddonConfig, b.ingress),
			IngressHostname:                  c.Hostname,
			IngressProtocol:                  ingress.Protocol,
			IngressClassName:                 ingress.ClassName,
			RedisHAEnabled:                   c.RedisHAEnabled,
			RedisHAHAProxyEnabled:            c.RedisHAHAProxyEnabled,
			ApplicationControllerReplicas:    c.ApplicationControllerReplicas,
			ApplicationSetControllerReplicas: c.ApplicationSetControllerReplicas,
			KarpenterNodeEnabled:             c.KarpenterNodeEnabled,
		}))
	}

	var prometheus *release.Release
	if c := a.KubePrometheusStack; c.Enabled {
		prometheus = KubePrometheusStack(provider, KubePrometheusStackArgs{
			ReleaseArgs:          b.args(c.AddonConfig, b.ingress),
			IngressDomain:        ingress.Domain,
			IngressClassName:     ingress.ClassName,
			StorageClassName:     cfg.StorageClass,
			RoleARN:              c.RoleARN,
			ThanosEnabled:        c.ThanosEnabled,
			TSDBRetention:        c.TSDBRetention,
			ExternalLabelEnv:     c.ExternalLabelEnv,
			CRDsEnabled:          c.CRDsEnabled,
			KarpenterNodeEnabled: c.KarpenterNodeEnabled,
			ObjStorageBucket:     c.Bucket,
			AWSRegion:            region,
		})
		b.add(prometheus)
	}

	if c := a.Thanos; c.Enabled {
		b.add(Thanos(provider, ThanosArgs{
			ReleaseArgs:                     b.args(c.AddonConfig, b.ingress, prometheus),
			AWSRegion:                       region,
			IngressDomain:                   ingress.Domain,
			IngressClassName:                ingress.ClassName,
			StorageClassName:                cfg.StorageClass,
			RoleARN:                         c.RoleARN,
			ObjStorageBucket:                c.Bucket,
			CompactorEnabled:                c.CompactorEnabled,
			CompactorRetentionResolutionRaw: c.CompactorRetentionResolutionRaw,
			CompactorRetentionResolution5m:  c.CompactorRetentionResolution5m,
			CompactorRetentionResolution1h:  c.CompactorRetentionResolution1h,
			KarpenterNodeEnabled:            c.KarpenterNodeEnabled,
			NameOverride:                    c.NameOverride,
		}))
	}

	if c := a.OpenSearch; c.Enabled {
		b.add(OpenSearch(provider, OpenSearchArgs{
			ReleaseArgs:               b.args(c.AddonConfig, b.ingress),
			IngressDomain:             ingress.Domain,
			IngressClassName:          ingress.ClassName,
			StorageClassName:          cfg.StorageClass,
			StorageSize:               c.StorageSize,
			NameOverride:              c.NameOverride,
			KarpenterNodeEnabled:      c.KarpenterNodeEnabled,
			KarpenterNodeProviderName: c.KarpenterNodeProviderName,
			Replicas:                  c.Replicas,
			ResourcesMemoryMB:         c.ResourcesMemoryMB,
			ResourcesCPU:              c.ResourcesCPU,
		}))
	}

	if c := a.Loki; c.Enabled {
		loki, promtail := Loki(provider, LokiArgs{
			ReleaseArgs:               b.args(c.AddonConfig, b.ingress),
			AWSRegion:                 region,
			IngressDomain:             ingress.Domain,
			IngressClassName:          ingress.ClassName,
			StorageClassName:          cfg.StorageClass,
			StorageSizeRead:           c.StorageSizeRead,
			StorageSizeWrite:          c.StorageSizeWrite,
			StorageSizeBackend:        c.StorageSizeBackend,
			RoleARN:                   c.RoleARN,
			ObjStorageBucket:          c.Bucket,
			MetricsEnabled:            c.MetricsEnabled,
			ReplicasRead:              c.ReplicasRead,
			ReplicasWrite:             c.ReplicasWrite,
			ReplicasBackend:           c.ReplicasBackend,
			ReplicasGateway:           c.ReplicasGateway,
			AutoscalingEnabled:        c.AutoscalingEnabled,
			AutoscalingMinReplicas:    c.AutoscalingMinReplicas,
			AutoscalingMaxReplicas:    c.AutoscalingMaxReplicas,
			KarpenterNodeEnabled:      c.KarpenterNodeEnabled,
			KarpenterNodeProviderName: c.KarpenterNodeProviderName,
			NameOverride:              c.NameOverride,
		})
		b.add(loki)
		b.add(promtail)
	}

	if b.err != nil {
		return nil, b.err
	}
	return b.stack, nil
}

type stackBuilder struct {
	stack *stack.Stack

	cilium  *release.Release
	ingress *release.Release
	err     error
}

// args maps the common add-on settings and chart overrides. The release
// depends on cilium and on every non-nil release in deps.
func (b *stackBuilder) args(c config.AddonConfig, deps ...*release.Release) ReleaseArgs {
	var dependsOn []release.Resource
	if b.cilium != nil {
		dependsOn = append(dependsOn, b.cilium)
	}
	for _, d := range deps {
		if d != nil {
			dependsOn = append(dependsOn, d)
		}
	}

	return ReleaseArgs{
		Chart:     c.Helm.Chart,
		Version:   c.Helm.Version,
		Repo:      c.Helm.Repository,
		Namespace: c.Namespace,
		SkipAwait: c.SkipAwait,
		DependsOn: dependsOn,
		Values:    c.Helm.Values,
	}
}

func (b *stackBuilder) add(r release.Resource) {
	if b.err != nil {
		return
	}
	if err := b.stack.Add(r); err != nil {
		b.err = fmt.Errorf("failed to add %s to stack: %w", r.ResourceName(), err)
	}
}
