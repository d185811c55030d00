package addons

import (
	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
)

var (
	lokiProduct     = product{key: "loki", namespace: "default", timeout: longTimeout}
	promtailProduct = product{key: "promtail", namespace: "default", timeout: longTimeout}
)

// LokiArgs configures loki in simple scalable mode backed by S3, plus the
// promtail agent shipping logs to it.
type LokiArgs struct {
	ReleaseArgs
	AWSRegion        string
	IngressDomain    string
	IngressClassName string
	StorageClassName string

	StorageSizeRead    string
	StorageSizeWrite   string
	StorageSizeBackend string

	RoleARN          string
	ObjStorageBucket string
	MetricsEnabled   bool

	ReplicasRead    *int
	ReplicasWrite   *int
	ReplicasBackend *int
	ReplicasGateway *int

	AutoscalingEnabled     bool
	AutoscalingMinReplicas *int
	AutoscalingMaxReplicas *int

	// KarpenterNodeEnabled defaults to true.
	KarpenterNodeEnabled      *bool
	KarpenterNodeProviderName string
	NameOverride              string
}

// Loki returns the loki and promtail releases. Promtail shares loki's
// namespace, repository, skip-await flag and dependencies.
func Loki(provider *release.Provider, args LokiArgs) (*release.Release, *release.Release) {
	loki := args.newRelease(provider, lokiProduct, buildLokiValues(args))

	promtailArgs := ReleaseArgs{
		Repo:      args.chartSpec(lokiProduct).Repository,
		Namespace: args.resolvedNamespace(lokiProduct),
		SkipAwait: args.SkipAwait,
		DependsOn: args.DependsOn,
	}
	promtail := promtailArgs.newRelease(provider, promtailProduct, buildPromtailValues(args))

	return loki, promtail
}

func lokiProvisioner(providerRef string) Provisioner {
	return Provisioner{
		App:           "loki",
		Consolidation: true,
		ProviderRef:   providerRef,
		Requirements: []Requirement{
			instanceCategory("t"),
			arch("arm64"),
			linuxOS(),
			capacityType("spot", "on-demand"),
		},
	}
}

// lokiAffinity returns the app=loki node affinity as a YAML string, the
// form the loki chart templates expect.
func lokiAffinity() string {
	out, err := helm.AppNodeAffinity("loki").ToYAML()
	if err != nil {
		return ""
	}
	return string(out)
}

func (a LokiArgs) autoscaling() helm.Values {
	return helm.Values{
		"enabled":                        a.AutoscalingEnabled,
		"minReplicas":                    intOr(a.AutoscalingMinReplicas, 2),
		"maxReplicas":                    intOr(a.AutoscalingMaxReplicas, 5),
		"targetCPUUtilizationPercentage": 60,
		"behavior":                       helm.Values{},
	}
}

func (a LokiArgs) target(replicas *int, size, affinity string) helm.Values {
	return helm.Values{
		"replicas":    intOr(replicas, 3),
		"autoscaling": a.autoscaling(),
		"persistence": helm.Values{
			"size":         stringOr(size, "5Gi"),
			"storageClass": a.StorageClassName,
		},
		"affinity": affinity,
	}
}

// buildLokiValues creates helm values. The node affinity applies to every
// target regardless of KarpenterNodeEnabled, which only controls the
// provisioner.
func buildLokiValues(args LokiArgs) helm.Values {
	karpenter := boolOr(args.KarpenterNodeEnabled, true)
	region := stringOr(args.AWSRegion, DefaultAWSRegion)
	affinity := lokiAffinity()

	return helm.Values{
		"fullnameOverride": args.NameOverride,
		"loki": helm.Values{
			"podLabels": helm.Values{
				"app": "loki",
			},
			"serviceLabels":  helm.Values{},
			"serviceAccount": helm.ServiceAccount(args.RoleARN),
			"auth_enabled":   false,
			"monitoring": helm.Values{
				"dashboards": helm.Values{
					"enabled": true,
					"labels": helm.Values{
						"grafana_dashboard": 1,
					},
				},
				"serviceMonitor": helm.Values{
					"enabled": args.MetricsEnabled,
				},
				"lokiCanary": helm.Values{
					"enabled": true,
				},
			},
			"storage": helm.Values{
				"type": "s3",
				"s3": helm.Values{
					"bucketname": args.ObjStorageBucket,
					"endpoint":   "s3." + region + ".amazonaws.com",
					"region":     region,
				},
			},
		},
		"ingress": helm.Values{
			"enabled":          true,
			"ingressClassName": args.IngressClassName,
			"paths": helm.Values{
				"write": []string{"/api/prom/push", "/loki/api/v1/push"},
				"read":  []string{"/api/prom/tail", "/loki/api/v1/tail"},
			},
			"hosts": []string{"loki." + args.IngressDomain},
		},
		"write":   args.target(args.ReplicasWrite, args.StorageSizeWrite, affinity),
		"read":    args.target(args.ReplicasRead, args.StorageSizeRead, affinity),
		"backend": args.target(args.ReplicasBackend, args.StorageSizeBackend, affinity),
		"test": helm.Values{
			"enabled": true,
		},
		"gateway": helm.Values{
			"enabled":     true,
			"replicas":    intOr(args.ReplicasGateway, 3),
			"autoscaling": args.autoscaling(),
			"affinity":    affinity,
		},
		"extraObjects": provisionerObjects(karpenter, lokiProvisioner(stringOr(args.KarpenterNodeProviderName, "default"))),
	}
}

// buildPromtailValues points promtail at the loki gateway service.
func buildPromtailValues(args LokiArgs) helm.Values {
	return helm.Values{
		"daemonset": helm.Values{
			"enabled": true,
		},
		"config": helm.Values{
			"clients": []helm.Values{
				{
					"url":       "http://loki-gateway." + args.resolvedNamespace(lokiProduct) + ".svc.cluster.local/loki/api/v1/push",
					"tenant_id": "default",
				},
			},
		},
	}
}
