package addons

import (
	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
)

var argoCDProduct = product{key: "argo-cd", namespace: "default", timeout: longTimeout}

// ArgoCDArgs configures Argo CD exposed through an ingress.
type ArgoCDArgs struct {
	ReleaseArgs
	IngressHostname  string
	IngressProtocol  string
	IngressClassName string

	RedisHAEnabled                   bool
	RedisHAHAProxyEnabled            bool
	ApplicationControllerReplicas    *int
	ApplicationSetControllerReplicas *int

	// KarpenterNodeEnabled runs argo-cd and redis on dedicated provisioners.
	KarpenterNodeEnabled bool
}

// ArgoCD returns the argo-cd release.
func ArgoCD(provider *release.Provider, args ArgoCDArgs) *release.Release {
	return args.newRelease(provider, argoCDProduct, buildArgoCDValues(args))
}

func argoCDProvisioners() []Provisioner {
	requirements := func(memory string) []Requirement {
		return []Requirement{
			instanceCategory("t"),
			instanceCPU("2"),
			instanceMemory(memory),
			arch("arm64"),
			linuxOS(),
			capacityType("spot", "on-demand"),
		}
	}
	return []Provisioner{
		{App: "argo-cd", Consolidation: true, ProviderRef: "default", Requirements: requirements("4096")},
		{App: "redis", Consolidation: true, ProviderRef: "default", Requirements: requirements("2048")},
	}
}

// argoCDGlobalAffinity uses the chart's simplified global affinity syntax.
func argoCDGlobalAffinity(enabled bool) helm.Values {
	if !enabled {
		return helm.Values{}
	}
	return helm.Values{
		"podAntiAffinity": "soft",
		"nodeAffinity": helm.Values{
			"type":             "hard",
			"matchExpressions": []helm.Values{helm.MatchExpression("app", "argo-cd")},
		},
	}
}

// buildArgoCDValues creates helm values. The application controller and repo
// server are always pinned to app=argo-cd nodes; the global and redis
// affinities only when dedicated nodes are provisioned.
func buildArgoCDValues(args ArgoCDArgs) helm.Values {
	karpenter := args.KarpenterNodeEnabled

	return helm.Values{
		"global": helm.Values{
			"additionalLabels": helm.Values{
				"app": "argo-cd",
			},
			"revisionHistoryLimit": 3,
			"affinity":             argoCDGlobalAffinity(karpenter),
		},
		"configs": helm.Values{
			"cm": helm.Values{
				"url":                    args.IngressProtocol + "://" + args.IngressHostname,
				"exec.enabled":           "true",
				"admin.enabled":          "true",
				"timeout.reconciliation": "180s",
			},
			"params": helm.Values{
				"server.insecure":                                   "true",
				"server.disable.auth":                               "false",
				"controller.status.processors":                      20,
				"controller.operation.processors":                   10,
				"controller.self.heal.timeout.seconds":              5,
				"controller.repo.server.timeout.seconds":            60,
				"applicationsetcontroller.policy":                   "sync",
				"applicationsetcontroller.enable.progressive.syncs": "false",
				"reposerver.parallelism.limit":                      0,
			},
		},
		"redis": helm.Values{
			"enabled": true,
			"name":    "redis",
			"podLabels": helm.Values{
				"app": "redis",
			},
			"resources": helm.Resources("500m", "256Mi", "1000m", "512Mi"),
			"affinity":  nodeAffinityIf(karpenter, "redis"),
		},
		"redis-ha": helm.Values{
			"enabled": args.RedisHAEnabled,
			// The chart tests this with `if`, so the string keeps persistence on.
			"persistentVolume": helm.Values{
				"enabled": "false",
			},
			"redis": helm.Values{
				"config": helm.Values{
					"save": `"900 1"`,
				},
			},
			"haproxy": helm.Values{
				"enabled":              args.RedisHAHAProxyEnabled,
				"hardAntiAffinity":     true,
				"affinity":             "",
				"additionalAffinities": helm.AppNodeAffinity("redis"),
			},
			"topologySpreadConstraints": helm.Values{
				"enabled":           true,
				"maxSkew":           1,
				"topologyKey":       "topology.kubernetes.io/zone",
				"whenUnsatisfiable": "DoNotSchedule",
			},
			"hardAntiAffinity":     true,
			"additionalAffinities": helm.AppNodeAffinity("redis"),
		},
		"controller": helm.Values{
			"replicas": intOr(args.ApplicationControllerReplicas, 2),
			"affinity": helm.AppNodeAffinity("argo-cd"),
		},
		"server": helm.Values{
			"autoscaling": helm.Values{
				"enabled":     true,
				"minReplicas": 2,
				"maxReplicas": 4,
			},
			"ingress": helm.Merge(helm.PrefixIngress(args.IngressClassName, args.IngressHostname), helm.Values{
				"extraPaths": []helm.Values{},
			}),
		},
		"repoServer": helm.Values{
			"autoscaling": helm.Values{
				"enabled":     true,
				"minReplicas": 2,
				"maxReplicas": 5,
			},
			"affinity": helm.AppNodeAffinity("argo-cd"),
		},
		"applicationSet": helm.Values{
			"replicas": intOr(args.ApplicationSetControllerReplicas, 2),
		},
		"extraObjects": provisionerObjects(karpenter, argoCDProvisioners()...),
	}
}
