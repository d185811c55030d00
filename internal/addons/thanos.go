package addons

import (
	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
)

var thanosProduct = product{key: "thanos", namespace: "default", timeout: longTimeout}

// storegatewayIngressClass is fixed: the store gateway is always exposed
// through the external controller, whatever IngressClassName says.
const storegatewayIngressClass = "nginx-external"

// thanosStores are the store API endpoints the querier fans out to. They
// depend on the fullnameOverride of the prometheus and thanos releases.
var thanosStores = []string{
	"prom-stack-thanos-discovery.prometheus.svc.cluster.local:10902",
	"thanos-stack-storegateway.prometheus.svc.cluster.local:10901",
}

// ThanosArgs configures the thanos query, bucketweb, compactor and store
// gateway components on top of an S3 bucket.
type ThanosArgs struct {
	ReleaseArgs
	AWSRegion        string
	IngressDomain    string
	IngressClassName string
	StorageClassName string
	RoleARN          string
	ObjStorageBucket string

	CompactorEnabled                bool
	CompactorRetentionResolutionRaw string
	CompactorRetentionResolution5m  string
	CompactorRetentionResolution1h  string

	KarpenterNodeEnabled bool
	NameOverride         string
}

// Thanos returns the thanos release.
func Thanos(provider *release.Provider, args ThanosArgs) *release.Release {
	return args.newRelease(provider, thanosProduct, buildThanosValues(args))
}

func thanosProvisioner() Provisioner {
	return Provisioner{
		App:            "thanos",
		KarpenterLabel: true,
		Consolidation:  true,
		ProviderRef:    "bottlerocket",
		Requirements: []Requirement{
			instanceCategory("t"),
			arch("arm64"),
			linuxOS(),
			capacityType("on-demand"),
		},
	}
}

// thanosIngress returns the bitnami style single-host ingress block.
func thanosIngress(className, hostname string) helm.Values {
	return helm.Values{
		"enabled":          true,
		"ingressClassName": className,
		"annotations":      helm.Values{},
		"labels":           helm.Values{},
		"hostname":         hostname,
		"pathType":         "Prefix",
		"path":             "/",
		"tls":              false,
	}
}

func thanosGRPCIngress(className, hostname, grpcHostname string) helm.Values {
	return helm.Merge(thanosIngress(className, hostname), helm.Values{
		"grpc": helm.Values{
			"enabled":  false,
			"hostname": grpcHostname,
		},
	})
}

// spreadAffinity keeps one pod per host and, when dedicated nodes are
// provisioned, pins the pods to them.
func spreadAffinity(app string, karpenter bool) helm.Values {
	return helm.Merge(helm.HostnameAntiAffinity(app), nodeAffinityIf(karpenter, "thanos"))
}

// buildThanosValues creates helm values for the bitnami thanos chart.
func buildThanosValues(args ThanosArgs) helm.Values {
	karpenter := args.KarpenterNodeEnabled
	domain := args.IngressDomain
	class := args.IngressClassName

	return helm.Values{
		"fullnameOverride": args.NameOverride,
		"extraDeploy":      provisionerObjects(karpenter, thanosProvisioner()),
		"objstoreConfig": helm.Values{
			"type": "S3",
			"config": helm.Values{
				"bucket":       args.ObjStorageBucket,
				"endpoint":     "s3." + stringOr(args.AWSRegion, DefaultAWSRegion) + ".amazonaws.com",
				"aws_sdk_auth": true,
			},
		},
		"query": helm.Values{
			"enabled":      true,
			"replicaCount": 3,
			"podLabels":    helm.Values{"app": "thanos-query"},
			"logLevel":     "info",
			"logFormat":    "logfmt",
			"service": helm.Values{
				"type":        "ClusterIP",
				"ports":       helm.Values{"http": 9090},
				"annotations": helm.Values{},
			},
			"serviceGrpc": helm.Values{
				"type":        "ClusterIP",
				"ports":       helm.Values{"grpc": 10901},
				"annotations": helm.Values{},
			},
			"ingress":                   thanosGRPCIngress(class, "thanos-query."+domain, "thanos-query-grpc."+domain),
			"replicaLabel":              []string{"prometheus_replica"},
			"stores":                    append([]string(nil), thanosStores...),
			"sdConfig":                  "",
			"resources":                 helm.Resources("500m", "512Mi", 1, "1024Mi"),
			"affinity":                  spreadAffinity("thanos-query", karpenter),
			"topologySpreadConstraints": helm.TopologySpread("thanos-query", "DoNotSchedule"),
		},
		"queryFrontend": helm.Values{
			"enabled":      false,
			"replicaCount": 1,
			"podLabels":    helm.Values{},
			"logLevel":     "info",
			"logFormat":    "logfmt",
		},
		"bucketweb": helm.Values{
			"enabled":        true,
			"replicaCount":   1,
			"podLabels":      helm.Values{"app": "thanos-bucketweb"},
			"logLevel":       "info",
			"logFormat":      "json",
			"refresh":        "5m",
			"timeout":        "5m",
			"extraFlags":     []string{},
			"serviceAccount": helm.ServiceAccount(args.RoleARN),
			"ingress":        thanosIngress(class, "thanos-bucketweb."+domain),
			"resources":      helm.Resources("100m", "128Mi", "100m", "128Mi"),
			"affinity":       nodeAffinityIf(karpenter, "thanos"),
		},
		"compactor": helm.Values{
			"enabled":                args.CompactorEnabled,
			"podLabels":              helm.Values{"app": "thanos-compactor"},
			"logLevel":               "info",
			"logFormat":              "logfmt",
			"retentionResolutionRaw": stringOr(args.CompactorRetentionResolutionRaw, "30d"),
			"retentionResolution5m":  stringOr(args.CompactorRetentionResolution5m, "90d"),
			"retentionResolution1h":  stringOr(args.CompactorRetentionResolution1h, "1y"),
			"consistencyDelay":       "30m",
			"serviceAccount":         helm.ServiceAccount(args.RoleARN),
			"resources":              helm.Resources("200m", "128Mi", "500m", "256Mi"),
			"affinity":               nodeAffinityIf(karpenter, "thanos"),
		},
		"storegateway": helm.Values{
			"enabled":      true,
			"replicaCount": 3,
			"podLabels":    helm.Values{"app": "thanos-storegateway"},
			"service": helm.Values{
				"type": "ClusterIP",
				"ports": helm.Values{
					"http": 9090,
					"grpc": 10901,
				},
				"annotations": helm.Values{},
			},
			"extraFlags":     []string{},
			"serviceAccount": helm.ServiceAccount(args.RoleARN),
			"ingress":        thanosGRPCIngress(storegatewayIngressClass, "thanos-storegateway."+domain, "thanos-storegateway-grpc."+domain),
			"persistence": helm.Values{
				"enabled":      true,
				"storageClass": args.StorageClassName,
				"accessModes":  []string{"ReadWriteOnce"},
				"size":         "8Gi",
			},
			"resources":                 helm.Resources("500m", "512Mi", 1, "1024Mi"),
			"affinity":                  spreadAffinity("thanos-storegateway", karpenter),
			"topologySpreadConstraints": helm.TopologySpread("thanos-storegateway", "DoNotSchedule"),
		},
		"ruler": helm.Values{
			"enabled": false,
		},
		"receive": helm.Values{
			"enabled":           false,
			"replicaCount":      3,
			"podLabels":         helm.Values{},
			"tsdbRetention":     "15d",
			"replicationFactor": 2,
			"logLevel":          "debug",
			"logFormat":         "logfmt",
			"service": helm.Values{
				"type": "ClusterIP",
				"ports": helm.Values{
					"http":   10902,
					"grpc":   10901,
					"remote": 19291,
				},
				"annotations": helm.Values{},
			},
			"replicaLabel": "replica",
		},
		"receiveDistributor": helm.Values{
			"enabled": false,
		},
		"metrics": helm.Values{
			"enabled": false,
		},
	}
}
