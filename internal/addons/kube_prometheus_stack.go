package addons

import (
	"fmt"

	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
)

const (
	// ThanosSidecarImage is the sidecar shipped next to prometheus when thanos is enabled.
	ThanosSidecarImage = "quay.io/thanos/thanos:v0.32.2"

	// DefaultAWSRegion is used for S3 endpoints when no region is given.
	DefaultAWSRegion = "eu-central-1"

	// thanosQueryURL depends on the fullnameOverride of the thanos release.
	thanosQueryURL = "http://thanos-stack-query.prometheus.svc.cluster.local:9090"
)

var kubePrometheusStackProduct = product{key: "kube-prometheus-stack", namespace: "default", timeout: longTimeout}

// KubePrometheusStackArgs configures prometheus, alertmanager and grafana.
type KubePrometheusStackArgs struct {
	ReleaseArgs
	IngressDomain    string
	IngressClassName string
	StorageClassName string
	RoleARN          string

	// ThanosEnabled adds the thanos sidecar, service and ingress.
	ThanosEnabled        bool
	TSDBRetention        string
	ExternalLabelEnv     string
	CRDsEnabled          *bool
	KarpenterNodeEnabled bool
	ObjStorageBucket     string
	AWSRegion            string
	// NameOverride fixes the fullname so the data volume name is predictable.
	NameOverride string
}

func (a KubePrometheusStackArgs) nameOverride() string {
	return stringOr(a.NameOverride, "prom-stack")
}

// KubePrometheusStack returns the kube-prometheus-stack release.
func KubePrometheusStack(provider *release.Provider, args KubePrometheusStackArgs) *release.Release {
	return args.newRelease(provider, kubePrometheusStackProduct, buildKubePrometheusStackValues(args))
}

// S3ObjstoreConfig returns the thanos objstore configuration for a bucket.
func S3ObjstoreConfig(bucket, region string) string {
	return fmt.Sprintf("type: S3\nconfig:\n  bucket: %s\n  endpoint: s3.%s.amazonaws.com\n  aws_sdk_auth: true\n",
		bucket, stringOr(region, DefaultAWSRegion))
}

func buildThanosSidecar(args KubePrometheusStackArgs) helm.Values {
	return helm.Values{
		"name":  "thanos",
		"image": ThanosSidecarImage,
		"args": []string{
			"sidecar",
			"--log.level=debug",
			"--log.format=logfmt",
			"--tsdb.path=/prometheus",
			"--prometheus.url=http://localhost:9090",
			"--http-address=0.0.0.0:10901",
			"--grpc-address=0.0.0.0:10902",
			"--objstore.config=" + S3ObjstoreConfig(args.ObjStorageBucket, args.AWSRegion),
		},
		"env": []helm.Values{},
		"ports": []helm.Values{
			{"name": "http", "containerPort": 10901, "protocol": "TCP"},
			{"name": "grpc", "containerPort": 10902, "protocol": "TCP"},
		},
		"volumeMounts": []helm.Values{
			{
				"mountPath": "/prometheus",
				"name":      "prometheus-" + args.nameOverride() + "-prometheus-db",
				"subPath":   "prometheus-db",
			},
		},
		"securityContext": helm.Values{
			"runAsNonRoot": true,
			"runAsUser":    1000,
			"runAsGroup":   2000,
		},
	}
}

func prometheusProvisioner() Provisioner {
	return Provisioner{
		App:                    "prometheus",
		KarpenterLabel:         true,
		Consolidation:          false,
		TTLSecondsAfterEmpty:   30,
		TTLSecondsUntilExpired: 2592000,
		ProviderRef:            "bottlerocket",
		Requirements: []Requirement{
			instanceCategory("t"),
			arch("amd64", "arm64"),
			linuxOS(),
			capacityType("on-demand"),
		},
	}
}

// buildKubePrometheusStackValues creates helm values for the full stack.
func buildKubePrometheusStackValues(args KubePrometheusStackArgs) helm.Values {
	thanos := args.ThanosEnabled
	karpenter := args.KarpenterNodeEnabled

	containers := []helm.Values{}
	if thanos {
		containers = append(containers, buildThanosSidecar(args))
	}

	thanosIngress := helm.PrefixIngress(args.IngressClassName, "thanos-gateway."+args.IngressDomain)
	thanosIngress["enabled"] = thanos
	delete(thanosIngress, "tls")

	return helm.Values{
		"crds": helm.Values{
			"enabled": boolOr(args.CRDsEnabled, true),
		},
		"fullnameOverride": args.nameOverride(),
		"prometheusOperator": helm.Values{
			"enabled":     true,
			"logFormat":   "logfmt",
			"logLevel":    "debug",
			"affinity":    helm.Values{},
			"tolerations": []helm.Values{},
		},
		"prometheus": helm.Values{
			"enabled":        true,
			"serviceAccount": helm.ServiceAccount(args.RoleARN),
			"thanosService": helm.Values{
				"enabled":        thanos,
				"type":           "ClusterIP",
				"clusterIP":      "None",
				"portName":       "grpc",
				"port":           10901,
				"targetPort":     "grpc",
				"httpPortName":   "http",
				"httpPort":       10902,
				"targetHttpPort": "http",
			},
			"thanosIngress": thanosIngress,
			"ingress":       helm.PrefixIngress(args.IngressClassName, "prometheus."+args.IngressDomain),
			"prometheusSpec": helm.Values{
				"replicas":                    3,
				"replicaExternalLabelName":    "prometheus_replica",
				"prometheusExternalLabelName": "prometheus_instance",
				"retention":                   stringOr(args.TSDBRetention, "30d"),
				"disableCompaction":           thanos,
				"enableAdminAPI":              true,
				"externalLabels": helm.Values{
					"env": stringOr(args.ExternalLabelEnv, "dev"),
				},
				"scrapeInterval":                          "15s",
				"scrapeTimeout":                           "14s",
				"serviceMonitorSelector":                  helm.Values{},
				"serviceMonitorNamespaceSelector":         helm.Values{},
				"serviceMonitorSelectorNilUsesHelmValues": false,
				"podMonitorSelector":                      helm.Values{},
				"podMonitorNamespaceSelector":             helm.Values{},
				"podMonitorSelectorNilUsesHelmValues":     false,
				"containers":                              containers,
				"resources":                               helm.Resources("1000m", "2048Mi", "2000m", "4096Mi"),
				"affinity":                                nodeAffinityIf(karpenter, "prometheus"),
				"tolerations":                             []helm.Values{},
				"podMetadata": helm.Values{
					"labels": helm.Values{"app": "prometheus"},
				},
				"topologySpreadConstraints": helm.TopologySpread("prometheus", "ScheduleAnyway"),
				"storageSpec": helm.Values{
					"volumeClaimTemplate": helm.VolumeClaimTemplate(args.StorageClassName, "20Gi"),
				},
			},
		},
		"alertmanager": helm.Values{
			"enabled": true,
			"ingress": helm.PrefixIngress(args.IngressClassName, "alertmanager."+args.IngressDomain),
			"alertmanagerSpec": helm.Values{
				"replicas":  1,
				"retention": "120h",
				"storage": helm.Values{
					"volumeClaimTemplate": helm.VolumeClaimTemplate(args.StorageClassName, "20Gi"),
				},
				"affinity":    helm.Values{},
				"tolerations": []helm.Values{},
			},
		},
		"grafana": helm.Values{
			"enabled":       true,
			"adminPassword": "prom-operator",
			"ingress":       helm.PrefixIngress(args.IngressClassName, "grafana."+args.IngressDomain),
			"sidecar": helm.Values{
				"dashboards":  helm.Values{"enabled": true},
				"datasources": helm.Values{"enabled": true},
			},
			"additionalDataSources": []helm.Values{
				{
					"name":      "thanos",
					"type":      "prometheus",
					"access":    "proxy",
					"url":       thanosQueryURL,
					"isDefault": false,
				},
			},
		},
		"nodeExporter": helm.Values{
			"enabled": true,
		},
		"extraManifests": provisionerObjects(karpenter, prometheusProvisioner()),
	}
}
