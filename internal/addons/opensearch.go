package addons

import (
	"fmt"

	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
)

var openSearchProduct = product{key: "opensearch", namespace: "default", timeout: longTimeout}

const openSearchLog4j2 = `status = error

appender.console.type = Console
appender.console.name = console
appender.console.layout.type = PatternLayout
appender.console.layout.pattern = [%d{ISO8601}][%-5p][%-25c{1.}] [%node_name]%marker %m%n

rootLogger.level = info
rootLogger.appenderRef.console.ref = console`

const openSearchConfig = `cluster.name: test
network.host: 0.0.0.0
plugins:
  security:
    disabled: true
    ssl:
      transport:
        pemcert_filepath: esnode.pem
        pemkey_filepath: esnode-key.pem
        pemtrustedcas_filepath: root-ca.pem
        enforce_hostname_verification: false
      http:
        enabled: false
        pemcert_filepath: esnode.pem
        pemkey_filepath: esnode-key.pem
        pemtrustedcas_filepath: root-ca.pem
    nodes_dn_dynamic_config_enabled: true
    nodes_dn:
      - "CN=*.example.com, OU=node, O=node, L=test, C=de"
    allow_unsafe_democertificates: true
    allow_default_init_securityindex: true
    authcz:
      admin_dn:
        - CN=kirk,OU=client,O=client,L=test,C=de
    audit.type: internal_opensearch
    enable_snapshot_restore_privilege: true
    check_snapshot_restore_write_privileges: true
    restapi:
      roles_enabled: ["all_access", "security_rest_api_access"]
    system_indices:
      enabled: false
      indices:
        [
          ".opendistro-alerting-config",
          ".opendistro-alerting-alert*",
          ".opendistro-anomaly-results*",
          ".opendistro-anomaly-detector*",
          ".opendistro-anomaly-checkpoints",
          ".opendistro-anomaly-detection-state",
          ".opendistro-reports-*",
          ".opendistro-notifications-*",
          ".opendistro-notebooks",
          ".opendistro-asynchronous-search-response*",
        ]`

// OpenSearchArgs configures an OpenSearch cluster.
type OpenSearchArgs struct {
	ReleaseArgs
	IngressDomain    string
	IngressClassName string
	StorageClassName string
	StorageSize      string
	NameOverride     string

	// KarpenterNodeEnabled defaults to true.
	KarpenterNodeEnabled      *bool
	KarpenterNodeProviderName string

	Replicas          *int
	ResourcesMemoryMB int
	ResourcesCPU      string
}

// OpenSearch returns the opensearch release.
func OpenSearch(provider *release.Provider, args OpenSearchArgs) *release.Release {
	return args.newRelease(provider, openSearchProduct, buildOpenSearchValues(args))
}

func openSearchProvisioner(providerRef string) Provisioner {
	return Provisioner{
		App:            "opensearch",
		KarpenterLabel: true,
		Consolidation:  true,
		ProviderRef:    providerRef,
		Requirements: []Requirement{
			instanceCategory("r"),
			arch("arm64"),
			linuxOS(),
			capacityType("on-demand"),
		},
	}
}

// buildOpenSearchValues creates helm values. The JVM heap is half the
// container memory. A single replica runs in single node mode.
func buildOpenSearchValues(args OpenSearchArgs) helm.Values {
	karpenter := boolOr(args.KarpenterNodeEnabled, true)
	replicas := intOr(args.Replicas, 3)
	memoryMB := args.ResourcesMemoryMB
	if memoryMB <= 0 {
		memoryMB = 2000
	}
	cpu := stringOr(args.ResourcesCPU, "1000m")
	memory := fmt.Sprintf("%dMi", memoryMB)

	nodeAffinity := helm.Values{}
	if karpenter {
		nodeAffinity = helm.RequiredNodeAffinity(
			helm.MatchExpression("karpenter", "enabled"),
			helm.MatchExpression("app", "opensearch"),
		)
	}

	return helm.Values{
		"fullnameOverride": args.NameOverride,
		"singleNode":       replicas <= 1,
		"roles": []string{
			"master",
			"ingest",
			"data",
			"remote_cluster_client",
		},
		"replicas": replicas,
		"config": helm.Values{
			"log4j2.properties": openSearchLog4j2,
			"opensearch.yml":    openSearchConfig,
		},
		"opensearchJavaOpts": fmt.Sprintf("-Xmx%dM -Xms%dM", memoryMB/2, memoryMB/2),
		"resources":          helm.Resources(cpu, memory, cpu, memory),
		"persistence": helm.Values{
			"enabled":      true,
			"storageClass": args.StorageClassName,
			"accessModes":  []string{"ReadWriteOnce"},
			"size":         stringOr(args.StorageSize, "20Gi"),
		},
		"nodeSelector": helm.Values{},
		"tolerations":  []helm.Values{},
		"labels": helm.Values{
			"app": "opensearch",
		},
		"topologySpreadConstraints": helm.TopologySpread("opensearch", "ScheduleAnyway"),
		"antiAffinityTopologyKey":   "kubernetes.io/hostname",
		"antiAffinity":              "hard",
		"nodeAffinity":              nodeAffinity,
		"ingress": helm.Values{
			"enabled":          true,
			"ingressClassName": args.IngressClassName,
			"hosts":            []string{"opensearch." + args.IngressDomain},
			"path":             "/",
			"tls":              []helm.Values{},
		},
		"extraObjects": provisionerObjects(karpenter, openSearchProvisioner(stringOr(args.KarpenterNodeProviderName, "default"))),
	}
}
