package addons

import (
	"strings"

	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
)

const (
	annotationPrefix = "service.beta.kubernetes.io/"

	// TLSNegotiationPolicy is the NLB security policy used when TLS terminates at the load balancer.
	TLSNegotiationPolicy = "ELBSecurityPolicy-TLS13-1-2-2021-06"

	logFormatUpstream = `$remote_addr - $host [$time_local] "$request" $status $body_bytes_sent "$http_referer" "$http_user_agent" $request_length $request_time [$proxy_upstream_name] [$proxy_alternative_upstream_name] $upstream_addr $upstream_response_length $upstream_response_time $upstream_status $req_id`
	serverSnippet     = "if ($proxy_protocol_server_port != '443'){ return 301 https://$host$request_uri; }"
)

var ingressNginxProduct = product{key: "ingress-nginx", namespace: "default", timeout: longTimeout}

// IngressNginxArgs configures an ingress-nginx controller behind an AWS NLB.
type IngressNginxArgs struct {
	ReleaseArgs
	// NameSuffix distinguishes several controllers in one cluster. Defaults to "default".
	NameSuffix       string
	SSLEnabled       bool
	ACMCertARNs      []string
	Public           *bool
	ProxyProtocol    *bool
	TargetNodeLabels []string
	MetricsEnabled   bool
}

// IngressClassName returns the ingress class the controller serves.
func (a IngressNginxArgs) IngressClassName() string {
	return "nginx-" + a.suffix()
}

func (a IngressNginxArgs) suffix() string {
	return stringOr(a.NameSuffix, "default")
}

// IngressNginx returns the ingress-nginx release.
func IngressNginx(provider *release.Provider, args IngressNginxArgs) *release.Release {
	return args.newRelease(provider, ingressNginxProduct, buildIngressNginxValues(args))
}

// buildIngressNginxServiceAnnotations creates the load balancer annotations
// of the controller service.
func buildIngressNginxServiceAnnotations(args IngressNginxArgs) helm.Values {
	scheme := "internet-facing"
	if !boolOr(args.Public, true) {
		scheme = "internal"
	}
	proxyProtocol := "*"
	if !boolOr(args.ProxyProtocol, true) {
		proxyProtocol = ""
	}

	annotations := helm.Values{
		annotationPrefix + "aws-load-balancer-name":                               "k8s-" + args.suffix(),
		annotationPrefix + "aws-load-balancer-type":                               "external",
		annotationPrefix + "aws-load-balancer-scheme":                             scheme,
		annotationPrefix + "aws-load-balancer-nlb-target-type":                    "instance",
		annotationPrefix + "aws-load-balancer-backend-protocol":                   "tcp",
		annotationPrefix + "load-balancer-source-ranges":                          "0.0.0.0/0",
		annotationPrefix + "aws-load-balancer-manage-backend-security-group-rules": true,
		annotationPrefix + "aws-load-balancer-connection-idle-timeout":            300,
		annotationPrefix + "aws-load-balancer-attributes":                         "load_balancing.cross_zone.enabled=true",
		annotationPrefix + "aws-load-balancer-target-group-attributes":            "deregistration_delay.timeout_seconds=10,deregistration_delay.connection_termination.enabled=true",
		annotationPrefix + "aws-load-balancer-healthcheck-protocol":               "tcp",
		annotationPrefix + "aws-load-balancer-healthcheck-path":                   "/healthz",
		annotationPrefix + "aws-load-balancer-healthcheck-timeout":                2,
		annotationPrefix + "aws-load-balancer-healthcheck-healthy-threshold":      5,
		annotationPrefix + "aws-load-balancer-healthcheck-unhealthy-threshold":    2,
		annotationPrefix + "aws-load-balancer-healthcheck-interval":               5,
		annotationPrefix + "aws-load-balancer-proxy-protocol":                     proxyProtocol,
	}

	if args.SSLEnabled {
		annotations[annotationPrefix+"aws-load-balancer-ssl-ports"] = 443
		annotations[annotationPrefix+"aws-load-balancer-ssl-cert"] = strings.Join(args.ACMCertARNs, ",")
		annotations[annotationPrefix+"aws-load-balancer-ssl-negotiation-policy"] = TLSNegotiationPolicy
	}

	if len(args.TargetNodeLabels) > 0 {
		annotations[annotationPrefix+"aws-load-balancer-target-node-labels"] = strings.Join(args.TargetNodeLabels, ",")
	}

	return annotations
}

// buildIngressNginxValues creates helm values for a DaemonSet controller.
// TLS terminates at the NLB, so both service ports target the plain http
// container port and plain http requests are redirected by the server
// snippet.
func buildIngressNginxValues(args IngressNginxArgs) helm.Values {
	suffix := args.suffix()

	return helm.Values{
		"admissionWebhooks": helm.Values{
			"enabled": true,
		},
		"controller": helm.Values{
			"kind":            "DaemonSet",
			"healthCheckPath": "/healthz",
			"lifecycle": helm.Values{
				"preStop": helm.Values{
					"exec": helm.Values{
						"command": []string{"/wait-shutdown"},
					},
				},
			},
			"priorityClassName":  "system-node-critical",
			"ingressClassByName": true,
			"ingressClass":       args.IngressClassName(),
			"ingressClassResource": helm.Values{
				"name":            args.IngressClassName(),
				"enabled":         true,
				"default":         false,
				"controllerValue": "k8s.io/ingress-nginx-" + suffix,
			},
			"electionID": "ingress-controller-" + suffix + "-leader",
			"config": helm.Values{
				"ssl-redirect":              false,
				"redirect-to-https":         true,
				"use-forwarded-headers":     true,
				"use-proxy-protocol":        true,
				"skip-access-log-urls":      "/healthz,/healthz/",
				"no-tls-redirect-locations": "/healthz,/healthz/",
				"log-format-upstream":       logFormatUpstream,
				"server-snippet":            serverSnippet,
			},
			"containerPort": helm.Values{
				"http":  80,
				"https": 443,
			},
			"service": helm.Values{
				"enabled":     true,
				"type":        "LoadBalancer",
				"enableHttp":  true,
				"enableHttps": args.SSLEnabled,
				"ports": helm.Values{
					"http":  80,
					"https": 443,
				},
				"targetPorts": helm.Values{
					"http":  "http",
					"https": "http",
				},
				"httpPort": helm.Values{
					"enable":     true,
					"targetPort": "http",
				},
				"httpsPort": helm.Values{
					"enable":     args.SSLEnabled,
					"targetPort": "http",
				},
				"annotations": buildIngressNginxServiceAnnotations(args),
			},
			"metrics": helm.Values{
				"enabled": args.MetricsEnabled,
				"serviceMonitor": helm.Values{
					"enabled": args.MetricsEnabled,
				},
				"prometheusRule": helm.Values{
					"enabled":          false,
					"additionalLabels": helm.Values{},
					"rules":            []helm.Values{},
				},
			},
		},
	}
}
