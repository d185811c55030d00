package helm

// DefaultChartSpecs contains the default chart specifications for each addon.
// These define the upstream Helm chart repositories, names, and versions.
// Users can override these settings via config.HelmChartConfig.
var DefaultChartSpecs = map[string]ChartSpec{
	"cilium": {
		Repository: "https://helm.cilium.io",
		Name:       "cilium",
		Version:    "1.14.1",
	},
	"metrics-server": {
		Repository: "https://kubernetes-sigs.github.io/metrics-server",
		Name:       "metrics-server",
		Version:    "3.11.0",
	},
	"cluster-autoscaler": {
		Repository: "https://kubernetes.github.io/autoscaler",
		Name:       "cluster-autoscaler",
		Version:    "9.29.3",
	},
	"aws-load-balancer-controller": {
		Repository: "https://aws.github.io/eks-charts",
		Name:       "aws-load-balancer-controller",
		Version:    "1.6.0",
	},
	"external-dns": {
		Repository: "https://kubernetes-sigs.github.io/external-dns",
		Name:       "external-dns",
		Version:    "1.13.0",
	},
	"aws-ebs-csi-driver": {
		Repository: "https://kubernetes-sigs.github.io/aws-ebs-csi-driver",
		Name:       "aws-ebs-csi-driver",
		Version:    "2.9.0",
	},
	"karpenter": {
		Repository: "https://charts.karpenter.sh",
		Name:       "karpenter",
		Version:    "0.16.3",
	},
	"ingress-nginx": {
		Repository: "https://kubernetes.github.io/ingress-nginx",
		Name:       "ingress-nginx",
		Version:    "4.2.5",
	},
	"argo-cd": {
		Repository: "https://argoproj.github.io/argo-helm",
		Name:       "argo-cd",
		Version:    "5.46.0",
	},
	"kube-prometheus-stack": {
		Repository: "https://prometheus-community.github.io/helm-charts",
		Name:       "kube-prometheus-stack",
		Version:    "50.3.1",
	},
	"thanos": {
		Repository: "https://charts.bitnami.com/bitnami",
		Name:       "thanos",
		Version:    "12.13.1",
	},
	"opensearch": {
		Repository: "https://opensearch-project.github.io/helm-charts",
		Name:       "opensearch",
		Version:    "2.14.1",
	},
	"loki": {
		Repository: "https://grafana.github.io/helm-charts",
		Name:       "loki",
		Version:    "5.21.0",
	},
	"promtail": {
		Repository: "https://grafana.github.io/helm-charts",
		Name:       "promtail",
		Version:    "6.15.1",
	},
}
