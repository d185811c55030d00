package addons

import (
	"github.com/imamik/chartstack/internal/addons/helm"
)

// Well-known karpenter requirement keys.
const (
	keyInstanceCategory = "karpenter.k8s.aws/instance-category"
	keyInstanceCPU      = "karpenter.k8s.aws/instance-cpu"
	keyInstanceMemory   = "karpenter.k8s.aws/instance-memory"
	keyArch             = "kubernetes.io/arch"
	keyOS               = "kubernetes.io/os"
	keyCapacityType     = "karpenter.sh/capacity-type"
)

// Requirement is a node requirement of a karpenter Provisioner.
type Requirement struct {
	Key    string
	Values []string
}

// Provisioner is a karpenter.sh/v1alpha5 Provisioner dedicated to the pods
// of one app. Nodes it creates carry the label app=<App>.
type Provisioner struct {
	App string
	// KarpenterLabel adds karpenter=enabled to the node labels.
	KarpenterLabel         bool
	Consolidation          bool
	TTLSecondsAfterEmpty   int
	TTLSecondsUntilExpired int
	ProviderRef            string
	Requirements           []Requirement
}

// Object renders the provisioner as a Kubernetes object for a chart's
// extra objects list.
func (p Provisioner) Object() helm.Values {
	nodeLabels := helm.Values{}
	if p.KarpenterLabel {
		nodeLabels["karpenter"] = "enabled"
	}
	nodeLabels["app"] = p.App

	requirements := make([]helm.Values, 0, len(p.Requirements))
	for _, r := range p.Requirements {
		requirements = append(requirements, helm.MatchExpression(r.Key, r.Values...))
	}

	spec := helm.Values{
		"consolidation": helm.Values{
			"enabled": p.Consolidation,
		},
		"labels":       nodeLabels,
		"taints":       []helm.Values{},
		"providerRef":  helm.Values{"name": p.ProviderRef},
		"requirements": requirements,
	}
	if p.TTLSecondsAfterEmpty > 0 {
		spec["ttlSecondsAfterEmpty"] = p.TTLSecondsAfterEmpty
	}
	if p.TTLSecondsUntilExpired > 0 {
		spec["ttlSecondsUntilExpired"] = p.TTLSecondsUntilExpired
	}

	return helm.Values{
		"apiVersion": "karpenter.sh/v1alpha5",
		"kind":       "Provisioner",
		"metadata": helm.Values{
			"labels": helm.Values{"app": p.App},
			"name":   p.App,
		},
		"spec": spec,
	}
}

// provisionerObjects renders the provisioners when enabled and returns an
// empty list otherwise.
func provisionerObjects(enabled bool, provisioners ...Provisioner) []helm.Values {
	objs := []helm.Values{}
	if !enabled {
		return objs
	}
	for _, p := range provisioners {
		objs = append(objs, p.Object())
	}
	return objs
}

// nodeAffinityIf returns the app node affinity when enabled, an empty map
// otherwise.
func nodeAffinityIf(enabled bool, app string) helm.Values {
	if !enabled {
		return helm.Values{}
	}
	return helm.AppNodeAffinity(app)
}

func instanceCategory(values ...string) Requirement {
	return Requirement{Key: keyInstanceCategory, Values: values}
}

func instanceCPU(values ...string) Requirement {
	return Requirement{Key: keyInstanceCPU, Values: values}
}

func instanceMemory(values ...string) Requirement {
	return Requirement{Key: keyInstanceMemory, Values: values}
}

func arch(values ...string) Requirement {
	return Requirement{Key: keyArch, Values: values}
}

func linuxOS() Requirement {
	return Requirement{Key: keyOS, Values: []string{"linux"}}
}

func capacityType(values ...string) Requirement {
	return Requirement{Key: keyCapacityType, Values: values}
}
