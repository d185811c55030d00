package addons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
)

func TestKarpenterCRDs(t *testing.T) {
	t.Parallel()

	external := release.ExternalResource{Name: "karpenter-role", Kind: "IAMRole"}
	args := KarpenterArgs{
		ReleaseArgs: ReleaseArgs{Namespace: "karpenter", DependsOn: []release.Resource{external}},
		RoleARN:     "arn:aws:iam::123456789012:role/karpenter",
		ClusterName: "prod",
	}

	crds := KarpenterCRDs(testProvider, args)

	assert.Equal(t, "karpenter-crds", crds.ResourceName())
	assert.Equal(t, release.KindChartRender, crds.ResourceKind())
	assert.Equal(t, "karpenter", crds.Config.Chart)
	assert.Equal(t, "0.16.3", crds.Config.Version)
	assert.Equal(t, "https://charts.karpenter.sh", crds.Config.FetchOpts.Repo)
	assert.Equal(t, "karpenter", crds.Config.Namespace)
	assert.Equal(t, "prod", crds.Config.Values["clusterName"])
	assert.Equal(t, []release.Resource{external}, crds.DependsOn)

	crd := crds.Transform(map[string]any{
		"apiVersion": "apiextensions.k8s.io/v1",
		"kind":       "CustomResourceDefinition",
		"metadata":   map[string]any{"name": "provisioners.karpenter.sh"},
	})
	require.NotNil(t, crd)
	assert.Equal(t, map[string]any{"app.kubernetes.io/managed-by": "chartstack"}, crd["metadata"].(map[string]any)["labels"])

	assert.Nil(t, crds.Transform(map[string]any{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"metadata":   map[string]any{"name": "karpenter"},
	}))
}

func TestKarpenterCRDs_CustomName(t *testing.T) {
	t.Parallel()

	crds := KarpenterCRDs(testProvider, KarpenterArgs{
		ReleaseArgs: ReleaseArgs{Name: "autoscaler", Version: "0.17.0", Values: map[string]any{"replicas": 1}},
	})

	assert.Equal(t, "autoscaler-crds", crds.ResourceName())
	assert.Equal(t, "0.17.0", crds.Config.Version)
	assert.Equal(t, "default", crds.Config.Namespace)
	assert.Equal(t, 1, crds.Config.Values["replicas"])
	assert.IsType(t, helm.Values{}, crds.Config.Values)
}
