package k8sclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/restmapper"
	k8stesting "k8s.io/client-go/testing"
)

type patchRecord struct {
	resource  string
	namespace string
	name      string
	patchType types.PatchType
}

// setupApplyTestClient creates a client over fakes whose patch reactor
// records every server-side apply.
func setupApplyTestClient(t *testing.T) (Client, *[]patchRecord) {
	t.Helper()

	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	clientset := fake.NewSimpleClientset()
	scheme := runtime.NewScheme()
	_ = corev1.AddToScheme(scheme)
	dynamicClient := dynamicfake.NewSimpleDynamicClient(scheme)

	var patches []patchRecord
	dynamicClient.PrependReactor("patch", "*", func(action k8stesting.Action) (bool, runtime.Object, error) {
		pa := action.(k8stesting.PatchAction)
		patches = append(patches, patchRecord{
			resource:  pa.GetResource().Resource,
			namespace: pa.GetNamespace(),
			name:      pa.GetName(),
			patchType: pa.GetPatchType(),
		})
		return true, &unstructured.Unstructured{Object: map[string]any{
			"apiVersion": "v1",
			"kind":       "ConfigMap",
			"metadata":   map[string]any{"name": pa.GetName()},
		}}, nil
	})

	return NewFromClients(clientset, dynamicClient, createApplyTestMapper()), &patches
}

func createApplyTestMapper() meta.RESTMapper {
	resources := []*restmapper.APIGroupResources{
		{
			Group: metav1.APIGroup{
				Name: "",
				Versions: []metav1.GroupVersionForDiscovery{
					{GroupVersion: "v1", Version: "v1"},
				},
				PreferredVersion: metav1.GroupVersionForDiscovery{GroupVersion: "v1", Version: "v1"},
			},
			VersionedResources: map[string][]metav1.APIResource{
				"v1": {
					{Name: "configmaps", Namespaced: true, Kind: "ConfigMap"},
					{Name: "namespaces", Namespaced: false, Kind: "Namespace"},
					{Name: "services", Namespaced: true, Kind: "Service"},
				},
			},
		},
	}

	return restmapper.NewDiscoveryRESTMapper(resources)
}

func TestApplyManifests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		manifests string
		want      []patchRecord
	}{
		{
			name:      "empty manifest",
			manifests: ``,
		},
		{
			name:      "only separators",
			manifests: "---\n\n---\n",
		},
		{
			name: "multi document",
			manifests: `---
apiVersion: v1
kind: ConfigMap
metadata:
  name: config1
  namespace: monitoring
---
---
apiVersion: v1
kind: Namespace
metadata:
  name: logging
`,
			want: []patchRecord{
				{resource: "configmaps", namespace: "monitoring", name: "config1", patchType: types.ApplyPatchType},
				{resource: "namespaces", namespace: "", name: "logging", patchType: types.ApplyPatchType},
			},
		},
		{
			name: "namespaced object without namespace uses the default",
			manifests: `apiVersion: v1
kind: Service
metadata:
  name: loki-gateway
`,
			want: []patchRecord{
				{resource: "services", namespace: "observability", name: "loki-gateway", patchType: types.ApplyPatchType},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, patches := setupApplyTestClient(t)

			require.NoError(t, c.ApplyManifests(context.Background(), []byte(tt.manifests), "observability", "chartstack"))
			assert.Equal(t, tt.want, *patches)
		})
	}
}

func TestApplyManifests_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		manifests string
		wantErr   string
	}{
		{
			name:      "invalid yaml",
			manifests: `{invalid yaml: [`,
			wantErr:   "failed to decode manifest",
		},
		{
			name: "missing kind",
			manifests: `apiVersion: v1
metadata:
  name: test
`,
			wantErr: "Kind",
		},
		{
			name: "unknown kind",
			manifests: `apiVersion: example.com/v1
kind: Widget
metadata:
  name: test
`,
			wantErr: "failed to get REST mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, patches := setupApplyTestClient(t)

			err := c.ApplyManifests(context.Background(), []byte(tt.manifests), "", "chartstack")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, *patches)
		})
	}
}

func TestApplyObject_DefaultsToDefaultNamespace(t *testing.T) {
	t.Parallel()
	c, patches := setupApplyTestClient(t)

	obj := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "v1",
		"kind":       "ConfigMap",
		"metadata":   map[string]any{"name": "cm"},
	}}

	require.NoError(t, c.(*client).applyObject(context.Background(), obj, "", metav1.PatchOptions{FieldManager: "chartstack"}))
	require.Len(t, *patches, 1)
	assert.Equal(t, "default", (*patches)[0].namespace)
}

func TestNewFromKubeconfig_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewFromKubeconfig([]byte("invalid kubeconfig content"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create REST config")
}
