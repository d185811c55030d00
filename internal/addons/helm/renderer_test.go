package helm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"helm.sh/helm/v3/pkg/chart"
)

// testChart builds an in-memory chart with the given templates.
func testChart(defaults map[string]any, templates map[string]string) *chart.Chart {
	ch := &chart.Chart{
		Metadata: &chart.Metadata{APIVersion: chart.APIVersionV2, Name: "karpenter", Version: "0.16.3"},
		Values:   defaults,
	}
	for name, data := range templates {
		ch.Templates = append(ch.Templates, &chart.File{Name: name, Data: []byte(data)})
	}
	return ch
}

const serviceAccountTemplate = `apiVersion: v1
kind: ServiceAccount
metadata:
  name: {{ .Release.Name }}
  namespace: {{ .Release.Namespace }}
  annotations:
    eks.amazonaws.com/role-arn: {{ .Values.serviceAccount.roleArn }}
`

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		defaults    map[string]any
		templates   map[string]string
		values      Values
		opts        []RendererOption
		contains    []string
		notContains []string
		exact       string
	}{
		{
			name:      "release metadata and values",
			defaults:  map[string]any{"serviceAccount": map[string]any{"roleArn": "none"}},
			templates: map[string]string{"templates/sa.yaml": serviceAccountTemplate},
			values:    Values{"serviceAccount": Values{"roleArn": "arn:aws:iam::123:role/karpenter"}},
			contains: []string{
				"kind: ServiceAccount",
				"name: karpenter",
				"namespace: karpenter",
				"eks.amazonaws.com/role-arn: arn:aws:iam::123:role/karpenter",
			},
		},
		{
			name: "chart defaults survive a partial override",
			defaults: map[string]any{
				"controller": map[string]any{
					"replicas": 1,
					"image":    map[string]any{"repository": "public.ecr.aws/karpenter/controller", "tag": "v0.16.3"},
				},
			},
			templates: map[string]string{
				"templates/deployment.yaml": "replicas: {{ .Values.controller.replicas }}\nimage: {{ .Values.controller.image.repository }}:{{ .Values.controller.image.tag }}\n",
			},
			values:   Values{"controller": Values{"image": Values{"tag": "v0.17.0"}}},
			contains: []string{"replicas: 1", "image: public.ecr.aws/karpenter/controller:v0.17.0"},
		},
		{
			name: "notes and blank templates are dropped",
			templates: map[string]string{
				"templates/cm.yaml":     "kind: ConfigMap\n",
				"templates/NOTES.txt":   "Karpenter is installed.",
				"templates/secret.yaml": "{{ if .Values.webhook }}kind: Secret\n{{ end }}",
				"templates/blank.yaml":  "  \n\n",
			},
			values:      Values{"webhook": false},
			exact:       "kind: ConfigMap\n",
			notContains: []string{"Karpenter is installed", "kind: Secret"},
		},
		{
			name: "templates sorted by name",
			templates: map[string]string{
				"templates/c.yaml": "kind: C\n",
				"templates/a.yaml": "---\nkind: A\n",
				"templates/b.yaml": "kind: B\n",
			},
			exact: "kind: A\n\n---\nkind: B\n\n---\nkind: C\n",
		},
		{
			name:      "capabilities report the kube version",
			templates: map[string]string{"templates/v.yaml": "kubeVersion: {{ .Capabilities.KubeVersion.Version }}\n"},
			opts:      []RendererOption{WithKubeVersion("v1.30.2")},
			exact:     "kubeVersion: v1.30.2\n",
		},
		{
			name:      "default kube version",
			templates: map[string]string{"templates/v.yaml": "minor: {{ .Capabilities.KubeVersion.Minor }}\n"},
			exact:     "minor: 29\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := NewRenderer("karpenter", "karpenter", tt.opts...).Render(testChart(tt.defaults, tt.templates), tt.values)
			require.NoError(t, err)

			rendered := string(out)
			if tt.exact != "" {
				assert.Equal(t, tt.exact, rendered)
			}
			for _, want := range tt.contains {
				assert.Contains(t, rendered, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, rendered, unwanted)
			}
		})
	}
}

func TestRenderer_IncludesCRDs(t *testing.T) {
	t.Parallel()

	ch := testChart(nil, map[string]string{"templates/sa.yaml": "kind: ServiceAccount\n"})
	ch.Files = []*chart.File{{
		Name: "crds/provisioners.yaml",
		Data: []byte("---\napiVersion: apiextensions.k8s.io/v1\nkind: CustomResourceDefinition\nmetadata:\n  name: provisioners.karpenter.sh\n"),
	}}

	out, err := NewRenderer("karpenter", "karpenter").Render(ch, Values{})
	require.NoError(t, err)
	assert.Equal(t, "apiVersion: apiextensions.k8s.io/v1\nkind: CustomResourceDefinition\nmetadata:\n  name: provisioners.karpenter.sh\n\n---\nkind: ServiceAccount\n", string(out))

	out, err = NewRenderer("karpenter", "karpenter", WithoutCRDs()).Render(ch, Values{})
	require.NoError(t, err)
	assert.Equal(t, "kind: ServiceAccount\n", string(out))
}

func TestRenderer_InvalidKubeVersion(t *testing.T) {
	t.Parallel()

	_, err := NewRenderer("karpenter", "karpenter", WithKubeVersion("latest")).Render(testChart(nil, nil), Values{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid kube version "latest"`)
}

func TestRenderer_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	ch := testChart(map[string]any{"image": map[string]any{"tag": "v1"}},
		map[string]string{"templates/x.yaml": "tag: {{ .Values.image.tag }}\n"})
	values := Values{"image": Values{"tag": "v2"}}

	out, err := NewRenderer("karpenter", "karpenter").Render(ch, values)
	require.NoError(t, err)
	assert.Equal(t, "tag: v2\n", string(out))
	assert.Equal(t, "v1", ch.Values["image"].(map[string]any)["tag"])
	assert.Equal(t, Values{"image": Values{"tag": "v2"}}, values)
}

func TestRenderFromPath(t *testing.T) {
	t.Parallel()

	t.Run("missing chart", func(t *testing.T) {
		t.Parallel()
		_, err := RenderFromPath("/nonexistent/chart/path", "metrics-server", "kube-system", Values{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load chart")
	})

	t.Run("local chart directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Chart.yaml"), []byte("apiVersion: v2\nname: metrics-server\nversion: 3.11.0\n"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "values.yaml"), []byte("port: 10250\n"), 0o600))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0o750))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "svc.yaml"), []byte(`apiVersion: v1
kind: Service
metadata:
  name: {{ .Release.Name }}
  namespace: {{ .Release.Namespace }}
spec:
  ports:
  - port: {{ .Values.port }}
`), 0o600))

		out, err := RenderFromPath(dir, "metrics-server", "kube-system", Values{"port": 4443})
		require.NoError(t, err)

		rendered := string(out)
		assert.Contains(t, rendered, "name: metrics-server")
		assert.Contains(t, rendered, "namespace: kube-system")
		assert.Contains(t, rendered, "port: 4443")
		assert.NotContains(t, rendered, "10250")
	})
}
