package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

func TestRender(t *testing.T) {
	saveAndRestoreFactories(t)
	stubKubeconfig(nil, nil)
	out := captureStdout(t)

	require.NoError(t, Render(context.Background(), writeTestConfig(t)))

	docs := strings.Split(strings.TrimPrefix(out.String(), "---\n"), "---\n")
	require.Len(t, docs, 3)

	var got []descriptor
	for _, doc := range docs {
		var d descriptor
		require.NoError(t, yaml.Unmarshal([]byte(doc), &d))
		got = append(got, d)
	}

	assert.Equal(t, "cilium", got[0].Name)
	assert.Equal(t, "Release", got[0].Kind)
	assert.Equal(t, "https://helm.cilium.io", got[0].Repository)
	assert.Empty(t, got[0].DependsOn)

	assert.Equal(t, "metrics-server", got[1].Name)
	assert.True(t, got[1].SkipAwait)
	assert.Equal(t, []string{"cilium"}, got[1].DependsOn)

	assert.Equal(t, "thanos", got[2].Name)
	assert.Equal(t, "thanos", got[2].Chart)
	assert.Equal(t, []string{"cilium"}, got[2].DependsOn)
	assert.NotEmpty(t, got[2].Values)
}

func TestRender_ConfigError(t *testing.T) {
	saveAndRestoreFactories(t)

	err := Render(context.Background(), "/nonexistent/chartstack.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
