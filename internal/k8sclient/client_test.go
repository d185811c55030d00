package k8sclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
)

func TestEnsureNamespace(t *testing.T) {
	t.Parallel()

	existing := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "kube-system"}}
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	clientset := fake.NewSimpleClientset(existing)
	c := NewFromClients(clientset, dynamicfake.NewSimpleDynamicClient(runtime.NewScheme()), createApplyTestMapper())
	ctx := context.Background()

	labels := map[string]string{"chartstack.io/stack": "prod"}

	require.NoError(t, c.EnsureNamespace(ctx, "kube-system", labels))
	require.NoError(t, c.EnsureNamespace(ctx, "monitoring", labels))
	require.NoError(t, c.EnsureNamespace(ctx, "monitoring", nil))

	list, err := clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	system, err := clientset.CoreV1().Namespaces().Get(ctx, "kube-system", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Empty(t, system.Labels, "existing namespaces are not relabelled")

	monitoring, err := clientset.CoreV1().Namespaces().Get(ctx, "monitoring", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, labels, monitoring.Labels)
}

func TestRefreshDiscovery_FakeClientKeepsMapper(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	c := NewFromClients(fake.NewSimpleClientset(), dynamicfake.NewSimpleDynamicClient(runtime.NewScheme()), createApplyTestMapper())
	require.NoError(t, c.RefreshDiscovery(context.Background()))
	assert.NotNil(t, c.(*client).mapper)
}
