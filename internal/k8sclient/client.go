package k8sclient

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"

	"github.com/imamik/chartstack/internal/addons/helm"
)

// Client applies manifests rendered from charts.
type Client interface {
	// ApplyManifests applies multi-document YAML using Server-Side Apply.
	// Namespaced objects without a namespace land in defaultNamespace.
	ApplyManifests(ctx context.Context, manifests []byte, defaultNamespace, fieldManager string) error

	// EnsureNamespace creates the namespace with labels if it does not exist.
	// Existing namespaces are left untouched.
	EnsureNamespace(ctx context.Context, name string, labels map[string]string) error

	// RefreshDiscovery reloads the REST mapping to pick up newly installed CRDs.
	RefreshDiscovery(ctx context.Context) error
}

type client struct {
	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface
	mapper        meta.RESTMapper
}

// NewFromKubeconfig creates a Client from kubeconfig bytes. An empty
// context selects the kubeconfig's current-context. REST mappings are
// discovered lazily and cached in memory.
func NewFromKubeconfig(kubeconfig []byte, kubeContext string) (Client, error) {
	getter := helm.NewInMemoryRESTClientGetter(kubeconfig, kubeContext, "")

	restConfig, err := getter.ToRESTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create REST config from kubeconfig: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	mapper, err := getter.ToRESTMapper()
	if err != nil {
		return nil, fmt.Errorf("failed to create REST mapper: %w", err)
	}

	return NewFromClients(clientset, dynamicClient, mapper), nil
}

// NewFromClients creates a Client from pre-configured clients.
func NewFromClients(clientset kubernetes.Interface, dynamicClient dynamic.Interface, mapper meta.RESTMapper) Client {
	return &client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        mapper,
	}
}

// RefreshDiscovery drops cached REST mappings so CRDs installed since the
// last lookup resolve. Mappers that cannot be reset are kept as they are.
func (c *client) RefreshDiscovery(_ context.Context) error {
	if r, ok := c.mapper.(meta.ResettableRESTMapper); ok {
		r.Reset()
	}
	return nil
}

func (c *client) EnsureNamespace(ctx context.Context, name string, labels map[string]string) error {
	_, err := c.clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if err == nil {
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to get namespace %s: %w", name, err)
	}

	ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name, Labels: labels}}
	if _, err := c.clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{}); err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create namespace %s: %w", name, err)
	}
	return nil
}
