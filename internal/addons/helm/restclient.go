package helm

import (
	"sync"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// InMemoryRESTClientGetter is a RESTClientGetter over kubeconfig bytes, so
// Helm actions never read kubeconfig files or environment variables.
//
// An empty context selects the kubeconfig's current-context; an empty
// namespace keeps the namespace of that context.
type InMemoryRESTClientGetter struct {
	kubeconfig  []byte
	kubeContext string
	namespace   string

	mu         sync.Mutex
	restConfig *rest.Config
}

// NewInMemoryRESTClientGetter creates a getter for kubeconfig.
func NewInMemoryRESTClientGetter(kubeconfig []byte, kubeContext, namespace string) *InMemoryRESTClientGetter {
	return &InMemoryRESTClientGetter{
		kubeconfig:  kubeconfig,
		kubeContext: kubeContext,
		namespace:   namespace,
	}
}

func (g *InMemoryRESTClientGetter) loadClientConfig() (clientcmd.ClientConfig, error) {
	raw, err := clientcmd.Load(g.kubeconfig)
	if err != nil {
		return nil, err
	}
	return clientcmd.NewNonInteractiveClientConfig(*raw, g.kubeContext, &clientcmd.ConfigOverrides{
		CurrentContext: g.kubeContext,
		Context:        clientcmdapi.Context{Namespace: g.namespace},
	}, nil), nil
}

// ToRESTConfig returns the REST config of the selected context. The result
// is computed once.
func (g *InMemoryRESTClientGetter) ToRESTConfig() (*rest.Config, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.restConfig == nil {
		clientConfig, err := g.loadClientConfig()
		if err != nil {
			return nil, err
		}
		if g.restConfig, err = clientConfig.ClientConfig(); err != nil {
			return nil, err
		}
	}
	return g.restConfig, nil
}

// ToDiscoveryClient returns a memory-cached discovery client.
func (g *InMemoryRESTClientGetter) ToDiscoveryClient() (discovery.CachedDiscoveryInterface, error) {
	restConfig, err := g.ToRESTConfig()
	if err != nil {
		return nil, err
	}
	dc, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, err
	}
	return memory.NewMemCacheClient(dc), nil
}

// ToRESTMapper returns a deferred discovery REST mapper.
func (g *InMemoryRESTClientGetter) ToRESTMapper() (meta.RESTMapper, error) {
	dc, err := g.ToDiscoveryClient()
	if err != nil {
		return nil, err
	}
	return restmapper.NewDeferredDiscoveryRESTMapper(dc), nil
}

// ToRawKubeConfigLoader returns the client config. Unparseable kubeconfig
// bytes yield an empty config so callers fail on first use.
func (g *InMemoryRESTClientGetter) ToRawKubeConfigLoader() clientcmd.ClientConfig {
	clientConfig, err := g.loadClientConfig()
	if err != nil {
		return clientcmd.NewDefaultClientConfig(*clientcmdapi.NewConfig(), &clientcmd.ConfigOverrides{})
	}
	return clientConfig
}
