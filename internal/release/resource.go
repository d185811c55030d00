package release

// Resource kinds understood by the apply engine.
const (
	KindRelease     = "Release"
	KindChartRender = "ChartRender"
)

// Provider is a handle to a cluster connection. Descriptors carry it
// through to the engine without inspecting it.
type Provider struct {
	Name       string
	Kubeconfig []byte
	Context    string
}

// Resource is anything a descriptor can depend on.
type Resource interface {
	ResourceName() string
	ResourceKind() string
	Dependencies() []Resource
}

// ExternalResource stands for something created outside the stack, such as
// a namespace or an IAM role, that releases still need to be ordered after.
type ExternalResource struct {
	Name string
	Kind string
}

// External returns a handle for a resource managed elsewhere.
func External(kind, name string) ExternalResource {
	return ExternalResource{Name: name, Kind: kind}
}

// ResourceName implements Resource.
func (e ExternalResource) ResourceName() string { return e.Name }

// ResourceKind implements Resource.
func (e ExternalResource) ResourceKind() string { return e.Kind }

// Dependencies implements Resource. External resources have none.
func (e ExternalResource) Dependencies() []Resource { return nil }

// IsExternal reports whether r is managed outside the stack.
func IsExternal(r Resource) bool {
	switch r.(type) {
	case ExternalResource, *ExternalResource:
		return true
	default:
		return false
	}
}
