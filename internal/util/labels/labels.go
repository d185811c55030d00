package labels

// Label keys.
const (
	// KeyManagedBy identifies the management system.
	KeyManagedBy = "app.kubernetes.io/managed-by"

	// KeyStack identifies the stack an object belongs to.
	KeyStack = "chartstack.io/stack"

	// KeyRelease identifies the release that created an object.
	KeyRelease = "chartstack.io/release"
)

// ManagedByChartstack is the managed-by value of chartstack objects.
const ManagedByChartstack = "chartstack"

// LabelBuilder provides a fluent interface for building object labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a label builder with the stack and managed-by
// labels set.
func NewLabelBuilder(stackName string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyStack:     stackName,
			KeyManagedBy: ManagedByChartstack,
		},
	}
}

// WithRelease adds the release label.
func (lb *LabelBuilder) WithRelease(name string) *LabelBuilder {
	lb.labels[KeyRelease] = name
	return lb
}

// WithManagedBy sets who manages the object.
func (lb *LabelBuilder) WithManagedBy(manager string) *LabelBuilder {
	lb.labels[KeyManagedBy] = manager
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// SelectorForStack returns a label selector for all objects of a stack.
func SelectorForStack(stackName string) string {
	return KeyStack + "=" + stackName
}
