package helm

import "fmt"

// ChartSpec identifies a chart artifact in a Helm repository.
type ChartSpec struct {
	Repository string
	Name       string
	Version    string
}

// String returns the spec as name@version (repository).
func (s ChartSpec) String() string {
	return fmt.Sprintf("%s@%s (%s)", s.Name, s.Version, s.Repository)
}

// Complete reports whether every field is set.
func (s ChartSpec) Complete() bool {
	return s.Repository != "" && s.Name != "" && s.Version != ""
}

// WithOverrides returns a copy of s with the non-empty arguments replacing
// the corresponding fields.
func (s ChartSpec) WithOverrides(repository, name, version string) ChartSpec {
	if repository != "" {
		s.Repository = repository
	}
	if name != "" {
		s.Name = name
	}
	if version != "" {
		s.Version = version
	}
	return s
}

// LookupChartSpec returns the default spec of a product chart.
func LookupChartSpec(product string) (ChartSpec, bool) {
	spec, ok := DefaultChartSpecs[product]
	return spec, ok
}
