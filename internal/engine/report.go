package engine

import (
	"cmp"
	"slices"
	"time"
)

// Outcome is the result of applying one resource.
type Outcome struct {
	Name     string
	Kind     string
	Level    int
	Duration time.Duration

	// Manifests holds the rendered objects in dry-run mode.
	Manifests []byte
}

// Report lists the outcomes of an apply in completion order per level.
type Report struct {
	DryRun   bool
	Outcomes []Outcome
}

// Names returns the applied resource names.
func (r *Report) Names() []string {
	names := make([]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		names = append(names, o.Name)
	}
	return names
}

// Sorted returns a copy of the outcomes ordered by level, then name, so
// output does not depend on completion order.
func (r *Report) Sorted() []Outcome {
	sorted := slices.Clone(r.Outcomes)
	slices.SortFunc(sorted, func(a, b Outcome) int {
		return cmp.Or(cmp.Compare(a.Level, b.Level), cmp.Compare(a.Name, b.Name))
	})
	return sorted
}
