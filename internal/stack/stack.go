package stack

import (
	"errors"
	"fmt"

	"github.com/imamik/chartstack/internal/release"
)

// Stack is an ordered set of release descriptors.
type Stack struct {
	name      string
	resources []release.Resource
	index     map[string]int
}

// New creates an empty stack.
func New(name string) *Stack {
	return &Stack{
		name:  name,
		index: make(map[string]int),
	}
}

// Name returns the stack name.
func (s *Stack) Name() string { return s.name }

// Len returns the number of registered resources.
func (s *Stack) Len() int { return len(s.resources) }

// Add registers resources in order. It stops at the first resource that
// repeats a name or depends on an unregistered resource.
func (s *Stack) Add(resources ...release.Resource) error {
	for _, res := range resources {
		if err := s.add(res); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stack) add(res release.Resource) error {
	name := res.ResourceName()
	if _, ok := s.index[name]; ok {
		return fmt.Errorf("%s %q: %w", res.ResourceKind(), name, ErrDuplicate)
	}
	if err := s.checkDependencies(res, s.index); err != nil {
		return err
	}
	s.index[name] = len(s.resources)
	s.resources = append(s.resources, res)
	return nil
}

func (s *Stack) checkDependencies(res release.Resource, registered map[string]int) error {
	for _, dep := range res.Dependencies() {
		if release.IsExternal(dep) {
			continue
		}
		if _, ok := registered[dep.ResourceName()]; !ok {
			return fmt.Errorf("%s %q depends on %s %q: %w",
				res.ResourceKind(), res.ResourceName(), dep.ResourceKind(), dep.ResourceName(), ErrForwardReference)
		}
	}
	return nil
}

// Get returns a registered resource by name.
func (s *Stack) Get(name string) (release.Resource, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.resources[i], true
}

// Resources returns the registered resources in registration order.
func (s *Stack) Resources() []release.Resource {
	out := make([]release.Resource, len(s.resources))
	copy(out, s.resources)
	return out
}

// Levels groups the resources into apply levels. A resource without
// registered dependencies is on level 0; otherwise its level is one more
// than the highest level among its dependencies. Registration order is kept
// within a level.
func (s *Stack) Levels() [][]release.Resource {
	level := make(map[string]int, len(s.resources))
	var levels [][]release.Resource

	for _, res := range s.resources {
		l := 0
		for _, dep := range res.Dependencies() {
			if d, ok := level[dep.ResourceName()]; ok && !release.IsExternal(dep) && d+1 > l {
				l = d + 1
			}
		}
		level[res.ResourceName()] = l
		for len(levels) <= l {
			levels = append(levels, nil)
		}
		levels[l] = append(levels[l], res)
	}

	return levels
}

// Validate re-checks the whole graph. Descriptors are mutable, so a
// dependency appended after registration is caught here.
func (s *Stack) Validate() error {
	var errs []error
	seen := make(map[string]int, len(s.resources))
	for i, res := range s.resources {
		if err := s.checkDependencies(res, seen); err != nil {
			errs = append(errs, err)
		}
		seen[res.ResourceName()] = i
	}
	return errors.Join(errs...)
}
