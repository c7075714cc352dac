package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrStageAlreadyRegistered is returned when registering a duplicate stage.
	ErrStageAlreadyRegistered = errors.New("stage already registered")

	// ErrStageNotFound is returned for an unknown stage or dependency.
	ErrStageNotFound = errors.New("stage not found")

	// ErrDependencyCycle is returned when stage dependencies form a cycle.
	ErrDependencyCycle = errors.New("dependency cycle detected")
)

// Registry holds the stages of a pipeline. It is filled once by New and
// read-only afterwards.
type Registry struct {
	stages map[string]Stage
	order  []string // registration order, used to break ties
}

// NewRegistry creates an empty stage registry.
func NewRegistry() *Registry {
	return &Registry{stages: make(map[string]Stage)}
}

// Register adds a stage. Names must be unique.
func (r *Registry) Register(s Stage) error {
	name := s.Name()
	if _, dup := r.stages[name]; dup {
		return fmt.Errorf("%w: %s", ErrStageAlreadyRegistered, name)
	}
	r.stages[name] = s
	r.order = append(r.order, name)
	return nil
}

// Validate reports the first missing dependency in registration order, then
// any cycle.
func (r *Registry) Validate() error {
	if err := r.checkDependencies(); err != nil {
		return err
	}
	_, err := r.GetOrdered()
	return err
}

func (r *Registry) checkDependencies() error {
	for _, name := range r.order {
		for _, dep := range r.stages[name].Dependencies() {
			if _, ok := r.stages[dep]; !ok {
				return fmt.Errorf("%w: stage %q depends on %q", ErrStageNotFound, name, dep)
			}
		}
	}
	return nil
}

// GetOrdered returns the stages in dependency order. Among stages that are
// ready at the same time, registration order wins.
func (r *Registry) GetOrdered() ([]Stage, error) {
	if err := r.checkDependencies(); err != nil {
		return nil, err
	}

	pending := make(map[string]int, len(r.order))
	dependents := make(map[string][]string, len(r.order))
	var ready []string
	for _, name := range r.order {
		deps := r.stages[name].Dependencies()
		pending[name] = len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], name)
		}
		if len(deps) == 0 {
			ready = append(ready, name)
		}
	}

	ordered := make([]Stage, 0, len(r.order))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		ordered = append(ordered, r.stages[name])
		for _, next := range dependents[name] {
			if pending[next]--; pending[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(ordered) != len(r.order) {
		return nil, ErrDependencyCycle
	}
	return ordered, nil
}

// Upstream returns the named stage and every stage it transitively depends on.
func (r *Registry) Upstream(name string) (map[string]bool, error) {
	if _, ok := r.stages[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrStageNotFound, name)
	}
	needed := make(map[string]bool)
	stack := []string{name}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if needed[n] {
			continue
		}
		needed[n] = true
		if s, ok := r.stages[n]; ok {
			stack = append(stack, s.Dependencies()...)
		}
	}
	return needed, nil
}
