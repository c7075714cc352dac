package pipeline

import (
	"context"
)

// Stage is the interface that all pipeline stages must implement.
// A stage reads what earlier stages left on the RunContext and adds its own output.
type Stage interface {
	// Identity
	Name() string           // e.g., "locate-toc", "candidates"
	Dependencies() []string // Stages that must complete first

	// Metadata
	Description() string

	// Run executes the stage. Errors end the run.
	Run(ctx context.Context, rc *RunContext) error
}

// stage adapts a function to the Stage interface.
type stage struct {
	name        string
	deps        []string
	description string
	run         func(ctx context.Context, rc *RunContext) error
}

func (s *stage) Name() string           { return s.name }
func (s *stage) Dependencies() []string { return s.deps }
func (s *stage) Description() string    { return s.description }

func (s *stage) Run(ctx context.Context, rc *RunContext) error {
	return s.run(ctx, rc)
}
