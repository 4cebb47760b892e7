package task

import (
	"context"

	"github.com/taskpipe/taskpipe/engine/core"
)

// Sequence chains child tasks so each one's output becomes the next one's
// input. The child list is fixed at construction. Execution is fail-fast:
// a failing step stops the chain and the surfaced error identifies the
// step's index and task.
type Sequence struct {
	id       string
	children []Task
}

func NewSequence(id string, children ...Task) (*Sequence, error) {
	if id == "" {
		return nil, core.NewConfigurationError("sequence requires an id")
	}
	if len(children) == 0 {
		return nil, core.NewConfigurationError("sequence %q requires at least one child task", id)
	}
	for i, child := range children {
		if child == nil {
			return nil, core.NewConfigurationError("sequence %q has a nil task at step %d", id, i)
		}
	}
	owned := make([]Task, len(children))
	copy(owned, children)
	return &Sequence{id: id, children: owned}, nil
}

func (s *Sequence) ID() string {
	return s.id
}

// Children returns the child list as a copy.
func (s *Sequence) Children() []Task {
	children := make([]Task, len(s.children))
	copy(children, s.children)
	return children
}

func (s *Sequence) Invoke(ctx context.Context, input any, cfg *Config) (any, error) {
	return invokeTask(ctx, s, input, cfg, s.execute)
}

func (s *Sequence) Stream(ctx context.Context, input any, cfg *Config) (<-chan Chunk, error) {
	return SingleStream(ctx, s, input, cfg)
}

func (s *Sequence) Batch(ctx context.Context, inputs []any, cfg *Config) ([]any, error) {
	return BatchEach(ctx, s, inputs, cfg)
}

// Pipe appends next after this sequence. The resulting sequence nests
// rather than flattens; the observable output is the same either way.
func (s *Sequence) Pipe(next Task) *Sequence {
	return Pipe(s, next)
}

func (s *Sequence) execute(ctx context.Context, input any, cfg *Config) (any, error) {
	current := input
	for i, child := range s.children {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		childCfg, err := cfg.Child()
		if err != nil {
			return nil, err
		}
		output, err := child.Invoke(ctx, current, childCfg)
		if err != nil {
			return nil, core.NewStepError(child.ID(), i, err)
		}
		current = output
	}
	return current, nil
}
