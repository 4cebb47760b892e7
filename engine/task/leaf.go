package task

import (
	"context"

	"github.com/taskpipe/taskpipe/engine/core"
)

// Func is the unit of user logic wrapped by a Leaf.
type Func func(ctx context.Context, input any, cfg *Config) (any, error)

// Leaf wraps an arbitrary function as a Task. It has no child tasks and
// holds no external resources of its own.
type Leaf struct {
	id string
	fn Func
}

func NewLeaf(id string, fn Func) (*Leaf, error) {
	if id == "" {
		return nil, core.NewConfigurationError("leaf task requires an id")
	}
	if fn == nil {
		return nil, core.NewConfigurationError("leaf task %q requires a function", id)
	}
	return &Leaf{id: id, fn: fn}, nil
}

// MustLeaf panics on invalid construction. Intended for composition code
// with literal arguments.
func MustLeaf(id string, fn Func) *Leaf {
	leaf, err := NewLeaf(id, fn)
	if err != nil {
		panic(err)
	}
	return leaf
}

func (l *Leaf) ID() string {
	return l.id
}

func (l *Leaf) Invoke(ctx context.Context, input any, cfg *Config) (any, error) {
	return invokeTask(ctx, l, input, cfg, l.execute)
}

func (l *Leaf) Stream(ctx context.Context, input any, cfg *Config) (<-chan Chunk, error) {
	return SingleStream(ctx, l, input, cfg)
}

func (l *Leaf) Batch(ctx context.Context, inputs []any, cfg *Config) ([]any, error) {
	return BatchEach(ctx, l, inputs, cfg)
}

func (l *Leaf) Pipe(next Task) *Sequence {
	return Pipe(l, next)
}

func (l *Leaf) execute(ctx context.Context, input any, cfg *Config) (any, error) {
	return l.fn(ctx, input, cfg)
}
