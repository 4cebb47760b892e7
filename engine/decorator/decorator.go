// Package decorator provides caller-side wrappers around a single task
// Invoke call: retry, timeout, schema validation and logging. Decorators
// compose like any other task but add no behavior of their own to Stream
// or Batch beyond the default contract.
package decorator

import (
	"context"

	"github.com/taskpipe/taskpipe/engine/task"
)

type invokeFunc func(ctx context.Context, input any, cfg *task.Config) (any, error)

// wrapper turns an invoke function into a full Task, delegating identity
// to the wrapped task.
type wrapper struct {
	inner  task.Task
	invoke invokeFunc
}

func wrap(inner task.Task, invoke invokeFunc) task.Task {
	return &wrapper{inner: inner, invoke: invoke}
}

func (w *wrapper) ID() string {
	return w.inner.ID()
}

func (w *wrapper) Invoke(ctx context.Context, input any, cfg *task.Config) (any, error) {
	return w.invoke(ctx, input, cfg)
}

func (w *wrapper) Stream(ctx context.Context, input any, cfg *task.Config) (<-chan task.Chunk, error) {
	return task.SingleStream(ctx, w, input, cfg)
}

func (w *wrapper) Batch(ctx context.Context, inputs []any, cfg *task.Config) ([]any, error) {
	return task.BatchEach(ctx, w, inputs, cfg)
}

func (w *wrapper) Pipe(next task.Task) *task.Sequence {
	return task.Pipe(w, next)
}
