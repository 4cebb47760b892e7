package task

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/taskpipe/taskpipe/engine/core"
)

// Chunk is one element of a task's output stream. Exactly one of Value or
// Err is meaningful; a chunk with a non-nil Err terminates the stream.
type Chunk struct {
	Value any
	Err   error
}

// Task is a unit of composable, asynchronously-invokable work. Concrete
// variants are Leaf, Sequence and ParallelGroup; all of them share the same
// invocation contract so a composition tree is uniformly invokable
// regardless of depth or shape.
type Task interface {
	// ID returns the task's identifier, used to localize failures and to
	// label lifecycle events.
	ID() string
	// Invoke executes the unit of work exactly once for the given input.
	// A nil cfg is treated as NewConfig().
	Invoke(ctx context.Context, input any, cfg *Config) (any, error)
	// Stream produces a finite sequence of partial outputs. The channel is
	// closed when the stream is exhausted. The default behavior is a single
	// chunk holding the Invoke result; composites may emit intermediate
	// states.
	Stream(ctx context.Context, input any, cfg *Config) (<-chan Chunk, error)
	// Batch invokes the task once per input, concurrently, returning
	// results in input order. A single failing element fails the whole
	// batch.
	Batch(ctx context.Context, inputs []any, cfg *Config) ([]any, error)
	// Pipe returns a two-element Sequence of this task followed by next.
	Pipe(next Task) *Sequence
}

// executeFunc is the concrete work of a task variant. The lifecycle
// wrapping around it is identical for every variant.
type executeFunc func(ctx context.Context, input any, cfg *Config) (any, error)

// invokeTask wraps a variant's execute with the uniform lifecycle: notify
// start, execute, then notify end with the result or notify error and
// return the failure unchanged.
func invokeTask(ctx context.Context, t Task, input any, cfg *Config, execute executeFunc) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = NewConfig()
	}
	execID, err := core.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to start execution: %w", err)
	}
	lifecycle := NewLifecycle(cfg.callbacks)
	event := &Event{
		TaskID:   t.ID(),
		ExecID:   execID,
		Input:    input,
		Metadata: cfg.Metadata(),
		Tags:     cfg.Tags(),
	}
	lifecycle.NotifyStart(ctx, event)
	output, err := execute(ctx, input, cfg)
	if err != nil {
		errEvent := *event
		errEvent.Err = err
		lifecycle.NotifyError(ctx, &errEvent)
		return nil, err
	}
	endEvent := *event
	endEvent.Output = output
	lifecycle.NotifyEnd(ctx, &endEvent)
	return output, nil
}

// Pipe composes two tasks into a Sequence without construction-time
// validation; both tasks are known to be valid. Decorator packages use it
// to keep their wrappers composable.
func Pipe(first Task, next Task) *Sequence {
	return &Sequence{
		id:       fmt.Sprintf("%s->%s", first.ID(), next.ID()),
		children: []Task{first, next},
	}
}

// SingleStream implements the default Stream contract: one chunk carrying
// the final Invoke result, then close. An Invoke failure surfaces as a
// terminal error chunk.
func SingleStream(ctx context.Context, t Task, input any, cfg *Config) (<-chan Chunk, error) {
	ch := make(chan Chunk, 1)
	go func() {
		defer close(ch)
		output, err := t.Invoke(ctx, input, cfg)
		if err != nil {
			ch <- Chunk{Err: err}
			return
		}
		select {
		case ch <- Chunk{Value: output}:
		case <-ctx.Done():
		}
	}()
	return ch, nil
}

// BatchEach implements the default Batch contract: one Invoke per input,
// run concurrently, joined with wait-for-all semantics. Results keep input
// order regardless of completion order; the first failure fails the batch.
func BatchEach(ctx context.Context, t Task, inputs []any, cfg *Config) ([]any, error) {
	if len(inputs) == 0 {
		return []any{}, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	results := make([]any, len(inputs))
	for i := range inputs {
		g.Go(func() error {
			output, err := t.Invoke(gctx, inputs[i], cfg)
			if err != nil {
				return err
			}
			results[i] = output
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
