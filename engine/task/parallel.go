package task

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/taskpipe/taskpipe/engine/core"
)

// Branch names one child of a ParallelGroup.
type Branch struct {
	Name string
	Task Task
}

// ParallelGroup fans the same input out to a fixed set of named child
// tasks and fans their results back into one core.Result keyed by branch
// name. Branch order is fixed at construction and determines result key
// order, independent of which branch finishes first.
type ParallelGroup struct {
	id       string
	names    []string
	branches map[string]Task
}

func NewParallelGroup(id string, branches ...Branch) (*ParallelGroup, error) {
	if id == "" {
		return nil, core.NewConfigurationError("parallel group requires an id")
	}
	if len(branches) == 0 {
		return nil, core.NewConfigurationError("parallel group %q requires at least one branch", id)
	}
	group := &ParallelGroup{
		id:       id,
		names:    make([]string, 0, len(branches)),
		branches: make(map[string]Task, len(branches)),
	}
	for _, branch := range branches {
		if branch.Name == "" {
			return nil, core.NewConfigurationError("parallel group %q has a branch with an empty name", id)
		}
		if branch.Task == nil {
			return nil, core.NewConfigurationError("parallel group %q branch %q is nil", id, branch.Name)
		}
		if _, exists := group.branches[branch.Name]; exists {
			return nil, core.NewConfigurationError("parallel group %q has duplicate branch %q", id, branch.Name)
		}
		group.names = append(group.names, branch.Name)
		group.branches[branch.Name] = branch.Task
	}
	return group, nil
}

func (p *ParallelGroup) ID() string {
	return p.id
}

// Names returns branch names in construction order.
func (p *ParallelGroup) Names() []string {
	names := make([]string, len(p.names))
	copy(names, p.names)
	return names
}

func (p *ParallelGroup) Invoke(ctx context.Context, input any, cfg *Config) (any, error) {
	return invokeTask(ctx, p, input, cfg, p.execute)
}

func (p *ParallelGroup) Batch(ctx context.Context, inputs []any, cfg *Config) ([]any, error) {
	return BatchEach(ctx, p, inputs, cfg)
}

func (p *ParallelGroup) Pipe(next Task) *Sequence {
	return Pipe(p, next)
}

func (p *ParallelGroup) execute(ctx context.Context, input any, cfg *Config) (any, error) {
	childCfgs, err := p.childConfigs(cfg)
	if err != nil {
		return nil, err
	}
	g, gctx := errgroup.WithContext(ctx)
	outputs := make([]any, len(p.names))
	for i, name := range p.names {
		child := p.branches[name]
		childCfg := childCfgs[i]
		g.Go(func() error {
			output, err := child.Invoke(gctx, input, childCfg)
			if err != nil {
				return core.NewBranchError(child.ID(), name, err)
			}
			outputs[i] = output
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result := core.NewResult()
	for i, name := range p.names {
		result.Set(name, outputs[i])
	}
	return result, nil
}

// childConfigs derives one config per branch up front, so a recursion
// budget failure surfaces before any branch starts.
func (p *ParallelGroup) childConfigs(cfg *Config) ([]*Config, error) {
	childCfgs := make([]*Config, len(p.names))
	for i := range p.names {
		childCfg, err := cfg.Child()
		if err != nil {
			return nil, err
		}
		childCfgs[i] = childCfg
	}
	return childCfgs, nil
}

// emitChunk sends without blocking; used after cancellation when the
// consumer may already be gone. The stream channel's one-slot buffer lets
// the terminal chunk be deposited for a consumer that drains later.
func emitChunk(ch chan<- Chunk, chunk Chunk) {
	select {
	case ch <- chunk:
	default:
	}
}

// settledBranch is one branch transitioning from pending to settled in the
// streaming state machine.
type settledBranch struct {
	name   string
	taskID string
	output any
	err    error
}

// Stream emits one snapshot of the accumulating result per branch, in
// completion order. Each snapshot is a fresh shallow copy, safe for the
// consumer to keep. The stream terminates when every branch has settled;
// a branch failure emits one terminal error chunk and aborts the stream.
// On cancellation the terminal chunk is delivered best-effort: it is
// dropped only when the consumer abandoned the stream with a prior chunk
// still undelivered.
func (p *ParallelGroup) Stream(ctx context.Context, input any, cfg *Config) (<-chan Chunk, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	childCfgs, err := p.childConfigs(cfg)
	if err != nil {
		return nil, err
	}
	ch := make(chan Chunk, 1)
	go func() {
		defer close(ch)
		settled := make(chan settledBranch, len(p.names))
		for i, name := range p.names {
			child := p.branches[name]
			childCfg := childCfgs[i]
			go func() {
				output, err := child.Invoke(ctx, input, childCfg)
				settled <- settledBranch{name: name, taskID: child.ID(), output: output, err: err}
			}()
		}
		accumulated := core.NewResult()
		for pending := len(p.names); pending > 0; pending-- {
			select {
			case <-ctx.Done():
				emitChunk(ch, Chunk{Err: ctx.Err()})
				return
			case branch := <-settled:
				if branch.err != nil {
					select {
					case ch <- Chunk{Err: core.NewBranchError(branch.taskID, branch.name, branch.err)}:
					case <-ctx.Done():
						emitChunk(ch, Chunk{Err: ctx.Err()})
					}
					return
				}
				accumulated.Set(branch.name, branch.output)
				select {
				case ch <- Chunk{Value: accumulated.Clone()}:
				case <-ctx.Done():
					emitChunk(ch, Chunk{Err: ctx.Err()})
					return
				}
			}
		}
	}()
	return ch, nil
}
