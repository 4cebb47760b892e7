package tool

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/taskpipe/taskpipe/engine/task"
)

// Executor is the narrow tool contract the composition core consumes:
// given a name and arguments, asynchronously return a result or fail.
type Executor interface {
	Execute(ctx context.Context, name string, args map[string]any) (any, error)
}

// Func is a single tool implementation.
type Func func(ctx context.Context, args map[string]any) (any, error)

// Registry is a name-keyed set of tool funcs. It implements Executor.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Func
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Func)}
}

func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return fmt.Errorf("tool requires a name")
	}
	if fn == nil {
		return fmt.Errorf("tool %q requires a function", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q is already registered", name)
	}
	r.tools[name] = fn
	return nil
}

func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	fn, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tool %q is not registered", name)
	}
	return fn(ctx, args)
}

// Names returns registered tool names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExecTask wraps one named tool as a leaf task. The task's input must be
// the tool's argument map (nil for no arguments).
func ExecTask(id string, exec Executor, name string) (*task.Leaf, error) {
	if exec == nil {
		return nil, fmt.Errorf("exec task %q requires an executor", id)
	}
	if name == "" {
		return nil, fmt.Errorf("exec task %q requires a tool name", id)
	}
	return task.NewLeaf(id, func(ctx context.Context, input any, _ *task.Config) (any, error) {
		var args map[string]any
		switch v := input.(type) {
		case nil:
		case map[string]any:
			args = v
		default:
			return nil, fmt.Errorf("exec task %q expects map arguments, got %T", id, input)
		}
		return exec.Execute(ctx, name, args)
	})
}
