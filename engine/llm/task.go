package llm

import (
	"context"
	"fmt"

	"github.com/taskpipe/taskpipe/engine/task"
)

// GenerateTask wraps a Client as a leaf task so model calls compose like
// any other unit of work. The task's input must be the prompt string; its
// output is the final generated text.
func GenerateTask(id string, client Client, opts *GenerateOptions) (*task.Leaf, error) {
	if client == nil {
		return nil, fmt.Errorf("generate task %q requires a client", id)
	}
	return task.NewLeaf(id, func(ctx context.Context, input any, _ *task.Config) (any, error) {
		prompt, ok := input.(string)
		if !ok {
			return nil, fmt.Errorf("generate task %q expects a string prompt, got %T", id, input)
		}
		return client.Generate(ctx, prompt, opts)
	})
}
