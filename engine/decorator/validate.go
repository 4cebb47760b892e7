package decorator

import (
	"context"
	"fmt"

	"github.com/taskpipe/taskpipe/engine/schema"
	"github.com/taskpipe/taskpipe/engine/task"
)

// ValidateInput wraps t so each input is checked against s before the
// wrapped task runs. The schema is compiled once, when the wrapper is
// built; a compile failure surfaces on every Invoke.
func ValidateInput(t task.Task, s *schema.Schema) task.Task {
	validator, compileErr := s.Compile()
	return wrap(t, func(ctx context.Context, input any, cfg *task.Config) (any, error) {
		if compileErr != nil {
			return nil, fmt.Errorf("task %q input schema: %w", t.ID(), compileErr)
		}
		if err := validator.Validate(ctx, input); err != nil {
			return nil, fmt.Errorf("task %q input rejected: %w", t.ID(), err)
		}
		return t.Invoke(ctx, input, cfg)
	})
}

// ValidateOutput wraps t so each output is checked against s before it is
// returned to the caller.
func ValidateOutput(t task.Task, s *schema.Schema) task.Task {
	validator, compileErr := s.Compile()
	return wrap(t, func(ctx context.Context, input any, cfg *task.Config) (any, error) {
		if compileErr != nil {
			return nil, fmt.Errorf("task %q output schema: %w", t.ID(), compileErr)
		}
		output, err := t.Invoke(ctx, input, cfg)
		if err != nil {
			return nil, err
		}
		if err := validator.Validate(ctx, output); err != nil {
			return nil, fmt.Errorf("task %q output rejected: %w", t.ID(), err)
		}
		return output, nil
	})
}
