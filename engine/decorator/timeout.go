package decorator

import (
	"context"
	"time"

	"github.com/taskpipe/taskpipe/engine/task"
)

// Timeout wraps t so each Invoke runs under its own deadline. The wrapped
// task must honor context cancellation for the deadline to take effect.
func Timeout(t task.Task, timeout time.Duration) task.Task {
	return wrap(t, func(ctx context.Context, input any, cfg *task.Config) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return t.Invoke(ctx, input, cfg)
	})
}
