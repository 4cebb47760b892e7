package decorator

import (
	"context"
	"time"

	"github.com/taskpipe/taskpipe/engine/task"
	"github.com/taskpipe/taskpipe/pkg/logger"
)

// Logging wraps t so each Invoke logs its start, duration and outcome via
// the context logger.
func Logging(t task.Task) task.Task {
	return wrap(t, func(ctx context.Context, input any, cfg *task.Config) (any, error) {
		log := logger.FromContext(ctx).With("task_id", t.ID())
		log.Debug("task starting")
		start := time.Now()
		output, err := t.Invoke(ctx, input, cfg)
		duration := time.Since(start)
		if err != nil {
			log.Error("task failed", "duration", duration, "error", err)
			return nil, err
		}
		log.Info("task completed", "duration", duration)
		return output, nil
	})
}
