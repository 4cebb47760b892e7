package task

import (
	"context"
	"fmt"

	"github.com/taskpipe/taskpipe/engine/core"
	"github.com/taskpipe/taskpipe/pkg/logger"
)

// Event carries the observable state of one lifecycle notification.
type Event struct {
	TaskID   string
	ExecID   core.ID
	Input    any
	Output   any
	Err      error
	Metadata map[string]any
	Tags     []string
}

// Handler observes task lifecycle events. Handlers run strictly in
// registration order; a handler's error or panic is reported and discarded,
// never propagated into the primary execution.
type Handler interface {
	OnStart(ctx context.Context, event *Event) error
	OnEnd(ctx context.Context, event *Event) error
	OnError(ctx context.Context, event *Event) error
}

// NoopHandler implements Handler with no-ops, for embedding in handlers
// that only care about a subset of hooks.
type NoopHandler struct{}

func (NoopHandler) OnStart(context.Context, *Event) error { return nil }
func (NoopHandler) OnEnd(context.Context, *Event) error   { return nil }
func (NoopHandler) OnError(context.Context, *Event) error { return nil }

// Lifecycle fans lifecycle notifications out to an ordered handler list.
// It holds the list by reference and never mutates it.
type Lifecycle struct {
	handlers []Handler
}

func NewLifecycle(handlers []Handler) *Lifecycle {
	return &Lifecycle{handlers: handlers}
}

func (l *Lifecycle) NotifyStart(ctx context.Context, event *Event) {
	l.notify(ctx, "on_start", event, func(h Handler) error {
		return h.OnStart(ctx, event)
	})
}

func (l *Lifecycle) NotifyEnd(ctx context.Context, event *Event) {
	l.notify(ctx, "on_end", event, func(h Handler) error {
		return h.OnEnd(ctx, event)
	})
}

func (l *Lifecycle) NotifyError(ctx context.Context, event *Event) {
	l.notify(ctx, "on_error", event, func(h Handler) error {
		return h.OnError(ctx, event)
	})
}

// notify runs one hook on every handler in registration order. A failing
// handler never prevents subsequent handlers from running.
func (l *Lifecycle) notify(ctx context.Context, hook string, event *Event, call func(Handler) error) {
	log := logger.FromContext(ctx)
	for _, handler := range l.handlers {
		if err := l.safeCall(handler, call); err != nil {
			cbErr := &core.CallbackError{Hook: hook, Err: err}
			log.Warn("lifecycle handler failed",
				"hook", hook,
				"task_id", event.TaskID,
				"exec_id", event.ExecID.String(),
				"error", cbErr,
			)
		}
	}
}

func (l *Lifecycle) safeCall(handler Handler, call func(Handler) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return call(handler)
}
