package task_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpipe/taskpipe/engine/task"
)

// recordingHandler appends hook names to a shared journal so handler
// ordering can be asserted across multiple handlers.
type recordingHandler struct {
	name    string
	journal *[]string
	fail    bool
	panics  bool
}

func (h *recordingHandler) record(hook string) error {
	*h.journal = append(*h.journal, h.name+":"+hook)
	if h.panics {
		panic("handler panic")
	}
	if h.fail {
		return errors.New("handler failure")
	}
	return nil
}

func (h *recordingHandler) OnStart(context.Context, *task.Event) error { return h.record("start") }
func (h *recordingHandler) OnEnd(context.Context, *task.Event) error   { return h.record("end") }
func (h *recordingHandler) OnError(context.Context, *task.Event) error { return h.record("error") }

func TestLifecycle_Ordering(t *testing.T) {
	t.Run("Should notify handlers in registration order", func(t *testing.T) {
		var journal []string
		first := &recordingHandler{name: "first", journal: &journal}
		second := &recordingHandler{name: "second", journal: &journal}
		lc := task.NewLifecycle([]task.Handler{first, second})

		lc.NotifyStart(t.Context(), &task.Event{TaskID: "t"})

		assert.Equal(t, []string{"first:start", "second:start"}, journal)
	})
}

func TestLifecycle_Isolation(t *testing.T) {
	t.Run("Should run later handlers when an earlier one fails", func(t *testing.T) {
		var journal []string
		failing := &recordingHandler{name: "failing", journal: &journal, fail: true}
		after := &recordingHandler{name: "after", journal: &journal}
		lc := task.NewLifecycle([]task.Handler{failing, after})

		lc.NotifyEnd(t.Context(), &task.Event{TaskID: "t"})

		assert.Equal(t, []string{"failing:end", "after:end"}, journal)
	})

	t.Run("Should absorb a panicking handler", func(t *testing.T) {
		var journal []string
		panicking := &recordingHandler{name: "panicking", journal: &journal, panics: true}
		after := &recordingHandler{name: "after", journal: &journal}
		lc := task.NewLifecycle([]task.Handler{panicking, after})

		require.NotPanics(t, func() {
			lc.NotifyError(t.Context(), &task.Event{TaskID: "t"})
		})
		assert.Equal(t, []string{"panicking:error", "after:error"}, journal)
	})
}

func TestLifecycle_WithInvoke(t *testing.T) {
	t.Run("Should not prevent execution when OnStart fails", func(t *testing.T) {
		var journal []string
		failing := &recordingHandler{name: "failing", journal: &journal, fail: true}
		cfg := task.NewConfig(task.WithCallbacks(failing))

		executed := false
		leaf := task.MustLeaf("probe", func(_ context.Context, input any, _ *task.Config) (any, error) {
			executed = true
			return input, nil
		})

		output, err := leaf.Invoke(t.Context(), "in", cfg)
		require.NoError(t, err)
		assert.True(t, executed)
		assert.Equal(t, "in", output)
		assert.Equal(t, []string{"failing:start", "failing:end"}, journal)
	})

	t.Run("Should fire OnError with the failure and no OnEnd", func(t *testing.T) {
		var journal []string
		observer := &recordingHandler{name: "observer", journal: &journal}
		cfg := task.NewConfig(task.WithCallbacks(observer))

		boom := errors.New("boom")
		leaf := task.MustLeaf("broken", func(context.Context, any, *task.Config) (any, error) {
			return nil, boom
		})

		_, err := leaf.Invoke(t.Context(), nil, cfg)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"observer:start", "observer:error"}, journal)
	})

	t.Run("Should expose task id and a fresh exec id per invocation", func(t *testing.T) {
		var events []*task.Event
		capture := task.MustLeaf("noop", func(_ context.Context, input any, _ *task.Config) (any, error) {
			return input, nil
		})
		handler := &eventCapture{events: &events}
		cfg := task.NewConfig(task.WithCallbacks(handler))

		_, err := capture.Invoke(t.Context(), 1, cfg)
		require.NoError(t, err)
		_, err = capture.Invoke(t.Context(), 2, cfg)
		require.NoError(t, err)

		require.Len(t, events, 2)
		assert.Equal(t, "noop", events[0].TaskID)
		assert.False(t, events[0].ExecID.IsZero())
		assert.NotEqual(t, events[0].ExecID, events[1].ExecID)
	})
}

type eventCapture struct {
	task.NoopHandler
	events *[]*task.Event
}

func (h *eventCapture) OnStart(_ context.Context, event *task.Event) error {
	*h.events = append(*h.events, event)
	return nil
}
