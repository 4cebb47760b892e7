package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpipe/taskpipe/engine/core"
)

func TestExecutionError(t *testing.T) {
	t.Run("Should identify a failing sequence step", func(t *testing.T) {
		cause := errors.New("boom")
		err := core.NewStepError("add-one", 1, cause)
		assert.Contains(t, err.Error(), "step 1")
		assert.Contains(t, err.Error(), "add-one")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Should identify a failing parallel branch", func(t *testing.T) {
		cause := errors.New("boom")
		err := core.NewBranchError("kw", "keywords", cause)
		assert.Contains(t, err.Error(), `branch "keywords"`)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Should unwrap to the original cause through wrapping", func(t *testing.T) {
		cause := errors.New("root cause")
		wrapped := fmt.Errorf("outer: %w", core.NewStepError("t", 0, cause))
		var execErr *core.ExecutionError
		require.ErrorAs(t, wrapped, &execErr)
		assert.Equal(t, 0, execErr.Step)
		assert.ErrorIs(t, wrapped, cause)
	})
}

func TestRecursionLimitError(t *testing.T) {
	t.Run("Should report the exhausted limit", func(t *testing.T) {
		err := &core.RecursionLimitError{Limit: 25}
		assert.Contains(t, err.Error(), "25")
	})
}

func TestConfigurationError(t *testing.T) {
	t.Run("Should format the reason", func(t *testing.T) {
		err := core.NewConfigurationError("branch %q is nil", "summary")
		assert.Contains(t, err.Error(), `branch "summary" is nil`)
	})
}

func TestCallbackError(t *testing.T) {
	t.Run("Should name the hook and unwrap the cause", func(t *testing.T) {
		cause := errors.New("handler blew up")
		err := &core.CallbackError{Hook: "on_start", Err: cause}
		assert.Contains(t, err.Error(), "on_start")
		assert.ErrorIs(t, err, cause)
	})
}
