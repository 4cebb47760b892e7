package core

import "fmt"

// -----------------------------------------------------------------------------
// ConfigurationError
// -----------------------------------------------------------------------------

// ConfigurationError reports malformed composition input. It is always raised
// at construction time, never at invocation time.
type ConfigurationError struct {
	Reason string
}

func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// -----------------------------------------------------------------------------
// ExecutionError
// -----------------------------------------------------------------------------

// ExecutionError wraps a child task failure with the identity of the failing
// node, so a caller can localize the fault without re-deriving the tree.
// Step is -1 unless the failure happened at a positional step of a sequence;
// Branch is empty unless it happened on a named parallel branch.
type ExecutionError struct {
	TaskID string
	Step   int
	Branch string
	Err    error
}

func NewStepError(taskID string, step int, err error) *ExecutionError {
	return &ExecutionError{TaskID: taskID, Step: step, Branch: "", Err: err}
}

func NewBranchError(taskID string, branch string, err error) *ExecutionError {
	return &ExecutionError{TaskID: taskID, Step: -1, Branch: branch, Err: err}
}

func (e *ExecutionError) Error() string {
	switch {
	case e.Branch != "":
		return fmt.Sprintf("branch %q (task %s) failed: %v", e.Branch, e.TaskID, e.Err)
	case e.Step >= 0:
		return fmt.Sprintf("step %d (task %s) failed: %v", e.Step, e.TaskID, e.Err)
	default:
		return fmt.Sprintf("task %s failed: %v", e.TaskID, e.Err)
	}
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// -----------------------------------------------------------------------------
// RecursionLimitError
// -----------------------------------------------------------------------------

// RecursionLimitError reports that a config derivation would exceed the
// composition depth budget.
type RecursionLimitError struct {
	Limit int
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("recursion limit of %d exceeded", e.Limit)
}

// -----------------------------------------------------------------------------
// CallbackError
// -----------------------------------------------------------------------------

// CallbackError wraps a failure inside a lifecycle handler. It is reported by
// the lifecycle notifier and never escalated to the primary execution.
type CallbackError struct {
	Hook string
	Err  error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback %s failed: %v", e.Hook, e.Err)
}

func (e *CallbackError) Unwrap() error {
	return e.Err
}
