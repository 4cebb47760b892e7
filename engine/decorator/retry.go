package decorator

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/taskpipe/taskpipe/engine/task"
)

const (
	defaultRetryAttempts = 3
	defaultBackoffBase   = 100 * time.Millisecond
	defaultBackoffMax    = 5 * time.Second
)

type RetryOptions struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries uint64
	// BackoffBase is the initial exponential backoff interval.
	BackoffBase time.Duration
	// BackoffMax caps the total time spent backing off.
	BackoffMax time.Duration
	// Jitter, when non-zero, randomizes each interval by up to this amount.
	Jitter time.Duration
}

// Retry wraps t so a failing Invoke is retried with exponential backoff.
// All failures are treated as retryable; permanent-vs-transient
// classification belongs to the wrapped task.
func Retry(t task.Task, opts *RetryOptions) task.Task {
	if opts == nil {
		opts = &RetryOptions{}
	}
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultRetryAttempts
	}
	backoffBase := opts.BackoffBase
	if backoffBase <= 0 {
		backoffBase = defaultBackoffBase
	}
	backoffMax := opts.BackoffMax
	if backoffMax <= 0 {
		backoffMax = defaultBackoffMax
	}
	return wrap(t, func(ctx context.Context, input any, cfg *task.Config) (any, error) {
		exponential := retry.NewExponential(backoffBase)
		exponential = retry.WithMaxDuration(backoffMax, exponential)
		var backoff retry.Backoff
		if opts.Jitter > 0 {
			backoff = retry.WithMaxRetries(maxRetries, retry.WithJitter(opts.Jitter, exponential))
		} else {
			backoff = retry.WithMaxRetries(maxRetries, exponential)
		}
		var output any
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			var invokeErr error
			output, invokeErr = t.Invoke(ctx, input, cfg)
			if invokeErr != nil {
				return retry.RetryableError(invokeErr)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return output, nil
	})
}
