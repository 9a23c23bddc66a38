package resilience

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	DefaultRetries = 2
	DefaultDelay   = time.Second
)

// Policy configures Retry. The delay doubles after every failed attempt,
// without jitter or cap; budgets are expected to stay small.
type Policy struct {
	Retries int
	Delay   time.Duration
	Logger  *slog.Logger
	// OnRetry is called once per retry, before waiting.
	OnRetry func(operation string)
}

func DefaultPolicy() Policy {
	return Policy{Retries: DefaultRetries, Delay: DefaultDelay}
}

func (p Policy) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Retry runs fn and retries transient failures. fn is invoked at most
// Retries+1 times, and exactly once when its error is fatal. The last error
// is returned unchanged.
func Retry[T any](ctx context.Context, p Policy, operation string, fn func(context.Context) (T, error)) (T, error) {
	var result T

	retries := p.Retries
	if retries < 0 {
		retries = 0
	}
	delay := p.Delay
	if delay <= 0 {
		delay = time.Nanosecond
	}

	attempt := 0
	backoff := retry.WithMaxRetries(uint64(retries), retry.NewExponential(delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		v, err := fn(ctx)
		if err == nil {
			result = v
			return nil
		}
		if IsFatal(err) || attempt > retries {
			return err
		}
		p.logger().Warn("retrying remote call",
			"operation", operation,
			"attempt", attempt,
			"remaining", retries-attempt+1,
			"error", err,
		)
		if p.OnRetry != nil {
			p.OnRetry(operation)
		}
		return retry.RetryableError(err)
	})
	return result, err
}

// Do is Retry for operations without a result.
func Do(ctx context.Context, p Policy, operation string, fn func(context.Context) error) error {
	_, err := Retry(ctx, p, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
