package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

var (
	ErrMaxAttemptsExceeded = errors.New("max retry attempts exceeded")
	ErrContextCanceled     = errors.New("context canceled during retry")
)

// Config controls the backoff schedule.
type Config struct {
	// MaxRetries is the number of retries after the initial attempt
	// (0 = single attempt, no retries).
	MaxRetries int
	// InitialInterval is the first backoff interval (default: 1s).
	InitialInterval time.Duration
	// MaxInterval caps the backoff interval (default: 30s).
	MaxInterval time.Duration
	// Multiplier scales the interval after each retry (default: 2.0).
	Multiplier float64
	// JitterFactor (0-1) randomizes the interval by ±factor (default: 0).
	JitterFactor float64
}

// DefaultConfig returns the default schedule: 1s, 2s, 4s with three retries.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:      3,
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
	}
}

// Operation is the function to be retried.
type Operation func(ctx context.Context) error

// PermanentError marks an error that must not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the retrier gives up immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err carries a PermanentError.
func IsPermanent(err error) bool {
	var perm *PermanentError
	return errors.As(err, &perm)
}

// Result reports the outcome of a retried operation.
type Result struct {
	// Err is nil on success, otherwise ErrMaxAttemptsExceeded,
	// ErrContextCanceled, or the unwrapped permanent error.
	Err error
	// Attempts is the total number of attempts made, including the first.
	Attempts int
	// LastError is the error from the final attempt.
	LastError error
}

// Retrier executes operations with exponential backoff.
type Retrier struct {
	config *Config
}

// New creates a Retrier, applying defaults for zero-valued fields.
func New(config *Config) *Retrier {
	if config == nil {
		config = DefaultConfig()
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = time.Second
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = 30 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.JitterFactor < 0 {
		config.JitterFactor = 0
	}
	if config.JitterFactor > 1 {
		config.JitterFactor = 1
	}
	return &Retrier{config: config}
}

// Do runs op until it succeeds, returns a permanent error, or the retry
// budget is exhausted.
func (r *Retrier) Do(ctx context.Context, op Operation) *Result {
	result := &Result{}
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		result.Attempts = attempt + 1

		if ctx.Err() != nil {
			result.Err = ErrContextCanceled
			result.LastError = lastErr
			return result
		}

		err := op(ctx)
		if err == nil {
			return result
		}
		lastErr = err

		var perm *PermanentError
		if errors.As(err, &perm) {
			result.Err = perm.Err
			result.LastError = perm.Err
			return result
		}

		if attempt == r.config.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			result.Err = ErrContextCanceled
			result.LastError = lastErr
			return result
		case <-time.After(r.interval(attempt)):
		}
	}

	result.Err = ErrMaxAttemptsExceeded
	result.LastError = lastErr
	return result
}

// interval computes the backoff delay for a zero-based attempt index.
func (r *Retrier) interval(attempt int) time.Duration {
	d := float64(r.config.InitialInterval) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.JitterFactor > 0 {
		jitter := d * r.config.JitterFactor
		d += (rand.Float64()*2 - 1) * jitter
	}
	if d > float64(r.config.MaxInterval) {
		d = float64(r.config.MaxInterval)
	}
	if d < 0 {
		d = float64(r.config.InitialInterval)
	}
	return time.Duration(d)
}

// Do is a convenience wrapper around New(config).Do.
func Do(ctx context.Context, config *Config, op Operation) *Result {
	return New(config).Do(ctx, op)
}
