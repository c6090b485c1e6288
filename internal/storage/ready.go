package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrNotReady is returned by WaitReady when the database never answered the
// liveness query within the retry budget.
var ErrNotReady = errors.New("storage: database not ready")

// Readiness is the outcome of a readiness probe.
type Readiness int

const (
	Exhausted Readiness = iota
	Ready
)

func (r Readiness) String() string {
	if r == Ready {
		return "ready"
	}
	return "exhausted"
}

// RetryPolicy bounds WaitReady: Attempts probes spaced Delay apart.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy is 30 probes, 3s apart.
var DefaultRetryPolicy = RetryPolicy{Attempts: 30, Delay: 3 * time.Second}

// Pinger is the part of Repository WaitReady needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WaitReady probes p until it answers or the policy is exhausted. On
// exhaustion it returns Exhausted and an error wrapping ErrNotReady and the
// last probe error. A canceled ctx stops the loop early with ctx.Err().
func WaitReady(ctx context.Context, p Pinger, policy RetryPolicy) (Readiness, error) {
	if policy.Attempts <= 0 {
		policy.Attempts = 1
	}

	var b backoff.BackOff = backoff.NewConstantBackOff(policy.Delay)
	b = backoff.WithMaxRetries(b, uint64(policy.Attempts-1))
	b = backoff.WithContext(b, ctx)

	attempt := 0
	op := func() error {
		attempt++
		return p.Ping(ctx)
	}
	notify := func(err error, next time.Duration) {
		log.Printf("db not ready (attempt %d/%d): %v; retrying in %s", attempt, policy.Attempts, err, next)
	}

	err := backoff.RetryNotify(op, b, notify)
	if err == nil {
		return Ready, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Exhausted, ctxErr
	}
	return Exhausted, fmt.Errorf("%w after %d attempts: %w", ErrNotReady, attempt, err)
}
