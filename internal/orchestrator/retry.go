package orchestrator

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy controls the tool-execution retry manager. Zero value uses
// the documented defaults: 500ms initial interval, 2x multiplier, 10s cap,
// 3 retries.
type RetryPolicy struct {
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration
	MaxRetries      int
}

func (p RetryPolicy) newBackoff(ctx context.Context) backoff.BackOff {
	initial := p.InitialInterval
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	mult := p.Multiplier
	if mult <= 0 {
		mult = 2
	}
	maxInterval := p.MaxInterval
	if maxInterval <= 0 {
		maxInterval = 10 * time.Second
	}
	maxRetries := p.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.Multiplier = mult
	b.MaxInterval = maxInterval
	b.MaxElapsedTime = 0 // bounded by MaxRetries instead of a wall-clock cap

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx)
}

// retriablePattern matches error strings considered transient: connection
// and network-level failures, plus HTTP 500-504.
var retriablePattern = regexp.MustCompile(`(?i)connection|timeout|network|dns|reset|refused|\b50[0-4]\b`)

// nonRetriablePattern matches error strings explicitly not worth retrying,
// checked before retriablePattern so e.g. "connection refused: invalid
// request" still counts as non-retriable.
var nonRetriablePattern = regexp.MustCompile(`(?i)\b4\d\d\b|429|rate.?limit|invalid|validation|malformed`)

func isRetriable(errText string) bool {
	if nonRetriablePattern.MatchString(errText) {
		return false
	}
	return retriablePattern.MatchString(errText)
}

// executeWithRetry runs call through o.Executor, retrying transient
// failures per o.Retry. A non-retriable or exhausted failure is returned as
// an error so the caller can fold it into a "Error: ..." tool result.
func (o *Orchestrator) executeWithRetry(ctx context.Context, call ToolCall) (string, error) {
	b := o.Retry.newBackoff(ctx)

	for {
		out, err := o.Executor.Execute(ctx, call)
		if err == nil {
			return out, nil
		}
		if !isRetriable(err.Error()) {
			return "", err
		}

		next := b.NextBackOff()
		if next == backoff.Stop {
			return "", fmt.Errorf("%w (retries exhausted)", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(next):
		}
	}
}
