package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func fastPolicy() Policy {
	return Policy{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}
}

func TestExecuteRetriesTemporaryFailure(t *testing.T) {
	exec := NewExecutor(fastPolicy())

	attempts := 0
	errTemp := errors.New("nats: timeout")
	err := exec.Execute(context.Background(), "nats.publish", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errTemp
		}
		return nil
	}, func(err error) ErrorClassification {
		return ErrorClassification{Retryable: errors.Is(err, errTemp), RecordFailure: true}
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecuteDoesNotRetryPermanentFailure(t *testing.T) {
	exec := NewExecutor(fastPolicy())

	attempts := 0
	errPermanent := errors.New("access denied")
	err := exec.Execute(context.Background(), "minio.put", func(context.Context) error {
		attempts++
		return errPermanent
	}, nil)
	if !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestExecuteStopsRetryingWhenContextCancelled(t *testing.T) {
	policy := fastPolicy()
	policy.RetryInitialBackoff = time.Second
	policy.RetryMaxBackoff = time.Second
	exec := NewExecutor(policy)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	attempts := 0
	err := exec.Execute(ctx, "op", func(context.Context) error {
		attempts++
		return errors.New("retry me")
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: true, RecordFailure: true}
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected cancellation during backoff after 1 attempt, got %d", attempts)
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	exec := NewExecutor(Policy{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	})

	errTemp := errors.New("temporary")
	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "neo4j.link", func(context.Context) error {
			return errTemp
		}, nil)
		if !errors.Is(err, errTemp) {
			t.Fatalf("expected temporary error on iteration %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "neo4j.link", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	}, nil)
	if !errors.Is(err, gobreaker.ErrOpenState) || !IsCircuitOpen(err) {
		t.Fatalf("expected open state error, got %v", err)
	}
	states := exec.BreakerStates()
	if states["neo4j.link"] != "open" {
		t.Fatalf("expected open breaker, got %v", states)
	}
	if _, ok := states["other"]; ok {
		t.Fatalf("unexpected breaker for unused operation: %v", states)
	}
}

func TestCallReturnsValue(t *testing.T) {
	exec := NewExecutor(fastPolicy())
	got, err := Call(context.Background(), exec, "op", func(context.Context) (int, error) {
		return 42, nil
	}, nil)
	if err != nil || got != 42 {
		t.Fatalf("expected 42, got %d (%v)", got, err)
	}

	got, err = Call(context.Background(), nil, "op", func(context.Context) (int, error) {
		return 7, nil
	}, nil)
	if err != nil || got != 7 {
		t.Fatalf("expected nil executor passthrough, got %d (%v)", got, err)
	}
}

func TestJitterStaysWithinSpread(t *testing.T) {
	exec := NewExecutor(Policy{RetryJitter: 0.5, RetryInitialBackoff: time.Millisecond})
	for i := 0; i < 100; i++ {
		d := exec.jitter(100 * time.Millisecond)
		if d < 50*time.Millisecond || d > 150*time.Millisecond {
			t.Fatalf("jitter out of range: %v", d)
		}
	}
}
