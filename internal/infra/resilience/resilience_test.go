package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ambi1303/Multi-Model-sub001/internal/infra/resilience"
)

func TestRetryPolicy_Disabled_SingleAttempt(t *testing.T) {
	p := resilience.RetryPolicy{}

	callCount := 0
	err := p.Do(context.Background(), func() error {
		callCount++
		return errors.New("backend down")
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if callCount != 1 {
		t.Errorf("disabled policy must attempt exactly once, got %d", callCount)
	}
}

func TestRetryPolicy_RetriesOnFailure(t *testing.T) {
	p := resilience.RetryPolicy{MaxRetries: 3, InitialBackoff: 10 * time.Millisecond}

	callCount := 0
	err := p.Do(context.Background(), func() error {
		callCount++
		if callCount < 3 {
			return errors.New("temporary error")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestRetryPolicy_ExhaustsRetries(t *testing.T) {
	p := resilience.RetryPolicy{MaxRetries: 2, InitialBackoff: 10 * time.Millisecond}

	callCount := 0
	err := p.Do(context.Background(), func() error {
		callCount++
		return errors.New("persistent error")
	})

	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestRetryPolicy_RespectsContext(t *testing.T) {
	p := resilience.RetryPolicy{MaxRetries: 5, InitialBackoff: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Do(ctx, func() error {
		return errors.New("error")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBulkhead_LimitsConcurrency(t *testing.T) {
	b := resilience.NewBulkhead(1)

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("first acquire should succeed, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := b.Acquire(ctx); err == nil {
		t.Fatal("second acquire should block until timeout")
	}

	b.Release()
	if err := b.Acquire(context.Background()); err != nil {
		t.Errorf("acquire after release should succeed, got %v", err)
	}
}
