package resilience

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/curamai/sitesearch/internal/core/domain"
)

func retryingConfig(attempts int) Config {
	return Config{
		RetryMaxAttempts:    attempts,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}
}

func TestDefaultConfigMakesSingleAttempt(t *testing.T) {
	exec := NewExecutor(Config{})
	attempts := 0
	err := exec.Execute(context.Background(), "blog.search", func(context.Context) error {
		attempts++
		return &HTTPStatusError{StatusCode: http.StatusServiceUnavailable}
	}, ClassifyHTTP)
	if err == nil {
		t.Fatalf("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestExecuteRetriesTemporaryFailure(t *testing.T) {
	exec := NewExecutor(retryingConfig(3))

	attempts := 0
	errTemp := errors.New("temporary")
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
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
	exec := NewExecutor(retryingConfig(3))

	attempts := 0
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		return &HTTPStatusError{StatusCode: http.StatusNotFound, Status: "404 Not Found"}
	}, ClassifyHTTP)

	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected status error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestCallReturnsValue(t *testing.T) {
	exec := NewExecutor(retryingConfig(2))

	attempts := 0
	got, err := Call(context.Background(), exec, "op", func(context.Context) ([]string, error) {
		attempts++
		if attempts == 1 {
			return nil, &HTTPStatusError{StatusCode: http.StatusBadGateway}
		}
		return []string{"post"}, nil
	}, ClassifyHTTP)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(got) != 1 || got[0] != "post" {
		t.Fatalf("unexpected value %v", got)
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     time.Millisecond,
		RetryMaxBackoff:         time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	})

	errDown := errors.New("blog down")
	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "op", func(context.Context) error {
			return errDown
		}, nil)
		if !errors.Is(err, errDown) {
			t.Fatalf("expected failure on iteration %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	}, nil)
	if !errors.Is(err, gobreaker.ErrOpenState) || !IsCircuitOpen(err) {
		t.Fatalf("expected open state error, got %v", err)
	}
}

func TestCancelledCallsDoNotTripBreaker(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:   1,
		BreakerEnabled:     true,
		BreakerMinRequests: 1,
	})

	for i := 0; i < 3; i++ {
		err := exec.Execute(context.Background(), "op", func(context.Context) error {
			return context.Canceled
		}, ClassifyHTTP)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected cancellation, got %v", err)
		}
	}
	if err := exec.Execute(context.Background(), "op", func(context.Context) error { return nil }, ClassifyHTTP); err != nil {
		t.Fatalf("breaker must stay closed after cancellations, got %v", err)
	}
}

func TestBackoffIsCapped(t *testing.T) {
	cfg := Config{
		RetryInitialBackoff: 100 * time.Millisecond,
		RetryMaxBackoff:     250 * time.Millisecond,
		RetryMultiplier:     2,
	}
	cases := map[int]time.Duration{1: 100 * time.Millisecond, 2: 200 * time.Millisecond, 3: 250 * time.Millisecond}
	for retry, want := range cases {
		if got := cfg.backoff(retry); got != want {
			t.Fatalf("backoff(%d) = %s, want %s", retry, got, want)
		}
	}
}

func TestWrapUpstream(t *testing.T) {
	transient := WrapUpstream("blog.search", &HTTPStatusError{StatusCode: http.StatusServiceUnavailable})
	if !domain.IsKind(transient, domain.ErrTemporary) {
		t.Fatalf("expected temporary kind, got %v", transient)
	}
	permanent := WrapUpstream("blog.search", &HTTPStatusError{StatusCode: http.StatusForbidden})
	if !domain.IsKind(permanent, domain.ErrUpstream) {
		t.Fatalf("expected upstream kind, got %v", permanent)
	}
	if WrapUpstream("op", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}
