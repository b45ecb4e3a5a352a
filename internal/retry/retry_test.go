package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var errTransient = errors.New("connection reset")

func fastPolicy(maxAttempts int) Policy {
	return Policy{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      2,
		MaxAttempts:     maxAttempts,
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_retries_total"}, []string{"operation"})
	r := New(fastPolicy(0), nil, WithCounter(counter))

	calls := 0
	err := r.Do(context.Background(), "load", func(context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("load")); got != 2 {
		t.Errorf("retries = %f, want 2", got)
	}
}

func TestDo_MaxAttempts(t *testing.T) {
	r := New(fastPolicy(3), nil)

	calls := 0
	err := r.Do(context.Background(), "fetch", func(context.Context) error {
		calls++
		return errTransient
	})
	if !errors.Is(err, errTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	errBadRow := errors.New("bad row")
	r := New(fastPolicy(0), nil, WithPermanent(func(err error) bool { return errors.Is(err, errBadRow) }))

	calls := 0
	err := r.Do(context.Background(), "transform", func(context.Context) error {
		calls++
		return errBadRow
	})
	if !errors.Is(err, errBadRow) {
		t.Fatalf("expected errBadRow, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDo_ExplicitPermanent(t *testing.T) {
	r := New(fastPolicy(0), nil)

	calls := 0
	err := r.Do(context.Background(), "visit", func(context.Context) error {
		calls++
		return Permanent(errTransient)
	})
	if !errors.Is(err, errTransient) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	r := New(fastPolicy(0), nil)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := r.Do(ctx, "detect", func(context.Context) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errTransient
	})
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestDo_ErrorNamesOperation(t *testing.T) {
	r := New(fastPolicy(1), nil)
	err := r.Do(context.Background(), "watermark read", func(context.Context) error { return errTransient })
	if err == nil || err.Error() != "watermark read: connection reset" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.MaxAttempts != 0 {
		t.Errorf("default policy must be unbounded, got %d", p.MaxAttempts)
	}
	if p.MaxInterval < p.InitialInterval {
		t.Errorf("max interval %v below initial %v", p.MaxInterval, p.InitialInterval)
	}
}
