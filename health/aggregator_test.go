package health

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"
	"time"
)

func fixed(name string, status Status) Checker {
	return CheckerFunc(name, func(context.Context) Result {
		return Result{Status: status, Message: name}
	})
}

func TestAggregator_CheckAll(t *testing.T) {
	tests := []struct {
		name     string
		checkers []Checker
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Checker{fixed("a", StatusHealthy), fixed("b", StatusHealthy)}, StatusHealthy},
		{"one degraded", []Checker{fixed("a", StatusHealthy), fixed("b", StatusDegraded)}, StatusDegraded},
		{"unhealthy wins", []Checker{fixed("a", StatusDegraded), fixed("b", StatusUnhealthy)}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator(AggregatorConfig{})
			agg.Register(tt.checkers...)

			report := agg.CheckAll(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.checkers) {
				t.Errorf("len(Checks) = %d, want %d", len(report.Checks), len(tt.checkers))
			}
			for _, c := range tt.checkers {
				if report.Checks[c.Name()].Timestamp.IsZero() {
					t.Errorf("check %q has no timestamp", c.Name())
				}
			}
		})
	}
}

func TestAggregator_RegisterReplaces(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register(fixed("a", StatusUnhealthy), fixed("b", StatusHealthy))
	agg.Register(fixed("a", StatusHealthy))

	if got := agg.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v, want [a b]", got)
	}
	if report := agg.CheckAll(context.Background()); report.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", report.Status)
	}
}

func TestAggregator_Timeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 20 * time.Millisecond})
	agg.Register(CheckerFunc("slow", func(ctx context.Context) Result {
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
		}
		return Healthy("late")
	}))

	report := agg.CheckAll(context.Background())
	got := report.Checks["slow"]
	if got.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", got.Status)
	}
	if !errors.Is(got.Err, ErrCheckTimeout) {
		t.Errorf("Err = %v, want ErrCheckTimeout", got.Err)
	}
}

func TestAggregator_RunsConcurrently(t *testing.T) {
	var running, peak atomic.Int32
	block := func(name string) Checker {
		return CheckerFunc(name, func(context.Context) Result {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			running.Add(-1)
			return Healthy("ok")
		})
	}

	agg := NewAggregator(AggregatorConfig{})
	agg.Register(block("a"), block("b"), block("c"))
	agg.CheckAll(context.Background())

	if peak.Load() < 2 {
		t.Errorf("peak concurrency = %d, want >= 2", peak.Load())
	}
}

func TestAggregator_Check(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register(fixed("a", StatusDegraded))

	got, err := agg.Check(context.Background(), "a")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if got.Status != StatusDegraded {
		t.Errorf("Status = %v, want degraded", got.Status)
	}

	if _, err := agg.Check(context.Background(), "missing"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("Check(missing) error = %v, want ErrCheckerNotFound", err)
	}
}
