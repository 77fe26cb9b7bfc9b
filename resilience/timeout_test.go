package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewTimeout_Default(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{})

	if timeout.Config().Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", timeout.Config().Timeout)
	}
}

func TestTimeout_Execute(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		timeout time.Duration
		op      func(context.Context) error
		wantErr error
	}{
		{
			name:    "success",
			timeout: time.Second,
			op:      func(context.Context) error { return nil },
		},
		{
			name:    "error passes through",
			timeout: time.Second,
			op:      func(context.Context) error { return boom },
			wantErr: boom,
		},
		{
			name:    "deadline exceeded",
			timeout: 20 * time.Millisecond,
			op: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			wantErr: ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ExecuteWithTimeout(context.Background(), tt.timeout, tt.op)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Execute() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Execute() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeout_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ExecuteWithTimeout(ctx, time.Second, func(ctx context.Context) error {
		return ctx.Err()
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("parent cancellation must not be reported as a timeout")
	}
}
