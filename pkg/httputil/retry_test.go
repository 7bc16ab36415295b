package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	transient := errors.New("transient")
	fatal := errors.New("fatal")

	tests := []struct {
		name     string
		attempts int
		results  []error
		want     error
		calls    int
	}{
		{"success", 3, []error{nil}, nil, 1},
		{"fatal stops", 3, []error{fatal}, fatal, 1},
		{"recovers", 3, []error{&RetryableError{transient}, nil}, nil, 2},
		{"exhausted", 2, []error{&RetryableError{transient}, &RetryableError{transient}}, transient, 2},
		{"zero attempts runs once", 0, []error{fatal}, fatal, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				err := tt.results[calls]
				calls++
				return err
			})
			if err != tt.want {
				t.Errorf("Retry() = %v, want %v", err, tt.want)
			}
			if calls != tt.calls {
				t.Errorf("calls = %d, want %d", calls, tt.calls)
			}
		})
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Hour, func() error {
		return &RetryableError{errors.New("transient")}
	})
	if err != context.Canceled {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}
