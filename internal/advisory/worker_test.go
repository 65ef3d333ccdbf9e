package advisory

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

type mockFetcher struct {
	runs chan struct{}
}

func (m *mockFetcher) FetchOnce(ctx context.Context) (int, error) {
	m.runs <- struct{}{}
	return 0, nil
}

func TestWorker_RunsImmediatelyAndOnTick(t *testing.T) {
	fetcher := &mockFetcher{runs: make(chan struct{}, 10)}
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	worker := NewWorker(fetcher, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx, 10*time.Millisecond)
		close(done)
	}()

	// 起動直後の1回 + ティックによる1回以上
	for i := 0; i < 2; i++ {
		select {
		case <-fetcher.runs:
		case <-time.After(2 * time.Second):
			t.Fatalf("fetch run %d did not happen in time", i+1)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

func TestNextDelay_Backoff(t *testing.T) {
	interval := time.Hour

	tests := []struct {
		failures int
		want     time.Duration
	}{
		{0, time.Hour},
		{1, 2 * time.Hour},
		{2, 4 * time.Hour},
		{3, 8 * time.Hour},
		{4, maxBackoff},
		{10, maxBackoff},
	}

	for _, tt := range tests {
		if got := nextDelay(interval, tt.failures); got != tt.want {
			t.Errorf("nextDelay(1h, %d) = %v, want %v", tt.failures, got, tt.want)
		}
	}
}

func TestWorker_ResetsFailureCountOnSuccess(t *testing.T) {
	calls := 0
	fetcher := &fnFetcher{fn: func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, context.DeadlineExceeded
		}
		return 1, nil
	}}
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	worker := NewWorker(fetcher, logger)

	ctx := context.Background()
	worker.runOnce(ctx)
	if worker.consecutiveFailures != 1 {
		t.Fatalf("consecutiveFailures = %d, want 1", worker.consecutiveFailures)
	}

	worker.runOnce(ctx)
	if worker.consecutiveFailures != 0 {
		t.Errorf("consecutiveFailures = %d, want 0 after success", worker.consecutiveFailures)
	}
}

type fnFetcher struct {
	fn func(ctx context.Context) (int, error)
}

func (f *fnFetcher) FetchOnce(ctx context.Context) (int, error) {
	return f.fn(ctx)
}
