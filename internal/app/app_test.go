package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type fakeServer struct {
	err     error
	started chan struct{}
}

func (f *fakeServer) Run(ctx context.Context) error {
	close(f.started)
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return nil
}

func TestAppRun(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("graceful", func(t *testing.T) {
		t.Parallel()

		sched, err := NewScheduler(log, nil, nil)
		if err != nil {
			t.Fatalf("NewScheduler() error = %v", err)
		}
		srv := &fakeServer{started: make(chan struct{})}
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- New(log, srv, sched, nil).Run(ctx) }()

		<-srv.started
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run() error = %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Run() did not return after cancellation")
		}
	})

	t.Run("component failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("address in use")
		srv := &fakeServer{err: boom, started: make(chan struct{})}
		if err := New(log, srv, nil, nil).Run(context.Background()); !errors.Is(err, boom) {
			t.Errorf("Run() error = %v, want %v", err, boom)
		}
	})
}
