package promise

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGoResolvesWithFunctionResult(t *testing.T) {
	p := Go(context.Background(), DefaultScheduler(), func(context.Context) (int, error) {
		return 42, nil
	})

	r, err := p.Get(time.Second)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v, _ := r.Value(); v != 42 {
		t.Fatalf("value = %v, want 42", v)
	}
}

func TestGoResolvesWithFunctionError(t *testing.T) {
	wantErr := errors.New("boom")
	p := Go(context.Background(), DefaultScheduler(), func(context.Context) (int, error) {
		return 0, wantErr
	})

	r, err := p.Get(time.Second)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r.IsReturn() {
		t.Fatal("expected a failure")
	}
	if !errors.Is(r.Err(), wantErr) {
		t.Fatalf("err = %v, want %v", r.Err(), wantErr)
	}
}

func TestGoRecoversPanic(t *testing.T) {
	p := Go(context.Background(), DefaultScheduler(), func(context.Context) (int, error) {
		panic("async boom")
	})

	r, err := p.Get(time.Second)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r.IsReturn() {
		t.Fatal("expected a failure from the recovered panic")
	}
	var panicErr *PanicError
	if !errors.As(r.Err(), &panicErr) {
		t.Fatalf("err = %T, want *PanicError", r.Err())
	}
}

func TestGoRaisesInterruptOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	release := make(chan struct{})

	p := Go(ctx, DefaultScheduler(), func(ctx context.Context) (int, error) {
		close(started)
		<-release
		return 1, nil
	})

	<-started
	cancel()

	deadline := time.After(time.Second)
	for {
		if _, ok := p.IsInterrupted(); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the interrupt to be recorded")
		case <-time.After(time.Millisecond):
		}
	}

	close(release)

	r, err := p.Get(time.Second)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v, _ := r.Value(); v != 1 {
		t.Fatalf("value = %v, want 1 (interrupt should not have settled the promise)", v)
	}
}
