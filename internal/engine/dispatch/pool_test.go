package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"
)

// drainUntil drains p until want completions have run or the deadline passes.
func drainUntil(t *testing.T, p *Pool, want int) int {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	got := 0
	for got < want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out: %d of %d completions applied", got, want)
		}
		got += p.Drain()
		if got < want {
			time.Sleep(time.Millisecond)
		}
	}
	return got
}

func waitCompleted(t *testing.T, p *Pool, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		p.mu.Lock()
		n := len(p.completed)
		p.mu.Unlock()
		if n >= want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d produced results, have %d", want, n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPoolDeliversOnlyOnDrain(t *testing.T) {
	p := NewPool(Config{Workers: 2})
	defer p.Close()

	produced := make(chan struct{})
	called := false
	var result any

	p.Submit(func(ctx context.Context) (any, error) {
		close(produced)
		return 42, nil
	}, func(r any, err error) {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		called = true
		result = r
	})

	<-produced
	waitCompleted(t, p, 1)
	if called {
		t.Fatal("completion ran before Drain")
	}
	if p.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", p.Pending())
	}

	drainUntil(t, p, 1)
	if !called {
		t.Fatal("completion did not run during Drain")
	}
	if result != 42 {
		t.Errorf("result = %v, want 42", result)
	}
	if p.Pending() != 0 {
		t.Errorf("Pending() = %d after drain, want 0", p.Pending())
	}
}

func TestPoolApplyBudget(t *testing.T) {
	p := NewPool(Config{Workers: 1, ApplyBudget: 2})
	defer p.Close()

	applied := 0
	for i := 0; i < 5; i++ {
		p.Submit(func(ctx context.Context) (any, error) {
			return i, nil
		}, func(any, error) {
			applied++
		})
	}

	waitCompleted(t, p, 5)

	for _, want := range []int{2, 2, 1, 0} {
		if got := p.Drain(); got != want {
			t.Errorf("Drain() = %d, want %d", got, want)
		}
	}
	if applied != 5 {
		t.Errorf("applied %d completions, want 5", applied)
	}
}

func TestPoolRecoversPanics(t *testing.T) {
	p := NewPool(Config{Workers: 1})
	defer p.Close()

	var gotErr error
	p.Submit(func(ctx context.Context) (any, error) {
		panic("boom")
	}, func(r any, err error) {
		gotErr = err
	})

	drainUntil(t, p, 1)
	if !errors.Is(gotErr, ErrProducerPanic) {
		t.Errorf("err = %v, want ErrProducerPanic", gotErr)
	}

	// The worker survives the panic.
	ok := false
	p.Submit(func(ctx context.Context) (any, error) {
		return nil, nil
	}, func(any, error) {
		ok = true
	})
	drainUntil(t, p, 1)
	if !ok {
		t.Error("worker did not run a job after a panic")
	}
}

func TestPoolPassesProducerErrors(t *testing.T) {
	p := NewPool(Config{Workers: 1})
	defer p.Close()

	want := errors.New("generation failed")
	var gotErr error
	p.Submit(func(ctx context.Context) (any, error) {
		return nil, want
	}, func(r any, err error) {
		gotErr = err
	})

	drainUntil(t, p, 1)
	if !errors.Is(gotErr, want) {
		t.Errorf("err = %v, want %v", gotErr, want)
	}
}

func TestPoolSubmitNeverBlocks(t *testing.T) {
	p := NewPool(Config{Workers: 1, QueueSize: 1})
	defer p.Close()

	release := make(chan struct{})
	done := 0
	for i := 0; i < 8; i++ {
		p.Submit(func(ctx context.Context) (any, error) {
			<-release
			return nil, nil
		}, func(any, error) {
			done++
		})
	}

	if len(p.backlog) == 0 {
		t.Error("expected jobs to spill into the backlog")
	}

	close(release)
	drainUntil(t, p, 8)
	if done != 8 {
		t.Errorf("done = %d, want 8", done)
	}
	if len(p.backlog) != 0 {
		t.Errorf("backlog has %d jobs after drain, want 0", len(p.backlog))
	}
}

func TestPoolRateLimited(t *testing.T) {
	p := NewPool(Config{Workers: 4, JobsPerSecond: 1000})
	defer p.Close()

	for i := 0; i < 10; i++ {
		p.Submit(func(ctx context.Context) (any, error) {
			return nil, nil
		}, func(any, error) {})
	}
	drainUntil(t, p, 10)
}

func TestPoolCloseStopsWorkers(t *testing.T) {
	p := NewPool(Config{Workers: 3})

	started := make(chan struct{})
	p.Submit(func(ctx context.Context) (any, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}, func(any, error) {})

	<-started

	closed := make(chan struct{})
	go func() {
		p.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}
}
