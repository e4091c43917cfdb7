package loader

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestEventLoop_RunsTasksInOrder(t *testing.T) {
	loop := NewEventLoop()
	defer loop.Close()

	var running atomic.Int32
	order := make([]int, 0, 100)
	done := make(chan struct{})

	for i := 0; i < 100; i++ {
		i := i
		err := loop.Post(func() {
			if running.Add(1) != 1 {
				t.Error("two tasks ran at the same time")
			}
			order = append(order, i)
			running.Add(-1)
			if i == 99 {
				close(done)
			}
		})
		if err != nil {
			t.Fatalf("Post failed: %v", err)
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for tasks")
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("task %d ran at position %d", v, i)
		}
	}
}

func TestEventLoop_Schedule(t *testing.T) {
	loop := NewEventLoop()
	defer loop.Close()

	start := time.Now()
	fired := make(chan time.Duration, 1)
	loop.Schedule(20*time.Millisecond, func() {
		fired <- time.Since(start)
	})

	select {
	case elapsed := <-fired:
		if elapsed < 20*time.Millisecond {
			t.Fatalf("task ran after %s, before its delay", elapsed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled task never ran")
	}
}

func TestEventLoop_Await(t *testing.T) {
	loop := NewEventLoop()
	defer loop.Close()

	boom := errors.New("boom")
	got := make(chan error, 1)
	Await(loop, func() (int, error) {
		return 42, boom
	}, func(v int, err error) {
		if v != 42 {
			t.Errorf("resumed with %d, want 42", v)
		}
		got <- err
	})

	select {
	case err := <-got:
		if !errors.Is(err, boom) {
			t.Fatalf("resumed with %v, want boom", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Await never resumed")
	}
}

func TestEventLoop_PostAfterClose(t *testing.T) {
	loop := NewEventLoop()
	if err := loop.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := loop.Post(func() {}); !errors.Is(err, ErrLoopClosed) {
		t.Fatalf("expected ErrLoopClosed, got %v", err)
	}
	// closing twice is fine
	if err := loop.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}
