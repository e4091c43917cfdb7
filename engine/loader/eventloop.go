package loader

import (
	"sync"
	"time"

	"github.com/spaghettifunk/anima-io/engine/containers"
	"github.com/spaghettifunk/anima-io/engine/core"
)

// EventLoop runs posted tasks one at a time on a single goroutine, the way a
// browser event loop does. Blocking work is kept off the loop with Await.
type EventLoop struct {
	mu     sync.Mutex
	queue  *containers.RingQueue[func()]
	wake   chan struct{}
	done   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

func NewEventLoop() *EventLoop {
	l := &EventLoop{
		queue: containers.NewRingQueue[func()](64, true),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

// Post queues task to run on the loop. Safe to call from any goroutine.
func (l *EventLoop) Post(task func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	// the queue grows instead of failing
	_ = l.queue.Enqueue(task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Schedule posts task to the loop once delay has passed.
func (l *EventLoop) Schedule(delay time.Duration, task func()) {
	time.AfterFunc(delay, func() {
		if err := l.Post(task); err != nil {
			core.LogDebug("dropping scheduled task: %s", err)
		}
	})
}

// Close stops the loop. Tasks still queued are dropped.
func (l *EventLoop) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	close(l.done)
	l.wg.Wait()
	return nil
}

func (l *EventLoop) run() {
	defer l.wg.Done()
	for {
		select {
		case <-l.wake:
			for {
				task, ok := l.next()
				if !ok {
					break
				}
				task()
			}
		case <-l.done:
			return
		}
	}
}

func (l *EventLoop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, false
	}
	task, err := l.queue.Dequeue()
	if err != nil {
		return nil, false
	}
	return task, true
}

// Await runs op off the loop and resumes on the loop with its result. If the
// loop was closed in the meantime the result is dropped.
func Await[T any](l *EventLoop, op func() (T, error), resume func(T, error)) {
	go func() {
		v, err := op()
		if perr := l.Post(func() { resume(v, err) }); perr != nil {
			core.LogDebug("dropping awaited result: %s", perr)
		}
	}()
}
