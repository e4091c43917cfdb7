package loader

import "time"

// Scheduler runs task once after delay. Implementations decide on which
// goroutine the task runs.
type Scheduler interface {
	Schedule(delay time.Duration, task func())
}

// timerScheduler runs every task on its own timer goroutine.
type timerScheduler struct{}

func (timerScheduler) Schedule(delay time.Duration, task func()) {
	time.AfterFunc(delay, task)
}
