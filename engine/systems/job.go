package systems

import (
	"errors"
	"sync"

	"github.com/spaghettifunk/anima-io/engine/core"
)

var ErrJobSystemShutdown = errors.New("job system is shut down")

// JobTask describes a unit of work. Run is required, the callbacks are optional.
type JobTask struct {
	Name string
	// Run performs the work on the job goroutine.
	Run func() error
	// OnSuccess is invoked on the job goroutine after Run returned nil.
	OnSuccess func()
	// OnFailure is invoked on the job goroutine with the error returned by Run.
	OnFailure func(err error)
}

// JobSystem runs every submitted job on its own goroutine. There is no
// worker limit: a batch of N jobs runs N goroutines at once.
type JobSystem struct {
	mu       sync.RWMutex
	wg       sync.WaitGroup
	shutdown bool
}

func NewJobSystem() *JobSystem {
	return &JobSystem{}
}

// Submit starts jt on its own goroutine and returns immediately.
func (js *JobSystem) Submit(jt JobTask) error {
	js.mu.RLock()
	defer js.mu.RUnlock()
	if js.shutdown {
		return ErrJobSystemShutdown
	}

	js.wg.Add(1)
	go js.run(jt)
	return nil
}

func (js *JobSystem) run(jt JobTask) {
	defer js.wg.Done()

	if err := jt.Run(); err != nil {
		core.LogDebug("job '%s' failed: %s", jt.Name, err)
		if jt.OnFailure != nil {
			jt.OnFailure(err)
		}
		return
	}
	if jt.OnSuccess != nil {
		jt.OnSuccess()
	}
}

// Wait blocks until every job submitted so far has returned.
func (js *JobSystem) Wait() {
	js.wg.Wait()
}

// Shutdown rejects further jobs and waits for the running ones.
func (js *JobSystem) Shutdown() error {
	js.mu.Lock()
	js.shutdown = true
	js.mu.Unlock()

	js.wg.Wait()
	return nil
}
