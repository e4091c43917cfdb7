package loader

import (
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/anima-io/engine/math"
)

type pollerState uint32

const (
	pollerPolling pollerState = iota
	pollerDone
)

// poller samples the ledger every interval until all entries resolved, then
// hands the entries to onDone. Each tick schedules the next one instead of
// recursing.
type poller struct {
	ledger    Ledger
	scheduler Scheduler
	interval  time.Duration
	progress  ProgressFunc
	finish    func(Loaded)

	state atomic.Uint32
}

func (p *poller) start() {
	p.scheduler.Schedule(p.interval, p.tick)
}

func (p *poller) tick() {
	if pollerState(p.state.Load()) == pollerDone {
		return
	}

	resolved, total, ok := p.ledger.Snapshot()
	if !ok {
		p.scheduler.Schedule(p.interval, p.tick)
		return
	}

	if p.progress != nil {
		p.progress(math.Ratio[int, float32](resolved, total))
	}

	if resolved < total {
		p.scheduler.Schedule(p.interval, p.tick)
		return
	}

	if !p.state.CompareAndSwap(uint32(pollerPolling), uint32(pollerDone)) {
		return
	}
	p.finish(p.ledger.Take())
}
