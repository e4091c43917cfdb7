package loader

import "sync"

// Ledger is the shared record of one batch. Fetchers only call WriteOnce,
// the poller only calls Snapshot and, once everything resolved, Take.
type Ledger interface {
	// Seed adds a Pending entry for every distinct id and returns the number
	// of entries. It must be called once, before any fetch starts.
	Seed(ids []string) int
	// WriteOnce moves id from Pending to a terminal outcome.
	WriteOnce(id string, o Outcome) error
	// Snapshot counts the resolved entries. ok is false when the ledger could
	// not be read right now; callers treat that as still loading.
	Snapshot() (resolved, total int, ok bool)
	// Take hands the entries over to the caller. The ledger is empty afterwards.
	Take() Loaded
}

func seedEntries(entries Loaded, ids []string) int {
	for _, id := range ids {
		if _, ok := entries[id]; !ok {
			entries[id] = Pending()
		}
	}
	return len(entries)
}

func writeEntry(entries Loaded, id string, o Outcome) error {
	if !o.State.IsTerminal() {
		return ErrPendingWrite
	}
	current, ok := entries[id]
	if !ok {
		return ErrUnknownResource
	}
	if current.State.IsTerminal() {
		return ErrAlreadyResolved
	}
	entries[id] = o
	return nil
}

func countResolved(entries Loaded) (int, int) {
	return entries.Resolved(), len(entries)
}

// lockedLedger is shared by the fetch goroutines and the poll timer.
type lockedLedger struct {
	mu      sync.RWMutex
	entries Loaded
}

func newLockedLedger() *lockedLedger {
	return &lockedLedger{entries: make(Loaded)}
}

func (l *lockedLedger) Seed(ids []string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return seedEntries(l.entries, ids)
}

func (l *lockedLedger) WriteOnce(id string, o Outcome) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return writeEntry(l.entries, id, o)
}

func (l *lockedLedger) Snapshot() (int, int, bool) {
	// a writer holding the lock means the batch is still moving
	if !l.mu.TryRLock() {
		return 0, 0, false
	}
	defer l.mu.RUnlock()
	resolved, total := countResolved(l.entries)
	return resolved, total, true
}

func (l *lockedLedger) Take() Loaded {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := l.entries
	l.entries = make(Loaded)
	return entries
}

// cooperativeLedger is only ever touched from the event loop goroutine,
// so it needs no locking. Every fetch and poll tick holds a handle to it.
type cooperativeLedger struct {
	entries Loaded
}

func newCooperativeLedger() *cooperativeLedger {
	return &cooperativeLedger{entries: make(Loaded)}
}

func (l *cooperativeLedger) Seed(ids []string) int {
	return seedEntries(l.entries, ids)
}

func (l *cooperativeLedger) WriteOnce(id string, o Outcome) error {
	return writeEntry(l.entries, id, o)
}

func (l *cooperativeLedger) Snapshot() (int, int, bool) {
	resolved, total := countResolved(l.entries)
	return resolved, total, true
}

func (l *cooperativeLedger) Take() Loaded {
	entries := l.entries
	l.entries = make(Loaded)
	return entries
}
