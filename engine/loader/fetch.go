package loader

import (
	"github.com/spaghettifunk/anima-io/engine/core"
)

// Fetcher resolves one identifier into bytes. Fetch returns immediately and
// must eventually perform exactly one terminal WriteOnce for id, whatever
// happens to the underlying I/O.
type Fetcher interface {
	Fetch(id string, ledger Ledger)
}

func record(ledger Ledger, id string, o Outcome) {
	if err := ledger.WriteOnce(id, o); err != nil {
		core.LogError("failed to record outcome of '%s': %s", id, err)
	}
}
