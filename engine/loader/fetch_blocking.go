package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/anima-io/engine/systems"
)

// BlockingFetcher reads local files. Every read runs as its own job so the
// goroutine that started the batch never blocks on disk.
type BlockingFetcher struct {
	// Root is joined with relative identifiers.
	Root string
	Jobs *systems.JobSystem
}

func NewBlockingFetcher(root string, jobs *systems.JobSystem) *BlockingFetcher {
	if jobs == nil {
		jobs = systems.NewJobSystem()
	}
	return &BlockingFetcher{Root: root, Jobs: jobs}
}

func (f *BlockingFetcher) Fetch(id string, ledger Ledger) {
	var data []byte
	err := f.Jobs.Submit(systems.JobTask{
		Name: id,
		Run: func() error {
			var err error
			data, err = readFile(f.path(id))
			return err
		},
		OnSuccess: func() {
			record(ledger, id, Success(data))
		},
		OnFailure: func(err error) {
			record(ledger, id, Failure(fmt.Errorf("load %s: %w", id, err)))
		},
	})
	if err != nil {
		record(ledger, id, Failure(fmt.Errorf("load %s: %w", id, err)))
	}
}

func (f *BlockingFetcher) path(id string) string {
	if f.Root == "" || filepath.IsAbs(id) {
		return id
	}
	return filepath.Join(f.Root, id)
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}
