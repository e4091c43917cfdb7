package loader

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-io/engine/core"
)

const DefaultPollInterval = 100 * time.Millisecond

// ProgressFunc receives the resolved fraction of a batch, in [0, 1].
// Failed resources count as resolved.
type ProgressFunc func(progress float32)

// DoneFunc receives the finished batch. The map belongs to the callback.
type DoneFunc func(loaded Loaded)

// Loader fetches batches of resources concurrently and reports when every
// one of them either succeeded or failed.
type Loader struct {
	platform     Platform
	pollInterval time.Duration
	logger       *log.Logger
}

type Option func(*Loader)

func WithPlatform(p Platform) Option {
	return func(l *Loader) {
		l.platform = p
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.pollInterval = d
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

func New(opts ...Option) *Loader {
	l := &Loader{
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.platform == nil {
		l.platform = DefaultPlatform()
	}
	if l.logger == nil {
		l.logger = core.Logger().With("platform", l.platform.Name())
	}
	return l
}

// NewFromConfig builds a loader with the platform and poll interval of cfg.
func NewFromConfig(cfg core.LoaderConfig, opts ...Option) (*Loader, error) {
	p, err := PlatformFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithPlatform(p), WithPollInterval(cfg.PollInterval())}, opts...)
	return New(opts...), nil
}

func (l *Loader) Platform() Platform {
	return l.platform
}

// Close releases the platform. Batches still in flight may never complete.
func (l *Loader) Close() error {
	return l.platform.Close()
}

// Load is LoadWithProgress with a progress callback that only logs.
func (l *Loader) Load(ids []string, onDone DoneFunc) error {
	return l.LoadWithProgress(ids, func(progress float32) {
		l.logger.Debugf("Progress: %.0f%%", 100*progress)
	}, onDone)
}

// LoadWithProgress starts fetching every id and returns immediately.
// progress is called on every poll tick; onDone is called exactly once,
// after every resource resolved. Duplicate ids share one entry.
func (l *Loader) LoadWithProgress(ids []string, progress ProgressFunc, onDone DoneFunc) error {
	if len(ids) == 0 {
		return ErrEmptyBatch
	}

	batch := newBatch(l.logger)
	batch.clock.Start()

	ledger := l.platform.NewLedger()
	unique := dedupe(ids)
	batch.total = ledger.Seed(unique)
	batch.logger.Info("Loading started...", "resources", batch.total)

	fetcher := l.platform.Fetcher()
	for _, id := range unique {
		fetcher.Fetch(id, ledger)
	}

	p := &poller{
		ledger:    ledger,
		scheduler: l.platform.Scheduler(),
		interval:  l.pollInterval,
		progress:  progress,
		finish: func(loaded Loaded) {
			batch.done(loaded)
			if onDone != nil {
				onDone(loaded)
			}
		},
	}
	p.start()
	return nil
}

// LoadAndWait blocks until the batch completes or ctx is done. Cancelling
// ctx only stops the wait: the fetches keep running and their results are
// discarded.
func (l *Loader) LoadAndWait(ctx context.Context, ids []string, progress ProgressFunc) (Loaded, error) {
	result := make(chan Loaded, 1)
	if err := l.LoadWithProgress(ids, progress, func(loaded Loaded) {
		result <- loaded
	}); err != nil {
		return nil, err
	}

	select {
	case loaded := <-result:
		return loaded, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type batch struct {
	id     uuid.UUID
	total  int
	clock  *core.Clock
	logger *log.Logger
}

func newBatch(logger *log.Logger) *batch {
	id := uuid.New()
	return &batch{
		id:     id,
		clock:  core.NewClock(),
		logger: logger.With("batch", id.String()),
	}
}

func (b *batch) done(loaded Loaded) {
	b.clock.Stop()
	failed := len(loaded.Failed())
	bytes := loaded.TotalBytes()
	core.MetricsRecordBatch(b.clock.Elapsed(), len(loaded), failed, bytes)
	b.logger.Info("Loading done.", "resources", len(loaded), "failed", failed, "bytes", bytes, "elapsed", b.clock.Elapsed())
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
