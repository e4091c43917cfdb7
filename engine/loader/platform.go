package loader

import (
	"fmt"
	"net/http"

	"github.com/spaghettifunk/anima-io/engine/core"
	"github.com/spaghettifunk/anima-io/engine/systems"
)

// Platform bundles the pieces of one scheduling model. A batch uses a single
// Platform, so the two models never mix.
type Platform interface {
	Name() string
	NewLedger() Ledger
	Fetcher() Fetcher
	Scheduler() Scheduler
	Close() error
}

type nativePlatform struct {
	jobs    *systems.JobSystem
	fetcher *BlockingFetcher
}

// NativePlatform reads files below root (the working directory when empty)
// with one goroutine per resource and polls from timer goroutines.
func NativePlatform(root string) Platform {
	jobs := systems.NewJobSystem()
	return &nativePlatform{
		jobs:    jobs,
		fetcher: NewBlockingFetcher(root, jobs),
	}
}

func (p *nativePlatform) Name() string         { return core.PlatformNative }
func (p *nativePlatform) NewLedger() Ledger    { return newLockedLedger() }
func (p *nativePlatform) Fetcher() Fetcher     { return p.fetcher }
func (p *nativePlatform) Scheduler() Scheduler { return timerScheduler{} }

// Close waits for in-flight reads and rejects new ones.
func (p *nativePlatform) Close() error {
	return p.jobs.Shutdown()
}

type cooperativePlatform struct {
	loop     *EventLoop
	fetcher  *CooperativeFetcher
	ownsLoop bool
}

// CooperativePlatform fetches over HTTP and runs every ledger access and
// poll tick on loop. The caller keeps ownership of loop.
func CooperativePlatform(loop *EventLoop, client *http.Client, baseURL string) Platform {
	return newCooperativePlatform(loop, client, baseURL, false)
}

func newCooperativePlatform(loop *EventLoop, client *http.Client, baseURL string, ownsLoop bool) *cooperativePlatform {
	return &cooperativePlatform{
		loop:     loop,
		fetcher:  NewCooperativeFetcher(loop, client, baseURL),
		ownsLoop: ownsLoop,
	}
}

func (p *cooperativePlatform) Name() string         { return core.PlatformCooperative }
func (p *cooperativePlatform) NewLedger() Ledger    { return newCooperativeLedger() }
func (p *cooperativePlatform) Fetcher() Fetcher     { return p.fetcher }
func (p *cooperativePlatform) Scheduler() Scheduler { return p.loop }

func (p *cooperativePlatform) Close() error {
	if p.ownsLoop {
		return p.loop.Close()
	}
	return nil
}

// PlatformFromConfig builds the platform named in cfg. An empty name picks
// the build default.
func PlatformFromConfig(cfg core.LoaderConfig) (Platform, error) {
	name := cfg.Platform
	if name == "" {
		name = defaultPlatformName
	}
	switch name {
	case core.PlatformNative:
		return NativePlatform(cfg.Root), nil
	case core.PlatformCooperative:
		return newCooperativePlatform(NewEventLoop(), http.DefaultClient, cfg.BaseURL, true), nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownPlatform, cfg.Platform)
	}
}
