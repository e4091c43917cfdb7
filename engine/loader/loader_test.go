package loader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spaghettifunk/anima-io/engine/core"
)

const testPollInterval = 5 * time.Millisecond

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func writeFiles(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func newNativeLoader(t *testing.T, root string) *Loader {
	t.Helper()
	l := New(
		WithPlatform(NativePlatform(root)),
		WithPollInterval(testPollInterval),
		WithLogger(quietLogger()),
	)
	t.Cleanup(func() { l.Close() })
	return l
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// progressRecorder collects progress reports from whatever goroutine
// delivers them.
type progressRecorder struct {
	mu      sync.Mutex
	reports []float32
}

func (r *progressRecorder) record(p float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, p)
}

func (r *progressRecorder) values() []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float32(nil), r.reports...)
}

func assertMonotonic(t *testing.T, reports []float32) {
	t.Helper()
	if len(reports) == 0 {
		t.Fatal("no progress was reported")
	}
	for i, p := range reports {
		if p < 0 || p > 1 {
			t.Fatalf("progress %v out of range", p)
		}
		if i > 0 && p < reports[i-1] {
			t.Fatalf("progress went backwards: %v", reports)
		}
	}
	if last := reports[len(reports)-1]; last != 1 {
		t.Fatalf("last progress = %v, want 1", last)
	}
}

func TestLoader_SingleFile(t *testing.T) {
	root := writeFiles(t, map[string][]byte{"a.bin": {1, 2, 3}})
	l := newNativeLoader(t, root)

	loaded, err := l.LoadAndWait(waitCtx(t), []string{"a.bin"}, nil)
	if err != nil {
		t.Fatalf("LoadAndWait failed: %v", err)
	}

	data, err := Get(loaded, "a.bin")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(data, []byte{1, 2, 3}) {
		t.Fatalf("Get = %v, want [1 2 3]", data)
	}
}

func TestLoader_MissingFile(t *testing.T) {
	l := newNativeLoader(t, t.TempDir())

	loaded, err := l.LoadAndWait(waitCtx(t), []string{"missing.bin"}, nil)
	if err != nil {
		t.Fatalf("LoadAndWait failed: %v", err)
	}

	if state := loaded["missing.bin"].State; state != StateFailure {
		t.Fatalf("state = %s, want failure", state)
	}
	_, err = Get(loaded, "missing.bin")
	if !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("expected ErrLoadFailed, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected the I/O error to be kept, got %v", err)
	}
}

func TestLoader_EmptyFileIsNotPending(t *testing.T) {
	root := writeFiles(t, map[string][]byte{"empty.bin": {}})
	l := newNativeLoader(t, root)

	loaded, err := l.LoadAndWait(waitCtx(t), []string{"empty.bin"}, nil)
	if err != nil {
		t.Fatalf("LoadAndWait failed: %v", err)
	}
	if state := loaded["empty.bin"].State; state != StateSuccess {
		t.Fatalf("state = %s, want success", state)
	}
	data, err := Get(loaded, "empty.bin")
	if err != nil || len(data) != 0 {
		t.Fatalf("Get = %v, %v; want empty, nil", data, err)
	}
}

func TestLoader_CompletesOnceWithEveryEntry(t *testing.T) {
	files := map[string][]byte{
		"a.bin": {1},
		"b.bin": {2, 2},
		"c.bin": {},
	}
	root := writeFiles(t, files)
	l := newNativeLoader(t, root)

	ids := []string{"a.bin", "b.bin", "c.bin", "missing.bin", "a.bin"}
	rec := &progressRecorder{}

	var calls sync.WaitGroup
	calls.Add(1)
	var mu sync.Mutex
	count := 0
	var got Loaded

	err := l.LoadWithProgress(ids, rec.record, func(loaded Loaded) {
		mu.Lock()
		defer mu.Unlock()
		count++
		got = loaded
		if count == 1 {
			calls.Done()
		}
	})
	if err != nil {
		t.Fatalf("LoadWithProgress failed: %v", err)
	}

	calls.Wait()
	// give a stray extra tick the chance to fire on_done again
	time.Sleep(10 * testPollInterval)

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Fatalf("on_done fired %d times, want 1", count)
	}
	if len(got) != 4 {
		t.Fatalf("got %d entries, want 4: %v", len(got), got.IDs())
	}
	for id, o := range got {
		if !o.State.IsTerminal() {
			t.Fatalf("entry %s is still %s", id, o.State)
		}
	}
	if len(got.Failed()) != 1 {
		t.Fatalf("failed = %v, want only missing.bin", got.Failed())
	}
	assertMonotonic(t, rec.values())
}

func TestLoader_EmptyBatch(t *testing.T) {
	l := newNativeLoader(t, "")
	if err := l.Load(nil, func(Loaded) {}); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestLoader_LoadLogsProgress(t *testing.T) {
	root := writeFiles(t, map[string][]byte{"a.bin": {7}})
	l := newNativeLoader(t, root)

	done := make(chan Loaded, 1)
	if err := l.Load([]string{"a.bin"}, func(loaded Loaded) { done <- loaded }); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	select {
	case loaded := <-done:
		if _, err := Get(loaded, "a.bin"); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("on_done never fired")
	}
}

func TestLoader_LoadAndWaitContext(t *testing.T) {
	sched := &manualScheduler{}
	l := New(
		WithPlatform(&stubPlatform{fetcher: fetchFunc(func(string, Ledger) {}), scheduler: sched}),
		WithLogger(quietLogger()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.LoadAndWait(ctx, []string{"never.bin"}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoader_RecordsMetrics(t *testing.T) {
	core.MetricsReset()
	root := writeFiles(t, map[string][]byte{"a.bin": {1, 2, 3}})
	l := newNativeLoader(t, root)

	if _, err := l.LoadAndWait(waitCtx(t), []string{"a.bin", "missing.bin"}, nil); err != nil {
		t.Fatalf("LoadAndWait failed: %v", err)
	}

	m := core.MetricsSnapshot()
	if m.Batches != 1 || m.Resources != 2 || m.Failures != 1 || m.Bytes != 3 {
		t.Fatalf("unexpected metrics %+v", m)
	}
}

func TestPlatformFromConfig(t *testing.T) {
	for _, name := range []string{"", core.PlatformNative, core.PlatformCooperative} {
		p, err := PlatformFromConfig(core.LoaderConfig{Platform: name})
		if err != nil {
			t.Fatalf("PlatformFromConfig(%q) failed: %v", name, err)
		}
		if name != "" && p.Name() != name {
			t.Fatalf("PlatformFromConfig(%q).Name() = %q", name, p.Name())
		}
		p.Close()
	}

	if _, err := PlatformFromConfig(core.LoaderConfig{Platform: "gpu"}); !errors.Is(err, core.ErrUnknownPlatform) {
		t.Fatalf("expected ErrUnknownPlatform, got %v", err)
	}
}
