package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/anima-io/engine/core"
	"github.com/spaghettifunk/anima-io/engine/loader"
)

var (
	ErrAssetNotFound       = errors.New("asset not found")
	ErrClosed              = errors.New("asset manager already closed")
	ErrUnsupportedPlatform = errors.New("asset manager needs the native platform")
)

type AssetInfo struct {
	Path       string
	Type       ResourceType
	LastLoaded time.Time
}

// AssetManager indexes an asset directory, loads it through a Loader and,
// when watching, reloads files as they change on disk. Assets are keyed by
// absolute path, so the loader's root never applies to them.
type AssetManager struct {
	dir    string
	watch  bool
	loader *loader.Loader

	assets map[string]AssetInfo
	loaded loader.Loaded
	// generation of the newest batch dispatched / applied per path, so a slow
	// reload never overwrites a newer one
	dispatched map[string]uint64
	applied    map[string]uint64
	onReload   func(path string)

	mutex sync.RWMutex

	done     chan struct{}
	wg       sync.WaitGroup
	fsnotify *fsnotify.Watcher
	isClosed bool
}

// NewAssetManager fails unless l reads from the local filesystem.
func NewAssetManager(l *loader.Loader, cfg core.AssetsConfig) (*AssetManager, error) {
	if name := l.Platform().Name(); name != core.PlatformNative {
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedPlatform, name)
	}
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, err
	}
	return &AssetManager{
		dir:        dir,
		watch:      cfg.Watch,
		loader:     l,
		assets:     make(map[string]AssetInfo),
		loaded:     make(loader.Loaded),
		dispatched: make(map[string]uint64),
		applied:    make(map[string]uint64),
		done:       make(chan struct{}),
	}, nil
}

// OnReload registers fn to run after a watched file was reloaded.
func (am *AssetManager) OnReload(fn func(path string)) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.onReload = fn
}

// Initialize indexes the asset directory and starts watching it if enabled.
func (am *AssetManager) Initialize() error {
	if am.watch {
		fsWatch, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		am.fsnotify = fsWatch
	}

	if err := am.watchRecursive(am.dir); err != nil {
		return err
	}

	if am.fsnotify != nil {
		am.wg.Add(1)
		go am.start()
	}

	core.LogInfo("Asset manager initialized with %d assets from '%s'.", len(am.Assets()), am.dir)
	return nil
}

// Assets returns the indexed assets.
func (am *AssetManager) Assets() []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	out := make([]AssetInfo, 0, len(am.assets))
	for _, a := range am.assets {
		out = append(out, a)
	}
	return out
}

// LoadAll loads every indexed asset as one batch. With nothing indexed
// onDone fires right away with an empty map.
func (am *AssetManager) LoadAll(progress loader.ProgressFunc, onDone loader.DoneFunc) error {
	am.mutex.Lock()
	paths := make([]string, 0, len(am.assets))
	gens := make(map[string]uint64, len(am.assets))
	for path := range am.assets {
		paths = append(paths, path)
		am.dispatched[path]++
		gens[path] = am.dispatched[path]
	}
	am.mutex.Unlock()

	if len(paths) == 0 {
		if onDone != nil {
			onDone(loader.Loaded{})
		}
		return nil
	}

	return am.loader.LoadWithProgress(paths, progress, func(loaded loader.Loaded) {
		am.merge(loaded, gens)
		if onDone != nil {
			onDone(loaded)
		}
	})
}

// LoadAsset decodes the latest loaded contents of path according to its type.
// Relative paths are taken from the working directory.
func (am *AssetManager) LoadAsset(path string) (*Resource, error) {
	path = absPath(path)

	am.mutex.RLock()
	asset, exists := am.assets[path]
	outcome, loaded := am.loaded[path]
	am.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, path)
	}
	if !loaded {
		return nil, &loader.LookupError{Kind: loader.ErrNotLoaded, ID: path}
	}

	decode, ok := decoders[asset.Type]
	if !ok {
		return nil, fmt.Errorf("no decoder registered for asset type: %s", asset.Type)
	}
	data, err := decode(loader.Loaded{path: outcome}, path)
	if err != nil {
		return nil, err
	}
	return &Resource{
		Path:     path,
		Type:     asset.Type,
		DataSize: uint64(len(outcome.Data)),
		Data:     data,
	}, nil
}

// Shutdown stops watching. Batches already dispatched still complete.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return ErrClosed
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	am.wg.Wait()
	return nil
}

func (am *AssetManager) merge(loaded loader.Loaded, gens map[string]uint64) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	now := time.Now()
	for path, outcome := range loaded {
		asset, indexed := am.assets[path]
		// removed while the batch was in flight
		if !indexed || gens[path] < am.applied[path] {
			continue
		}
		am.applied[path] = gens[path]
		am.loaded[path] = outcome
		asset.LastLoaded = now
		am.assets[path] = asset
	}
}

func (am *AssetManager) reload(path string) {
	am.mutex.Lock()
	am.dispatched[path]++
	gen := am.dispatched[path]
	am.mutex.Unlock()

	err := am.loader.Load([]string{path}, func(loaded loader.Loaded) {
		am.merge(loaded, map[string]uint64{path: gen})

		am.mutex.RLock()
		fn := am.onReload
		am.mutex.RUnlock()
		if fn != nil {
			fn(path)
		}
	})
	if err != nil {
		core.LogError("failed to reload '%s': %s", path, err)
	}
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogError("%s", err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if am.handleFileEvent(e.Name) {
					am.reload(e.Name)
				}
			}
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("%s", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive indexes every file under path and, when watching, adds
// every directory to the watch list.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if am.fsnotify != nil {
				return am.fsnotify.Add(walkPath)
			}
			return nil
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// handleFileEvent indexes path and reports whether it is a known asset.
func (am *AssetManager) handleFileEvent(path string) bool {
	assetType := determineAssetType(path)
	if assetType == ResourceTypeNone {
		return false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if _, ok := am.assets[path]; !ok {
		am.assets[path] = AssetInfo{
			Path: path,
			Type: assetType,
		}
	}
	return true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
	delete(am.loaded, path)
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func determineAssetType(path string) ResourceType {
	base := filepath.Base(path)
	// editor swap files and dotfiles
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return ResourceTypeNone
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return ResourceTypeImage
	case ".amt":
		return ResourceTypeMaterial
	case ".spv":
		return ResourceTypeShader
	case ".ttf", ".otf", ".ttc", ".otc":
		return ResourceTypeSystemFont
	case ".fontcfg":
		return ResourceTypeFontConfig
	case ".lz4":
		return ResourceTypeCompressed
	default:
		return ResourceTypeBinary
	}
}
