//go:build !(js && wasm)

package loader

import (
	"net/http"

	"github.com/spaghettifunk/anima-io/engine/core"
)

const defaultPlatformName = core.PlatformNative

// DefaultPlatform reads files from the working directory on worker goroutines.
func DefaultPlatform() Platform {
	return NativePlatform("")
}

// Only the js/wasm transport understands fetch options.
func applyFetchMode(*http.Request) {}
