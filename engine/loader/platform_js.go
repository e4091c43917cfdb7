//go:build js && wasm

package loader

import (
	"net/http"

	"github.com/spaghettifunk/anima-io/engine/core"
)

const defaultPlatformName = core.PlatformCooperative

// DefaultPlatform fetches over HTTP from a private event loop, which is the
// only way to reach resources from a browser.
func DefaultPlatform() Platform {
	return newCooperativePlatform(NewEventLoop(), http.DefaultClient, "", true)
}

// applyFetchMode asks the browser fetch API for a CORS request.
func applyFetchMode(req *http.Request) {
	req.Header.Set("js.fetch:mode", "cors")
}
