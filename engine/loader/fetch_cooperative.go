package loader

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// CooperativeFetcher issues HTTP GET requests and records the response on
// the event loop. The transport round trip happens off the loop.
type CooperativeFetcher struct {
	Loop   *EventLoop
	Client *http.Client
	// BaseURL is resolved against relative identifiers.
	BaseURL string
}

func NewCooperativeFetcher(loop *EventLoop, client *http.Client, baseURL string) *CooperativeFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &CooperativeFetcher{Loop: loop, Client: client, BaseURL: baseURL}
}

func (f *CooperativeFetcher) Fetch(id string, ledger Ledger) {
	Await(f.Loop, func() ([]byte, error) {
		return f.get(id)
	}, func(data []byte, err error) {
		if err != nil {
			record(ledger, id, Failure(fmt.Errorf("load %s: %w", id, err)))
			return
		}
		record(ledger, id, Success(data))
	})
}

func (f *CooperativeFetcher) get(id string) ([]byte, error) {
	target, err := f.resolve(id)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/octet-stream")
	applyFetchMode(req)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (f *CooperativeFetcher) resolve(id string) (string, error) {
	if f.BaseURL == "" {
		return id, nil
	}
	base, err := url.Parse(f.BaseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(id)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
