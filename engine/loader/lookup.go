package loader

// Get returns the bytes loaded for id. The slice is shared with loaded and
// must not be modified.
func Get(loaded Loaded, id string) ([]byte, error) {
	o, ok := loaded[id]
	if !ok || o.State == StatePending {
		return nil, &LookupError{Kind: ErrNotLoaded, ID: id}
	}
	if o.State == StateFailure {
		return nil, &LookupError{Kind: ErrLoadFailed, ID: id, Err: o.Err}
	}
	return o.Data, nil
}
