package loaders

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4"

	"github.com/spaghettifunk/anima-io/engine/loader"
)

// GetDecompressed inflates id from an lz4 frame.
func GetDecompressed(loaded loader.Loaded, id string) ([]byte, error) {
	buf, err := loader.Get(loaded, id)
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(buf)))
	if err != nil {
		return nil, &DecodeError{ID: id, Format: "lz4", Err: err}
	}
	return out, nil
}
