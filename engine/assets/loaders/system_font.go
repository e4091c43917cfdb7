package loaders

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/image/font/opentype"

	"github.com/spaghettifunk/anima-io/engine/loader"
)

// SystemFontConfig is the parsed form of a .fontcfg file.
type SystemFontConfig struct {
	// File names the font binary, relative to the config.
	File  string
	Faces []string
}

// GetFont parses id as a TrueType/OpenType font or font collection.
func GetFont(loaded loader.Loaded, id string) (*opentype.Collection, error) {
	buf, err := loader.Get(loaded, id)
	if err != nil {
		return nil, err
	}
	f, err := opentype.ParseCollection(buf)
	if err != nil {
		return nil, &DecodeError{ID: id, Format: "font", Err: err}
	}
	return f, nil
}

// GetSystemFontConfig parses the file= and face= lines of a font config.
func GetSystemFontConfig(loaded loader.Loaded, id string) (*SystemFontConfig, error) {
	buf, err := loader.Get(loaded, id)
	if err != nil {
		return nil, err
	}

	cfg := &SystemFontConfig{}
	scanner := bufio.NewScanner(bytes.NewReader(buf))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "file=") {
			cfg.File = strings.TrimPrefix(line, "file=")
		} else if strings.HasPrefix(line, "face=") {
			cfg.Faces = append(cfg.Faces, strings.TrimPrefix(line, "face="))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &DecodeError{ID: id, Format: "fontcfg", Err: err}
	}
	if cfg.File == "" {
		return nil, &DecodeError{ID: id, Format: "fontcfg", Err: fmt.Errorf("missing file= entry")}
	}
	return cfg, nil
}
