package assets

import (
	"github.com/spaghettifunk/anima-io/engine/assets/loaders"
	"github.com/spaghettifunk/anima-io/engine/loader"
)

type ResourceType int

/** @brief Resource types known to the asset manager. */
const (
	/** @brief Files the asset manager ignores. */
	ResourceTypeNone ResourceType = iota
	/** @brief Raw bytes, returned as loaded. */
	ResourceTypeBinary
	/** @brief png, jpeg, gif, bmp, tiff or webp image. */
	ResourceTypeImage
	/** @brief .amt material config. */
	ResourceTypeMaterial
	/** @brief SPIR-V shader bytecode. */
	ResourceTypeShader
	/** @brief TrueType/OpenType font binary. */
	ResourceTypeSystemFont
	/** @brief .fontcfg system font description. */
	ResourceTypeFontConfig
	/** @brief lz4 compressed blob. */
	ResourceTypeCompressed
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeBinary:
		return "binary"
	case ResourceTypeImage:
		return "image"
	case ResourceTypeMaterial:
		return "material"
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeSystemFont:
		return "font"
	case ResourceTypeFontConfig:
		return "fontcfg"
	case ResourceTypeCompressed:
		return "lz4"
	default:
		return "none"
	}
}

// Resource is a decoded asset. Data holds the decoder's result: []byte,
// *loaders.ImageResourceData, *loaders.MaterialConfig, []uint32,
// *opentype.Collection or *loaders.SystemFontConfig.
type Resource struct {
	Path     string
	Type     ResourceType
	DataSize uint64
	Data     interface{}
}

// Decoder turns a loaded resource into its typed form.
type Decoder func(loaded loader.Loaded, id string) (interface{}, error)

var decoders = map[ResourceType]Decoder{
	ResourceTypeBinary: func(l loader.Loaded, id string) (interface{}, error) {
		return loader.Get(l, id)
	},
	ResourceTypeImage: func(l loader.Loaded, id string) (interface{}, error) {
		return loaders.GetImage(l, id)
	},
	ResourceTypeMaterial: func(l loader.Loaded, id string) (interface{}, error) {
		return loaders.GetMaterial(l, id)
	},
	ResourceTypeShader: func(l loader.Loaded, id string) (interface{}, error) {
		return loaders.GetSPIRV(l, id)
	},
	ResourceTypeSystemFont: func(l loader.Loaded, id string) (interface{}, error) {
		return loaders.GetFont(l, id)
	},
	ResourceTypeFontConfig: func(l loader.Loaded, id string) (interface{}, error) {
		return loaders.GetSystemFontConfig(l, id)
	},
	ResourceTypeCompressed: func(l loader.Loaded, id string) (interface{}, error) {
		return loaders.GetDecompressed(l, id)
	},
}
