package loaders

import (
	"fmt"

	"github.com/spaghettifunk/anima-io/engine/loader"
)

// GetSPIRV returns the shader bytecode of id as little-endian 32 bit words.
func GetSPIRV(loaded loader.Loaded, id string) ([]uint32, error) {
	buf, err := loader.Get(loaded, id)
	if err != nil {
		return nil, err
	}
	if len(buf)%4 != 0 {
		return nil, &DecodeError{
			ID:     id,
			Format: "spirv",
			Err:    fmt.Errorf("size %d is not a multiple of 4", len(buf)),
		}
	}
	return bytesToBytecode(buf), nil
}

func bytesToBytecode(b []byte) []uint32 {
	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = 0
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}

	return byteCode
}
