package loaders

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/spaghettifunk/anima-io/engine/core"
	"github.com/spaghettifunk/anima-io/engine/loader"
	"github.com/spaghettifunk/anima-io/engine/math"
)

type MaterialConfig struct {
	/** @brief The name of the material. */
	Name string
	/** @brief The shader the material is rendered with. */
	ShaderName string
	/** @brief Indicates if the material should be automatically released when no references to it remain. */
	AutoRelease bool
	/** @brief The diffuse colour of the material. */
	DiffuseColour math.Vec4
	/** @brief The shininess of the material. */
	Shininess float32
	/** @brief The diffuse map name. */
	DiffuseMapName string
	/** @brief The specular map name. */
	SpecularMapName string
	/** @brief The normal map name. */
	NormalMapName string
}

// GetMaterial parses id in the .amt key=value material format.
func GetMaterial(loaded loader.Loaded, id string) (*MaterialConfig, error) {
	buf, err := loader.Get(loaded, id)
	if err != nil {
		return nil, err
	}
	mCfg, err := parseAMT(buf)
	if err != nil {
		return nil, &DecodeError{ID: id, Format: "amt", Err: err}
	}
	return mCfg, nil
}

func parseAMT(buf []byte) (*MaterialConfig, error) {
	scanner := bufio.NewScanner(bytes.NewReader(buf))
	materialConfig := &MaterialConfig{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		// Split key-value pairs by the first "=" sign
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			core.LogWarn("Skipping invalid line: %s", line)
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "name":
			materialConfig.Name = value
		case "shader":
			materialConfig.ShaderName = value
		case "diffuse_colour":
			colour, err := parseVec4(value)
			if err != nil {
				return nil, fmt.Errorf("invalid diffuse_colour: %w", err)
			}
			materialConfig.DiffuseColour = colour
		case "shininess":
			shininess, err := strconv.ParseFloat(value, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid shininess value: %s", value)
			}
			materialConfig.Shininess = float32(shininess)
		case "diffuse_map_name":
			materialConfig.DiffuseMapName = value
		case "specular_map_name":
			materialConfig.SpecularMapName = value
		case "normal_map_name":
			materialConfig.NormalMapName = value
		case "autorelease":
			autoRelease, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("invalid autorelease value: %s", value)
			}
			materialConfig.AutoRelease = autoRelease
		default:
			core.LogWarn("Unknown material key '%s'. Skipping...", key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := validateMaterial(materialConfig); err != nil {
		return nil, err
	}
	return materialConfig, nil
}

func parseVec4(value string) (math.Vec4, error) {
	var v math.Vec4
	fields := strings.Fields(value)
	if len(fields) != 4 {
		return v, fmt.Errorf("expected 4 values, got %d", len(fields))
	}
	out := [4]*float32{&v.X, &v.Y, &v.Z, &v.W}
	for i, f := range fields {
		parsed, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return v, fmt.Errorf("invalid value: %s", f)
		}
		*out[i] = float32(parsed)
	}
	return v, nil
}

func validateMaterial(material *MaterialConfig) error {
	if material.Name == "" {
		return fmt.Errorf("material name is required")
	}

	if material.ShaderName == "" {
		return fmt.Errorf("shader name is required")
	}

	if !isValidVec4(material.DiffuseColour) {
		return fmt.Errorf("diffuse_colour values must be between 0.0 and 1.0")
	}

	if material.Shininess < 0 {
		return fmt.Errorf("shininess must be a non-negative value")
	}

	return nil
}

func isValidVec4(v math.Vec4) bool {
	return inRange(v.X) && inRange(v.Y) && inRange(v.Z) && inRange(v.W)
}

func inRange(value float32) bool {
	return math.Clamp(value, 0, 1) == value
}
