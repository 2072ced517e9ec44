// Package scenefile reads session.Props from JSON, YAML or TOML files and watches them for changes.
package scenefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-mol/engine/session"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a scene file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from the file extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Format: the format
//   - error: error if the extension is not recognised
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported scene file extension %q", filepath.Ext(path))
	}
}

// Load reads and decodes a scene file.
//
// Parameters:
//   - path: the file path, its extension selects the format
//
// Returns:
//   - session.Props: the decoded props
//   - error: error if the file cannot be read or decoded
func Load(path string) (session.Props, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return session.Props{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return session.Props{}, fmt.Errorf("failed to read scene file: %w", err)
	}
	props, err := Decode(data, format)
	if err != nil {
		return session.Props{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return props, nil
}

// Decode parses data in the given format. YAML and TOML documents are normalised to JSON first so
// every format shares the JSON field names of session.Props.
//
// Parameters:
//   - data: the document
//   - format: its encoding
//
// Returns:
//   - session.Props: the decoded props
//   - error: error if the document is malformed
func Decode(data []byte, format Format) (session.Props, error) {
	var (
		jsonData []byte
		err      error
	)
	switch format {
	case FormatJSON:
		jsonData = data
	case FormatYAML:
		var doc any
		if err = yaml.Unmarshal(data, &doc); err != nil {
			return session.Props{}, fmt.Errorf("invalid yaml: %w", err)
		}
		jsonData, err = json.Marshal(normalize(doc))
	case FormatTOML:
		doc := map[string]any{}
		if err = toml.Unmarshal(data, &doc); err != nil {
			return session.Props{}, fmt.Errorf("invalid toml: %w", err)
		}
		jsonData, err = json.Marshal(normalize(doc))
	default:
		return session.Props{}, fmt.Errorf("unsupported scene format %q", format)
	}
	if err != nil {
		return session.Props{}, fmt.Errorf("failed to normalize %s: %w", format, err)
	}

	var props session.Props
	if len(bytes.TrimSpace(jsonData)) == 0 || string(jsonData) == "null" {
		return props, nil
	}
	if err := json.Unmarshal(jsonData, &props); err != nil {
		return session.Props{}, fmt.Errorf("invalid scene: %w", err)
	}
	return props, nil
}

// normalize rewrites YAML maps with non-string keys (such as per-serial styles) into string-keyed
// maps encoding/json accepts.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
