package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes and validates a schema from YAML.
func ParseYAML(data []byte) (Schema, error) {
	var s Schema
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return Schema{}, fmt.Errorf("schema: decode yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// ParseJSON decodes and validates a schema from JSON.
func ParseJSON(data []byte) (Schema, error) {
	var s Schema
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return Schema{}, fmt.Errorf("schema: decode json: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// Read decodes a schema from r using the given format, "yaml" or "json".
func Read(r io.Reader, format string) (Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: read: %w", err)
	}
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return ParseYAML(data)
	case "json":
		return ParseJSON(data)
	default:
		return Schema{}, fmt.Errorf("schema: unsupported format %q", format)
	}
}

// LoadFile reads a schema document, picking the format from the file
// extension.
func LoadFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return Read(bytes.NewReader(data), ext)
}
