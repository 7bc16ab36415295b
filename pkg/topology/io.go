package topology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/topoviz/pkg/errors"
)

// Format is a serialization format for topology documents.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported topology file %q (want .json, .yaml, .yml or .toml)", path)
}

// =============================================================================
// Reading
// =============================================================================

// Read decodes a topology document and validates it.
func Read(r io.Reader, format Format) (*Topology, error) {
	var t Topology
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&t)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&t)
		if err == io.EOF {
			err = nil
		}
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&t)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	if err := Validate(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Unmarshal is Read over a byte slice.
func Unmarshal(data []byte, format Format) (*Topology, error) {
	return Read(bytes.NewReader(data), format)
}

// ReadFile reads a topology file, choosing the format by extension.
func ReadFile(path string) (*Topology, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// =============================================================================
// Writing
// =============================================================================

// Write encodes t in the given format.
func Write(w io.Writer, t *Topology, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(t); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
}

// Marshal is Write into a byte slice.
func Marshal(t *Topology, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, t, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes t to path, choosing the format by extension.
// The file is created with 0644 permissions.
func WriteFile(path string, t *Topology) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, t, format)
}
