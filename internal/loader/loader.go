// Package loader reads and writes documents as JSON or YAML files.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"invoiceprinter/internal/logger"
	"invoiceprinter/pkg/models"
)

// Format is a structured-data encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// LoadFile reads a document from a .json, .yaml or .yml file.
func LoadFile(path string) (models.Document, error) {
	const op = "LoadFile"
	log := logger.WithFile("loader", path)

	format, err := FormatForPath(path)
	if err != nil {
		return models.Document{}, &LoadError{Op: op, Path: path, Err: err}
	}

	file, err := os.Open(path)
	if err != nil {
		return models.Document{}, &LoadError{Op: op, Path: path, Err: err}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close document file")
		}
	}()

	doc, err := Decode(file, format)
	if err != nil {
		log.Error().Err(err).Str("format", string(format)).Msg("Failed to load document")
		return models.Document{}, &LoadError{Op: op, Path: path, Err: err}
	}

	log.Debug().
		Str("number", doc.Number()).
		Int("items", len(doc.Items())).
		Msg("Document loaded")
	return doc, nil
}

// Decode reads one document in the given format.
func Decode(r io.Reader, format Format) (models.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Document{}, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Document{}, ErrEmptyInput
	}

	raw, err := decodeMap(data, format)
	if err != nil {
		return models.Document{}, err
	}
	return models.FromStructuredData(raw)
}

func decodeMap(data []byte, format Format) (map[string]interface{}, error) {
	var raw map[string]interface{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			return nil, fmt.Errorf("%w: unexpected data after the top-level value", ErrDecodeFailed)
		}
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
		}
		mapping, err := models.MappingFromYAML(&node)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
		}
		raw = mapping
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: top level is not a mapping", ErrDecodeFailed)
	}
	return raw, nil
}

// Encode writes the document in the given format, keys in document key order.
func Encode(w io.Writer, doc models.Document, format Format) error {
	return EncodeValue(w, doc, format)
}

// EncodeValue writes any value that embeds documents, e.g. an extraction
// report, as indented JSON or YAML.
func EncodeValue(w io.Writer, v interface{}, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteFile encodes the document to path.
func WriteFile(path string, doc models.Document, format Format) error {
	return WriteValue(path, doc, format)
}

// WriteValue encodes any value that embeds documents to path.
func WriteValue(path string, v interface{}, format Format) error {
	const op = "WriteFile"
	var buf bytes.Buffer
	if err := EncodeValue(&buf, v, format); err != nil {
		return &LoadError{Op: op, Path: path, Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return &LoadError{Op: op, Path: path, Err: err}
	}

	log := logger.WithFile("loader", path)
	log.Info().
		Int("bytes", buf.Len()).
		Str("format", string(format)).
		Msg("Document written to file")
	return nil
}
