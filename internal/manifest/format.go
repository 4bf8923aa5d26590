// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bookshelf/pkg/types"
)

// ErrUnknownFormat is returned for a manifest format other than json or yaml.
var ErrUnknownFormat = errors.New("unknown manifest format")

// FormatFor resolves the manifest format for path. An explicit format wins;
// otherwise .yaml and .yml select YAML and anything else selects JSON.
func FormatFor(path string, explicit types.ManifestFormat) (types.ManifestFormat, error) {
	switch explicit {
	case types.FormatJSON, types.FormatYAML:
		return explicit, nil
	case "":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, explicit)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return types.FormatYAML, nil
	default:
		return types.FormatJSON, nil
	}
}

// Encode serializes books. JSON output is indented by two spaces with
// non-ASCII and HTML characters written literally. Nil slices are written as
// empty arrays.
func Encode(books []types.Book, format types.ManifestFormat) ([]byte, error) {
	books = normalize(books)

	switch format {
	case types.FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(books); err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return unescapeLineSeparators(buf.Bytes()), nil
	case types.FormatYAML:
		data, err := yaml.Marshal(books)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// unescapeLineSeparators rewrites the \u2028 and \u2029 escapes that
// encoding/json always emits back to the literal characters. Escaped
// backslashes are skipped so a literal "\\u2028" in a string is kept.
func unescapeLineSeparators(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if data[i+1] == 'u' && i+6 <= len(data) {
			switch string(data[i+2 : i+6]) {
			case "2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// Decode parses a manifest previously produced by Encode.
func Decode(data []byte, format types.ManifestFormat) ([]types.Book, error) {
	var books []types.Book
	switch format {
	case types.FormatJSON:
		if err := json.Unmarshal(data, &books); err != nil {
			return nil, fmt.Errorf("parsing JSON manifest: %w", err)
		}
	case types.FormatYAML:
		if err := yaml.Unmarshal(data, &books); err != nil {
			return nil, fmt.Errorf("parsing YAML manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return normalize(books), nil
}

func normalize(books []types.Book) []types.Book {
	out := make([]types.Book, len(books))
	for i, b := range books {
		if b.Tags == nil {
			b.Tags = []string{}
		}
		out[i] = b
	}
	return out
}
