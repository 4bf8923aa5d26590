// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ManifestFormat selects the serialization of the written manifest.
type ManifestFormat string

const (
	FormatJSON ManifestFormat = "json"
	FormatYAML ManifestFormat = "yaml"
)

// ManifestConfig holds the settings for one manifest generation run.
type ManifestConfig struct {
	// Root is the folder scanned for books (default "Books").
	Root string `json:"root" yaml:"root"`

	// Output is the manifest file path (default "books.json").
	Output string `json:"output" yaml:"output"`

	// Extension is the file suffix that qualifies a book, matched
	// case-insensitively (default ".pdf").
	Extension string `json:"extension" yaml:"extension"`

	// Format forces the output format. Empty means infer from Output.
	Format ManifestFormat `json:"format,omitempty" yaml:"format,omitempty"`
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	// Debounce is the quiet period after the last change before the
	// manifest is regenerated (default 500ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}
