// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data types shared across bookshelf packages.
package types

const (
	// MetadataSourceFilename marks entries whose metadata was parsed from the
	// file name. Later enrichment stages may replace it with a richer source.
	MetadataSourceFilename = "filename"

	// UncategorizedField is the field assigned to books that sit directly in
	// the root folder.
	UncategorizedField = "Uncategorized"
)

// Book is one manifest entry describing a single PDF on disk.
// Field order matches the key order of the written manifest.
type Book struct {
	// ID is the 1-based position of the book in traversal order, as a decimal string.
	ID string `json:"id" yaml:"id"`

	// Title is parsed from the file name.
	Title string `json:"title" yaml:"title"`

	// Author is parsed from the file name; empty when the name has no " - " separator.
	Author string `json:"author" yaml:"author"`

	// Field is the name of the containing folder, or UncategorizedField.
	Field string `json:"field" yaml:"field"`

	// Tags come from the trailing bracketed segment of the file name.
	Tags []string `json:"tags" yaml:"tags"`

	// Description is left empty for manual enrichment.
	Description string `json:"description" yaml:"description"`

	// Path is the root-joined file path using forward slashes.
	Path string `json:"path" yaml:"path"`

	// SizeBytes is the file size at scan time.
	SizeBytes int64 `json:"sizeBytes" yaml:"sizeBytes"`

	// AddedAt is the scan time in milliseconds since the Unix epoch.
	AddedAt int64 `json:"addedAt" yaml:"addedAt"`

	MetadataSource string `json:"metadataSource" yaml:"metadataSource"`
}
