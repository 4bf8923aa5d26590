// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filename derives book metadata from the naming convention
//
//	Author - Title [tag1, tag2].pdf
//
// Every part is optional. Parsing is best-effort and never fails.
package filename

import "strings"

const (
	authorSeparator = " - "
	tagOpen         = "["
	tagClose        = "]"
	tagSeparator    = ","
)

// Metadata holds the fields parsed from a file name.
type Metadata struct {
	Title  string
	Author string
	Tags   []string
}

// HasExt reports whether name ends with ext, ignoring case.
func HasExt(name, ext string) bool {
	if len(name) < len(ext) {
		return false
	}
	return strings.EqualFold(name[len(name)-len(ext):], ext)
}

// TrimExt removes ext from the end of name when HasExt reports true.
func TrimExt(name, ext string) string {
	if !HasExt(name, ext) {
		return name
	}
	return name[:len(name)-len(ext)]
}

// Parse splits a file name into title, author and tags.
//
// Tags are read from the text between the last "[" and the last "]". When
// the last "]" comes before the last "[" the tag text is empty. Everything
// from the last "[" onward is dropped before the author split. The author is
// the text before the first " - "; later separators stay in the title.
// Tags is never nil.
func Parse(name, ext string) Metadata {
	base := TrimExt(name, ext)

	tags := []string{}
	start := strings.LastIndex(base, tagOpen)
	end := strings.LastIndex(base, tagClose)
	if start >= 0 && end >= 0 {
		var inner string
		if end > start {
			inner = base[start+len(tagOpen) : end]
		}
		tags = splitTags(inner)
		base = strings.TrimSpace(base[:start])
	}

	author, title, found := strings.Cut(base, authorSeparator)
	if !found {
		return Metadata{Title: strings.TrimSpace(base), Tags: tags}
	}
	return Metadata{
		Title:  strings.TrimSpace(title),
		Author: strings.TrimSpace(author),
		Tags:   tags,
	}
}

func splitTags(s string) []string {
	parts := strings.Split(s, tagSeparator)
	tags := make([]string, len(parts))
	for i, p := range parts {
		tags[i] = strings.TrimSpace(p)
	}
	return tags
}
