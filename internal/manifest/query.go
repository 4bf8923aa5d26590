// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"sort"
	"strings"

	"github.com/pdiddy/bookshelf/pkg/types"
)

// Filter selects books from a manifest. Empty criteria match everything.
// Field and Tag compare case-insensitively; Author matches a substring.
type Filter struct {
	Field  string
	Author string
	Tag    string
}

// IsEmpty reports whether no criteria are set.
func (f Filter) IsEmpty() bool {
	return f.Field == "" && f.Author == "" && f.Tag == ""
}

// Match reports whether b satisfies every criterion in f.
func (f Filter) Match(b types.Book) bool {
	if f.Field != "" && !strings.EqualFold(b.Field, f.Field) {
		return false
	}
	if f.Author != "" && !strings.Contains(strings.ToLower(b.Author), strings.ToLower(f.Author)) {
		return false
	}
	if f.Tag != "" && !hasTag(b.Tags, f.Tag) {
		return false
	}
	return true
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

// Select returns the books matching f, preserving manifest order.
func Select(books []types.Book, f Filter) []types.Book {
	out := []types.Book{}
	for _, b := range books {
		if f.Match(b) {
			out = append(out, b)
		}
	}
	return out
}

// FieldSummary holds per-field totals.
type FieldSummary struct {
	Field     string `json:"field"`
	Books     int    `json:"books"`
	SizeBytes int64  `json:"sizeBytes"`
}

// Summary holds manifest-wide totals.
type Summary struct {
	Books     int            `json:"books"`
	SizeBytes int64          `json:"sizeBytes"`
	Authors   int            `json:"authors"`
	Tags      int            `json:"tags"`
	Fields    []FieldSummary `json:"fields"`
}

// Summarize totals books per field. Fields are sorted by name. Authors and
// Tags count distinct non-empty values.
func Summarize(books []types.Book) Summary {
	s := Summary{Fields: []FieldSummary{}}
	byField := map[string]*FieldSummary{}
	authors := map[string]bool{}
	tags := map[string]bool{}

	for _, b := range books {
		s.Books++
		s.SizeBytes += b.SizeBytes

		fs, ok := byField[b.Field]
		if !ok {
			fs = &FieldSummary{Field: b.Field}
			byField[b.Field] = fs
		}
		fs.Books++
		fs.SizeBytes += b.SizeBytes

		if b.Author != "" {
			authors[b.Author] = true
		}
		for _, t := range b.Tags {
			if t != "" {
				tags[t] = true
			}
		}
	}

	for _, fs := range byField {
		s.Fields = append(s.Fields, *fs)
	}
	sort.Slice(s.Fields, func(i, j int) bool {
		return s.Fields[i].Field < s.Fields[j].Field
	})
	s.Authors = len(authors)
	s.Tags = len(tags)
	return s
}
