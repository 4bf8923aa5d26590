// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/bookshelf/pkg/types"
)

// Result summarizes one generation run.
type Result struct {
	Output string
	Format types.ManifestFormat
	Books  int
}

// Generate scans cfg.Root with b, writes the manifest to cfg.Output and
// prints a summary line to w. Nothing is written if the scan fails.
func Generate(ctx context.Context, b *Builder, cfg types.ManifestConfig, w io.Writer) (Result, error) {
	format, err := FormatFor(cfg.Output, cfg.Format)
	if err != nil {
		return Result{}, err
	}

	books, err := b.Build(ctx, cfg.Root, w)
	if err != nil {
		return Result{}, fmt.Errorf("scanning %s: %w", cfg.Root, err)
	}

	if err := Write(b.Fs, cfg.Output, books, format); err != nil {
		return Result{}, err
	}

	fmt.Fprintf(w, "\n✓ Generated %s with %d books\n", cfg.Output, len(books))
	return Result{Output: cfg.Output, Format: format, Books: len(books)}, nil
}
