// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest builds book manifests from a folder tree, writes them as
// JSON or YAML, and reads them back for reporting.
package manifest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/pdiddy/bookshelf/internal/filename"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// Builder scans a folder tree and assembles one Book per matching file.
type Builder struct {
	// Fs is the filesystem walked. Production code uses afero.NewOsFs().
	Fs afero.Fs

	// Ext is the qualifying file suffix, matched case-insensitively.
	Ext string

	// Now stamps AddedAt. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// NewBuilder returns a Builder over fs matching files that end in ext.
func NewBuilder(fs afero.Fs, ext string, logger *slog.Logger) *Builder {
	return &Builder{
		Fs:     fs,
		Ext:    ext,
		Now:    time.Now,
		Logger: logger,
	}
}

// Build walks root and returns the books found, in visit order, with IDs
// 1..N. It prints "Added: <title> (<field>)" to w for every book.
//
// The root itself is resolved with Stat, so a root that is a symlink to a
// directory is scanned. Entries below it are read with Lstat and symlinked
// subdirectories are not descended.
//
// A missing or unreadable root yields an empty, non-nil slice and no error.
// Unreadable subdirectories are skipped. Failing to stat a matching file
// aborts the walk and returns the error.
func (b *Builder) Build(ctx context.Context, root string, w io.Writer) ([]types.Book, error) {
	rootDir := filepath.Clean(root)
	books := []types.Book{}
	nextID := 1

	names, err := b.rootNames(root)
	if err != nil {
		b.logger().Debug("root folder not readable, manifest will be empty",
			slog.String("root", root), slog.String("error", err.Error()))
		return books, nil
	}

	walkFn := func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return b.walkError(path, info, walkErr)
		}
		if info.IsDir() || !filename.HasExt(info.Name(), b.Ext) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		book, err := b.entry(path, rootDir, nextID)
		if err != nil {
			return err
		}
		books = append(books, book)
		nextID++
		fmt.Fprintf(w, "Added: %s (%s)\n", book.Title, book.Field)
		return nil
	}

	for _, name := range names {
		if err := afero.Walk(b.Fs, filepath.Join(root, name), walkFn); err != nil {
			return nil, err
		}
	}

	b.logger().Debug("scan complete", slog.String("root", root), slog.Int("books", len(books)))
	return books, nil
}

// rootNames returns the sorted entry names of root, following a symlinked
// root. A root that is not a directory has no entries.
func (b *Builder) rootNames(root string) ([]string, error) {
	info, err := b.Fs.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		b.logger().Debug("root is not a directory", slog.String("root", root))
		return nil, nil
	}

	dir, err := b.Fs.Open(root)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (b *Builder) walkError(path string, info os.FileInfo, err error) error {
	if info != nil && info.IsDir() {
		b.logger().Warn("skipping unreadable directory",
			slog.String("path", path), slog.String("error", err.Error()))
		return nil
	}
	if filename.HasExt(filepath.Base(path), b.Ext) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// entry assembles the Book for the file at path.
func (b *Builder) entry(path, rootDir string, id int) (types.Book, error) {
	stat, err := b.Fs.Stat(path)
	if err != nil {
		return types.Book{}, fmt.Errorf("reading size of %s: %w", path, err)
	}

	meta := filename.Parse(filepath.Base(path), b.Ext)
	return types.Book{
		ID:             strconv.Itoa(id),
		Title:          meta.Title,
		Author:         meta.Author,
		Field:          fieldOf(path, rootDir),
		Tags:           meta.Tags,
		Description:    "",
		Path:           strings.ReplaceAll(path, `\`, "/"),
		SizeBytes:      stat.Size(),
		AddedAt:        b.now().UnixMilli(),
		MetadataSource: types.MetadataSourceFilename,
	}, nil
}

// fieldOf returns the name of the folder holding path, or UncategorizedField
// when that folder is the root itself.
func fieldOf(path, rootDir string) string {
	dir := filepath.Dir(path)
	if dir == rootDir {
		return types.UncategorizedField
	}
	return filepath.Base(dir)
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b.Logger
}
