// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bookshelf/pkg/types"
)

var fixedNow = time.UnixMilli(1_700_000_000_000)

// --- test helpers ---

// tempFs returns a filesystem rooted at a fresh temp directory so tests can
// use relative paths such as "Books/Math".
func tempFs(t *testing.T) afero.Fs {
	t.Helper()
	return afero.NewBasePathFs(afero.NewOsFs(), t.TempDir())
}

func writeBook(t *testing.T, fs afero.Fs, path string, size int) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, bytes.Repeat([]byte("x"), size), 0o644))
}

func testBuilder(fs afero.Fs) *Builder {
	b := NewBuilder(fs, ".pdf", nil)
	b.Now = func() time.Time { return fixedNow }
	return b
}

func paths(books []types.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Path
	}
	return out
}

// statFailFs fails Stat for any name ending in failSuffix.
type statFailFs struct {
	afero.Fs
	failSuffix string
}

func (f statFailFs) Stat(name string) (os.FileInfo, error) {
	if strings.HasSuffix(name, f.failSuffix) {
		return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.Stat(name)
}

// --- tests ---

func TestBuild_CategorizedBook(t *testing.T) {
	fs := tempFs(t)
	writeBook(t, fs, "Books/Math/Euler - Introductio [calculus, classic].pdf", 1_048_576)

	var out bytes.Buffer
	books, err := testBuilder(fs).Build(context.Background(), "Books", &out)
	require.NoError(t, err)

	want := []types.Book{{
		ID:             "1",
		Title:          "Introductio",
		Author:         "Euler",
		Field:          "Math",
		Tags:           []string{"calculus", "classic"},
		Description:    "",
		Path:           "Books/Math/Euler - Introductio [calculus, classic].pdf",
		SizeBytes:      1_048_576,
		AddedAt:        fixedNow.UnixMilli(),
		MetadataSource: "filename",
	}}
	assert.Equal(t, want, books)
	assert.Equal(t, "Added: Introductio (Math)\n", out.String())
}

func TestBuild_FileInRootIsUncategorized(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		wantPath string
	}{
		{name: "plain root", root: "Books", wantPath: "Books/plainname.pdf"},
		{name: "trailing slash", root: "Books/", wantPath: "Books/plainname.pdf"},
		{name: "dot prefix", root: "./Books", wantPath: "Books/plainname.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := tempFs(t)
			writeBook(t, fs, "Books/plainname.pdf", 10)

			books, err := testBuilder(fs).Build(context.Background(), tt.root, &bytes.Buffer{})
			require.NoError(t, err)
			require.Len(t, books, 1)
			assert.Equal(t, types.UncategorizedField, books[0].Field)
			assert.Equal(t, "", books[0].Author)
			assert.Equal(t, "plainname", books[0].Title)
			assert.Equal(t, []string{}, books[0].Tags)
			assert.Equal(t, tt.wantPath, books[0].Path)
		})
	}
}

func TestBuild_FieldIsImmediateParent(t *testing.T) {
	fs := tempFs(t)
	writeBook(t, fs, "Books/Science/Physics/Quantum/Dirac - Principles.pdf", 5)
	writeBook(t, fs, "Books/Books/Nested.pdf", 5)

	books, err := testBuilder(fs).Build(context.Background(), "Books", &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, books, 2)

	fields := map[string]string{}
	for _, b := range books {
		fields[b.Title] = b.Field
	}
	assert.Equal(t, "Quantum", fields["Principles"])
	// A subfolder that shares the root's name is still a real field.
	assert.Equal(t, "Books", fields["Nested"])
}

func TestBuild_OnlyMatchingFiles(t *testing.T) {
	fs := tempFs(t)
	writeBook(t, fs, "Books/keep.pdf", 1)
	writeBook(t, fs, "Books/UPPER.PDF", 1)
	writeBook(t, fs, "Books/notes.txt", 1)
	writeBook(t, fs, "Books/a/b/c/deep.epub", 1)
	writeBook(t, fs, "Books/a/b/c/deep.pdf", 1)
	writeBook(t, fs, "Books/pdf", 1)
	// A directory with a matching name is descended but not listed.
	writeBook(t, fs, "Books/folder.pdf/inside.pdf", 1)

	books, err := testBuilder(fs).Build(context.Background(), "Books", &bytes.Buffer{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"Books/keep.pdf",
		"Books/UPPER.PDF",
		"Books/a/b/c/deep.pdf",
		"Books/folder.pdf/inside.pdf",
	}, paths(books))

	for _, b := range books {
		if b.Path == "Books/UPPER.PDF" {
			assert.Equal(t, "UPPER", b.Title)
		}
		if b.Path == "Books/folder.pdf/inside.pdf" {
			assert.Equal(t, "folder.pdf", b.Field)
		}
	}
}

func TestBuild_IDsAreDenseInVisitOrder(t *testing.T) {
	fs := tempFs(t)
	writeBook(t, fs, "Books/b.pdf", 1)
	writeBook(t, fs, "Books/a.pdf", 1)
	writeBook(t, fs, "Books/m/c.pdf", 1)
	writeBook(t, fs, "Books/z.pdf", 1)

	books, err := testBuilder(fs).Build(context.Background(), "Books", &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Books/a.pdf", "Books/b.pdf", "Books/m/c.pdf", "Books/z.pdf"}, paths(books))
	for i, b := range books {
		assert.Equal(t, []string{"1", "2", "3", "4"}[i], b.ID)
	}
}

func TestBuild_EmptyResults(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, fs afero.Fs)
		root  string
	}{
		{
			name:  "missing root",
			setup: func(t *testing.T, fs afero.Fs) {},
			root:  "Books",
		},
		{
			name: "empty root",
			setup: func(t *testing.T, fs afero.Fs) {
				require.NoError(t, fs.MkdirAll("Books", 0o755))
			},
			root: "Books",
		},
		{
			name: "root is a file",
			setup: func(t *testing.T, fs afero.Fs) {
				writeBook(t, fs, "Books.pdf", 3)
			},
			root: "Books.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := tempFs(t)
			tt.setup(t, fs)

			var out bytes.Buffer
			books, err := testBuilder(fs).Build(context.Background(), tt.root, &out)
			require.NoError(t, err)
			assert.NotNil(t, books)
			assert.Empty(t, books)
			assert.Empty(t, out.String())
		})
	}
}

func TestBuild_StatFailureAborts(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeBook(t, mem, "/lib/Books/good.pdf", 1)
	writeBook(t, mem, "/lib/Books/broken.pdf", 1)

	fs := statFailFs{Fs: mem, failSuffix: "broken.pdf"}
	books, err := testBuilder(fs).Build(context.Background(), "/lib/Books", &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.Contains(t, err.Error(), "broken.pdf")
	assert.Nil(t, books)
}

func TestBuild_StatFailureOnOtherFilesIsIgnored(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeBook(t, mem, "/lib/Books/good.pdf", 1)
	writeBook(t, mem, "/lib/Books/broken.txt", 1)

	fs := statFailFs{Fs: mem, failSuffix: "broken.txt"}
	books, err := testBuilder(fs).Build(context.Background(), "/lib/Books", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"/lib/Books/good.pdf"}, paths(books))
}

func TestBuild_ContextCancelled(t *testing.T) {
	fs := tempFs(t)
	writeBook(t, fs, "Books/one.pdf", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testBuilder(fs).Build(ctx, "Books", &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_RerunOnlyChangesIDAndTime(t *testing.T) {
	fs := tempFs(t)
	writeBook(t, fs, "Books/Math/Euler - Introductio [calculus].pdf", 7)
	writeBook(t, fs, "Books/History/Gibbon - Decline and Fall.pdf", 9)
	writeBook(t, fs, "Books/loose.pdf", 2)

	b := NewBuilder(fs, ".pdf", nil)
	first, err := b.Build(context.Background(), "Books", &bytes.Buffer{})
	require.NoError(t, err)
	second, err := b.Build(context.Background(), "Books", &bytes.Buffer{})
	require.NoError(t, err)

	strip := func(books []types.Book) []types.Book {
		out := make([]types.Book, len(books))
		for i, bk := range books {
			bk.ID, bk.AddedAt = "", 0
			out[i] = bk
		}
		return out
	}
	assert.ElementsMatch(t, strip(first), strip(second))

	for _, bk := range first {
		assert.Greater(t, bk.AddedAt, int64(1_600_000_000_000), "addedAt should be a millisecond timestamp")
	}
}

func TestBuild_CustomExtension(t *testing.T) {
	fs := tempFs(t)
	writeBook(t, fs, "Books/Austen - Emma [novel].epub", 4)
	writeBook(t, fs, "Books/ignored.pdf", 4)

	b := testBuilder(fs)
	b.Ext = ".epub"
	books, err := b.Build(context.Background(), "Books", &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Emma", books[0].Title)
	assert.Equal(t, "Austen", books[0].Author)
	assert.Equal(t, []string{"novel"}, books[0].Tags)
}

func TestBuild_SymlinkedRoot(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewOsFs()
	writeBook(t, fs, filepath.Join(dir, "real", "Math", "Euler - Introductio.pdf"), 5)
	writeBook(t, fs, filepath.Join(dir, "real", "loose.pdf"), 2)
	root := filepath.Join(dir, "Books")
	require.NoError(t, os.Symlink(filepath.Join(dir, "real"), root))

	var out bytes.Buffer
	books, err := testBuilder(fs).Build(context.Background(), root, &out)
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, "Euler", books[0].Author)
	assert.Equal(t, "Math", books[0].Field)
	assert.Equal(t, filepath.ToSlash(filepath.Join(root, "Math", "Euler - Introductio.pdf")), books[0].Path)
	assert.Equal(t, int64(5), books[0].SizeBytes)

	assert.Equal(t, types.UncategorizedField, books[1].Field)
	assert.Equal(t, "2", books[1].ID)
	assert.Contains(t, out.String(), "Added: Introductio (Math)")
}

func TestBuild_SymlinkedSubdirectoryNotDescended(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewOsFs()
	writeBook(t, fs, filepath.Join(dir, "Books", "Math", "a.pdf"), 1)
	writeBook(t, fs, filepath.Join(dir, "elsewhere", "b.pdf"), 1)
	require.NoError(t, os.Symlink(filepath.Join(dir, "elsewhere"), filepath.Join(dir, "Books", "Linked")))

	books, err := testBuilder(fs).Build(context.Background(), filepath.Join(dir, "Books"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.ToSlash(filepath.Join(dir, "Books", "Math", "a.pdf"))}, paths(books))
}
