// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/pdiddy/bookshelf/pkg/types"
)

// Write encodes books and replaces the file at path with the result.
//
// The data is encoded in memory and written to a temporary file next to path,
// which is then renamed over path. On any failure path is left untouched.
// A replaced file keeps its permission bits; a new file is created 0644.
func Write(fs afero.Fs, path string, books []types.Book, format types.ManifestFormat) error {
	data, err := Encode(books, format)
	if err != nil {
		return err
	}

	tmp, err := afero.TempFile(fs, filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	mode := os.FileMode(0o644)
	if fi, err := fs.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := fs.Chmod(tmpName, mode); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
