// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/pdiddy/bookshelf/pkg/types"
)

// Read loads the manifest at path. The format is chosen from the file
// extension, as FormatFor does with no explicit format.
func Read(fs afero.Fs, path string) ([]types.Book, error) {
	format, err := FormatFor(path, "")
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return Decode(data, format)
}
