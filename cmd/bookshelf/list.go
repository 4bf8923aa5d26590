// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookshelf/internal/config"
	"github.com/pdiddy/bookshelf/internal/manifest"
	"github.com/pdiddy/bookshelf/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List books in an existing manifest",
	Long: `List reads a manifest written by generate and prints its books, optionally
filtered by field, tag, or author. The manifest is never modified.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	books, err := readManifest(cmd)
	if err != nil {
		return err
	}

	field, _ := cmd.Flags().GetString("field")
	tag, _ := cmd.Flags().GetString("tag")
	author, _ := cmd.Flags().GetString("author")
	books = manifest.Select(books, manifest.Filter{Field: field, Tag: tag, Author: author})

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(books)
	}
	writeBookTable(cmd.OutOrStdout(), books)
	return nil
}

// readManifest loads the manifest named by --manifest, falling back to the
// configured output path.
func readManifest(cmd *cobra.Command) ([]types.Book, error) {
	path, _ := cmd.Flags().GetString("manifest")
	if path == "" {
		path = viper.GetString(config.KeyOutput)
	}
	return manifest.Read(afero.NewOsFs(), path)
}

func writeBookTable(w io.Writer, books []types.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-40s  %-20s  %-16s  %-24s  %s\n",
		"ID", "Title", "Author", "Field", "Tags", "Size")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, b := range books {
		fmt.Fprintf(w, "%-4s  %-40s  %-20s  %-16s  %-24s  %s\n",
			b.ID,
			truncate(b.Title, 40),
			truncate(b.Author, 20),
			truncate(b.Field, 16),
			truncate(strings.Join(b.Tags, ", "), 24),
			humanize.Bytes(uint64(b.SizeBytes)))
	}

	fmt.Fprintf(w, "\n%d books\n", len(books))
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func init() {
	listCmd.Flags().StringP("manifest", "m", "", "manifest to read (default: the configured output)")
	listCmd.Flags().String("field", "", "only books in this field")
	listCmd.Flags().String("tag", "", "only books carrying this tag")
	listCmd.Flags().String("author", "", "only books whose author contains this text")
	listCmd.Flags().Bool("json", false, "print the selected books as JSON")

	rootCmd.AddCommand(listCmd)
}
