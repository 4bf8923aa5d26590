// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize an existing manifest by field",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		books, err := readManifest(cmd)
		if err != nil {
			return err
		}
		s := manifest.Summarize(books)

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}
		writeStats(cmd.OutOrStdout(), s)
		return nil
	},
}

func writeStats(w io.Writer, s manifest.Summary) {
	fmt.Fprintf(w, "Books:   %d\n", s.Books)
	fmt.Fprintf(w, "Size:    %s\n", humanize.Bytes(uint64(s.SizeBytes)))
	fmt.Fprintf(w, "Authors: %d\n", s.Authors)
	fmt.Fprintf(w, "Tags:    %d\n", s.Tags)
	if len(s.Fields) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%-24s  %6s  %s\n", "Field", "Books", "Size")
	fmt.Fprintln(w, strings.Repeat("-", 44))
	for _, f := range s.Fields {
		fmt.Fprintf(w, "%-24s  %6d  %s\n", truncate(f.Field, 24), f.Books, humanize.Bytes(uint64(f.SizeBytes)))
	}
}

func init() {
	statsCmd.Flags().StringP("manifest", "m", "", "manifest to read (default: the configured output)")
	statsCmd.Flags().Bool("json", false, "print the summary as JSON")

	rootCmd.AddCommand(statsCmd)
}
