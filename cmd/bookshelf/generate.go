// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookshelf/internal/config"
	"github.com/pdiddy/bookshelf/internal/manifest"
	"github.com/pdiddy/bookshelf/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Scan the book folder and write the manifest",
	Long: `Generate walks the root folder recursively, parses every file whose name
ends in the configured extension, and writes the manifest, replacing any
previous one. A missing root folder produces an empty manifest.

The manifest is written only after the whole folder has been scanned; if any
book cannot be read the existing manifest is left as it was.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

// addManifestFlags registers the flags shared by every command that writes
// a manifest. Flag names double as viper keys.
func addManifestFlags(fs *pflag.FlagSet) {
	fs.String(config.KeyRoot, config.DefaultRoot, "folder scanned for books")
	fs.StringP(config.KeyOutput, "o", config.DefaultOutput, "manifest file to write")
	fs.String(config.KeyExtension, config.DefaultExtension, "file extension that marks a book, matched case-insensitively")
	fs.String(config.KeyFormat, "", "manifest format: json or yaml (default: from the output file extension)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Manifest(viper.GetViper())
	if err != nil {
		return err
	}
	_, err = generate(cmd.Context(), cfg, cmd.OutOrStdout())
	return err
}

// generate runs one full scan-and-write pass against the OS filesystem.
func generate(ctx context.Context, cfg types.ManifestConfig, w io.Writer) (manifest.Result, error) {
	b := manifest.NewBuilder(afero.NewOsFs(), cfg.Extension, logger)
	res, err := manifest.Generate(ctx, b, cfg, w)
	if err != nil {
		return res, err
	}
	logger.Debug("manifest written",
		slog.String("output", res.Output),
		slog.String("format", string(res.Format)),
		slog.Int("books", res.Books))
	return res, nil
}

func init() {
	addManifestFlags(generateCmd.Flags())
	rootCmd.AddCommand(generateCmd)
}
