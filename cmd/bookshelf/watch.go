// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookshelf/internal/config"
	"github.com/pdiddy/bookshelf/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the manifest whenever the book folder changes",
	Long: `Watch generates the manifest once, then keeps watching the root folder and
regenerates the whole manifest after each burst of changes. Stop it with
Ctrl-C. The root folder must exist.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Manifest(viper.GetViper())
	if err != nil {
		return err
	}
	wcfg := config.Watch(viper.GetViper())
	out := cmd.OutOrStdout()

	run := func(ctx context.Context) error {
		_, err := generate(ctx, cfg, out)
		return err
	}

	return watch.Watch(cmd.Context(), watch.Options{
		Root:     cfg.Root,
		Debounce: wcfg.Debounce,
		Ignore:   manifestFiles(cfg.Output),
		RunFirst: true,
		Logger:   logger,
	}, run)
}

// manifestFiles matches the manifest at output and the temp files written
// while replacing it, so regenerating into the watched tree does not loop.
func manifestFiles(output string) func(path string) bool {
	abs, err := filepath.Abs(output)
	if err != nil {
		abs = filepath.Clean(output)
	}
	dir, base := filepath.Dir(abs), filepath.Base(abs)
	tmpPrefix := "." + base + ".tmp-"

	return func(path string) bool {
		p, err := filepath.Abs(path)
		if err != nil || filepath.Dir(p) != dir {
			return false
		}
		name := filepath.Base(p)
		return name == base || strings.HasPrefix(name, tmpPrefix)
	}
}

func init() {
	addManifestFlags(watchCmd.Flags())
	watchCmd.Flags().Duration("debounce", config.DefaultDebounce, "quiet period after the last change before regenerating")
	if err := viper.BindPFlag(config.KeyDebounce, watchCmd.Flags().Lookup("debounce")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(watchCmd)
}
