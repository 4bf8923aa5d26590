// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bookshelf CLI.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookshelf/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// logger writes diagnostics to stderr. PersistentPreRunE replaces it once
// --verbose is known.
var logger = newLogger(false)

// rootCmd is the base command for the bookshelf CLI. Run without a
// subcommand it behaves like generate.
var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "Build a JSON manifest of a PDF library from its file names",
	Long: `bookshelf walks a folder of PDF books and writes a manifest describing
each one. Metadata comes from the file name and the folder it sits in:

  Books/Math/Euler - Introductio [calculus, classic].pdf

becomes a book titled "Introductio" by "Euler" in the field "Math" with tags
"calculus" and "classic". Books directly in the root folder get the field
"Uncategorized".

Running bookshelf with no subcommand is the same as "bookshelf generate".`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		cfgFile, _ := cmd.Flags().GetString("config")
		used, err := config.Init(viper.GetViper(), cfgFile, ".env")
		if err != nil {
			return err
		}

		logger = newLogger(viper.GetBool(config.KeyVerbose))
		if used != "" {
			logger.Debug("using config file", slog.String("path", used))
		}
		return nil
	},
	RunE: runGenerate,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bookshelf.yaml or ~/.config/bookshelf/bookshelf.yaml)")
	rootCmd.PersistentFlags().BoolP(config.KeyVerbose, "v", false, "enable debug logging on stderr")

	addManifestFlags(rootCmd.Flags())
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("bookshelf failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}
