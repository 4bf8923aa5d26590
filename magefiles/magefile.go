//go:build mage

// Package main contains Mage build targets for bookshelf developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir   = "bin"
	binName  = "bookshelf"
	cmdPkg   = "./cmd/bookshelf"
	booksDir = "Books"
)

// Default runs when mage is invoked without a target.
var Default = Build

// Init creates the default book folder and one example field folder.
func Init() error {
	for _, dir := range []string{booksDir, filepath.Join(booksDir, "Math")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Book folder initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + version()
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests for every package.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Manifest builds the CLI and regenerates books.json from the Books folder.
func Manifest() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "generate")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// version returns the value for main.version: $VERSION when set, otherwise
// the output of git describe, otherwise "dev".
func version() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	if v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty"); err == nil && v != "" {
		return v
	}
	return "dev"
}
