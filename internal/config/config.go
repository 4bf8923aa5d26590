// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves bookshelf settings from flags, environment
// variables, a .env file and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookshelf/pkg/types"
)

// Viper keys. Flag names match the top-level keys so flags bind directly.
const (
	KeyRoot      = "root"
	KeyOutput    = "output"
	KeyExtension = "extension"
	KeyFormat    = "format"
	KeyDebounce  = "watch.debounce"
	KeyVerbose   = "verbose"
)

const (
	DefaultRoot      = "Books"
	DefaultOutput    = "books.json"
	DefaultExtension = ".pdf"
	DefaultDebounce  = 500 * time.Millisecond

	envPrefix  = "BOOKSHELF"
	configName = "bookshelf"
)

var extensionPattern = regexp.MustCompile(`^\.[^./\\]+$`)

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyRoot, DefaultRoot)
	v.SetDefault(KeyOutput, DefaultOutput)
	v.SetDefault(KeyExtension, DefaultExtension)
	v.SetDefault(KeyFormat, "")
	v.SetDefault(KeyDebounce, DefaultDebounce)
	v.SetDefault(KeyVerbose, false)
}

// Init prepares v: it loads envFile into the process environment (a missing
// file is fine), enables BOOKSHELF_* environment variables and reads the
// config file. With cfgFile empty it looks for bookshelf.yaml in the working
// directory and then in ~/.config/bookshelf/; not finding one is fine.
// It returns the path of the config file used, if any.
func Init(v *viper.Viper, cfgFile, envFile string) (string, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Manifest builds a validated ManifestConfig from v.
func Manifest(v *viper.Viper) (types.ManifestConfig, error) {
	cfg := types.ManifestConfig{
		Root:      v.GetString(KeyRoot),
		Output:    v.GetString(KeyOutput),
		Extension: v.GetString(KeyExtension),
		Format:    types.ManifestFormat(strings.ToLower(v.GetString(KeyFormat))),
	}
	if err := Validate(cfg); err != nil {
		return types.ManifestConfig{}, err
	}
	return cfg, nil
}

// Watch builds a WatchConfig from v, falling back to DefaultDebounce for
// non-positive values.
func Watch(v *viper.Viper) types.WatchConfig {
	d := v.GetDuration(KeyDebounce)
	if d <= 0 {
		d = DefaultDebounce
	}
	return types.WatchConfig{Debounce: d}
}

// Validate checks a ManifestConfig.
func Validate(cfg types.ManifestConfig) error {
	err := validation.ValidateStruct(&cfg,
		validation.Field(&cfg.Root, validation.Required),
		validation.Field(&cfg.Output, validation.Required),
		validation.Field(&cfg.Extension,
			validation.Required,
			validation.Match(extensionPattern).Error("must look like .pdf"),
		),
		validation.Field(&cfg.Format,
			validation.In(types.FormatJSON, types.FormatYAML).Error("must be json or yaml"),
		),
	)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
