// Package config layers command-line flags, environment variables and an
// optional configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppName names the configuration directory below the user config directory.
	AppName = "dirtree"
	// FileName is the configuration file name without extension.
	FileName = "config"
	// EnvPrefix prefixes environment variables, e.g. DIRTREE_DIRS_ONLY.
	EnvPrefix = "DIRTREE"
)

// Load returns a viper instance with every flag bound to it.
//
// Precedence is: explicitly set flags, environment variables, the config
// file, then flag defaults. When explicitPath is empty the file is looked up
// as <user config dir>/dirtree/config.{yaml,toml,json} and may be absent;
// an explicit path must exist.
func Load(flags *pflag.FlagSet, explicitPath string) (*viper.Viper, error) {
	reader := viper.New()
	reader.SetEnvPrefix(EnvPrefix)
	reader.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	reader.AutomaticEnv()

	if err := reader.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	if explicitPath != "" {
		reader.SetConfigFile(explicitPath)

		if err := reader.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read configuration from %s: %w", explicitPath, err)
		}

		return reader, nil
	}

	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		reader.AddConfigPath(filepath.Join(dir, AppName))
	}

	reader.SetConfigName(FileName)

	if err := reader.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read configuration: %w", err)
		}
	}

	return reader, nil
}
