// Package config resolves the apitrace CLI's on-disk configuration
// directory and its viewer defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultDirName is the config directory created under $HOME when no
// --config flag is given.
const DefaultDirName = ".apitrace"

// Config holds the CLI's resolved, on-disk settings: the config
// directory, the HTTP viewer's bind address, and rendering defaults for
// the serve subcommand's timeline.
type Config struct {
	Dir         string `mapstructure:"dir"`
	ListenAddr  string `mapstructure:"listen_addr"`
	ColorRule   string `mapstructure:"color_rule"`
	ColorCount  int    `mapstructure:"color_count"`
	v           *viper.Viper
}

// Load reads config from built-in defaults, dir/config.yaml (if
// present), and environment variables prefixed APITRACE_, in that order
// of increasing precedence.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolve home directory")
		}
		dir = filepath.Join(home, DefaultDirName)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("apitrace")
	v.AutomaticEnv()

	v.SetDefault("dir", dir)
	v.SetDefault("listen_addr", "127.0.0.1:0")
	v.SetDefault("color_rule", "function")
	v.SetDefault("color_count", 16)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, errors.Wrapf(err, "read config in %q", dir)
		}
	}

	c := &Config{v: v}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return c, nil
}

// EnsureDir creates the config directory if it does not already exist.
func (c *Config) EnsureDir() error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return errors.Wrapf(err, "create config dir %q", c.Dir)
	}
	return nil
}
