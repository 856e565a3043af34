// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override settings, eg SYNBIO_LOG_LEVEL
const EnvPrefix = "SYNBIO"

// SubcloneConfig is settings for digesting and ligating bins of records
type SubcloneConfig struct {
	// Enzymes to digest each record with, by name
	Enzymes []string `mapstructure:"enzymes"`

	// Include keywords: assemblies must have a fragment with a matching feature
	Include []string `mapstructure:"include"`

	// MinCount is the minimum number of fragments in an assembly
	MinCount int `mapstructure:"min-count"`

	// MaxCycles in a bin before it fails. 0 is unbounded
	MaxCycles int `mapstructure:"max-cycles"`

	// MaxCombinations of fragments checked in a bin before it fails. 0 is unbounded
	MaxCombinations int `mapstructure:"max-combinations"`

	// Workers is the number of bins subcloned at once
	Workers int `mapstructure:"workers"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a settings file and those
// available from the command line
type Config struct {
	// Subclone settings
	Subclone SubcloneConfig `mapstructure:"subclone"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `mapstructure:"log-level"`
}

// SetDefaults registers the default settings and the environment overrides with v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("subclone.enzymes", []string{"BsaI"})
	v.SetDefault("subclone.include", []string{})
	v.SetDefault("subclone.min-count", 0)
	v.SetDefault("subclone.max-cycles", 0)
	v.SetDefault("subclone.max-combinations", 0)
	v.SetDefault("subclone.workers", 1)
	v.SetDefault("log-level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// New returns a new Config populated by the global Viper's settings
// (either from a settings file) and/or command line arguments
func New() (*Config, error) {
	return Load(viper.GetViper(), viper.GetString("settings"))
}

// Load reads an optional settings file into v and decodes v's settings
func Load(v *viper.Viper, settingsFile string) (*Config, error) {
	if settingsFile != "" {
		v.SetConfigFile(settingsFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", settingsFile, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// lists from the environment or flags come through as a single comma separated string
	c.Subclone.Enzymes = splitList(c.Subclone.Enzymes)
	c.Subclone.Include = splitList(c.Subclone.Include)

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log-level %q: %w", c.LogLevel, err)
	}
	if c.Subclone.Workers < 1 {
		c.Subclone.Workers = 1
	}
	return &c, nil
}

// Level returns the log level of the config
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// splitList splits comma or space separated entries of a list
func splitList(list []string) (split []string) {
	splitFunc := func(c rune) bool {
		return c == ' ' || c == ',' // space or comma separated
	}
	for _, entry := range list {
		split = append(split, strings.FieldsFunc(entry, splitFunc)...)
	}
	return split
}
