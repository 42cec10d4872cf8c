// Package config resolves taskman settings from defaults, an optional TOML
// file and root command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/idilsaglam/taskman/internal/store/jsonstore"
)

const (
	// DefaultConfigFile is looked up in the working directory when -config is not given.
	DefaultConfigFile = "taskman.toml"

	DefaultTheme    = "classic"
	DefaultLogLevel = "warn"
)

// Config holds every setting the CLI needs.
type Config struct {
	// File is the JSON backing file.
	File string `toml:"file"`

	// Theme selects the output palette: classic, neon or mono.
	Theme string `toml:"theme"`

	// LogLevel is a charmbracelet/log level name.
	LogLevel string `toml:"log_level"`

	// BackupCorrupt copies an unreadable backing file aside before it can be overwritten.
	BackupCorrupt bool `toml:"backup_corrupt"`

	// Group lists tasks split into pending and done sections.
	Group bool `toml:"-"`

	// Source is the config file that was read, empty if none.
	Source string `toml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		File:     jsonstore.DefaultFileName,
		Theme:    DefaultTheme,
		LogLevel: DefaultLogLevel,
	}
}

// Load applies, in order: defaults, the TOML config file, then flags parsed
// from args. It returns the remaining positional arguments.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	cfg := Default()

	var (
		configPath string
		file       string
		theme      string
		debug      bool
		group      bool
	)
	fs.StringVar(&configPath, "config", "", "path to a TOML config file")
	fs.StringVar(&file, "file", "", "path to the tasks JSON file")
	fs.StringVar(&theme, "theme", "", "output theme: classic, neon or mono")
	fs.BoolVar(&debug, "debug", false, "enable debug logging")
	fs.BoolVar(&group, "group", false, "group output by pending/done")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigFile
	}
	if err := cfg.loadFile(configPath); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("config %s: %w", configPath, err)
		}
	}

	if file != "" {
		cfg.File = file
	}
	if theme != "" {
		cfg.Theme = theme
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	cfg.Group = group

	if err := cfg.finalize(); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

// Decode reads TOML settings from r on top of the current values.
func (c *Config) Decode(r io.Reader) error {
	if _, err := toml.NewDecoder(r).Decode(c); err != nil {
		return fmt.Errorf("decode toml: %w", err)
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := c.Decode(f); err != nil {
		return err
	}
	c.Source = path
	return nil
}

// finalize makes the tasks file path absolute against the working directory.
func (c *Config) finalize() error {
	if c.File == "" {
		c.File = jsonstore.DefaultFileName
	}
	if !filepath.IsAbs(c.File) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getwd: %w", err)
		}
		c.File = filepath.Join(wd, c.File)
	}
	return nil
}
