// Package config holds the predictchat-cli configuration.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/chokosabe/predictchatvm/consts"
	"github.com/chokosabe/predictchatvm/program"
)

// Config is populated from defaults, then a TOML file, then PREDICTCHAT_*
// environment variables.
type Config struct {
	Program program.Config `toml:"program"`

	// Genesis is the path of the JSON seed applied before a simulation.
	// Empty means the built-in default seed.
	Genesis string `toml:"genesis"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

func Defaults() Config {
	return Config{
		Program:   program.DefaultConfig(),
		LogLevel:  "info",
		LogFormat: "auto",
	}
}

func (c *Config) Validate() error {
	if err := c.Program.Validate(); err != nil {
		return fmt.Errorf("program: %w", err)
	}
	if _, err := logging.ToLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if _, err := logging.ToFormat(c.LogFormat, os.Stdout.Fd()); err != nil {
		return fmt.Errorf("log_format: %w", err)
	}
	return nil
}

// NewLogger builds a logger writing to w at the configured level and format.
func (c *Config) NewLogger(w io.Writer) (logging.Logger, error) {
	level, err := logging.ToLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ToFormat(c.LogFormat, os.Stdout.Fd())
	if err != nil {
		return nil, err
	}
	core := logging.NewWrappedCore(level, nopCloser{w}, format.ConsoleEncoder())
	return logging.NewLogger(consts.Name, core), nil
}

// nopCloser leaves closing w to its owner.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
