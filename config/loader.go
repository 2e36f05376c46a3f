package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const envPrefix = "PREDICTCHAT_"

// Load merges the TOML file at path (skipped when empty) over the defaults
// and applies PREDICTCHAT_* overrides, reading a .env file if one is
// present. An override that does not parse is an error. The result is not
// validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Missing .env is fine.
	_ = godotenv.Load()

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if err := setInt64(&cfg.Program.MinExpiryDelay, envPrefix+"MIN_EXPIRY_DELAY"); err != nil {
		return err
	}
	if err := setBool(&cfg.Program.AuthoritySettles, envPrefix+"AUTHORITY_SETTLES"); err != nil {
		return err
	}

	setStr(&cfg.Genesis, envPrefix+"GENESIS")
	setStr(&cfg.LogLevel, envPrefix+"LOG_LEVEL")
	setStr(&cfg.LogFormat, envPrefix+"LOG_FORMAT")
	return nil
}

// Each helper leaves dst alone when the variable is unset.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt64(dst *int64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
