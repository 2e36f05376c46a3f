package program

import "fmt"

// Config tunes the processor's validation rules.
type Config struct {
	// MinExpiryDelay is how far past the current clock an expiry must lie.
	// It is at least 1 so expiry is always strictly in the future.
	MinExpiryDelay int64 `toml:"min_expiry_delay" json:"minExpiryDelay"`

	// AuthoritySettles lets the room authority settle on a predictor's
	// behalf.
	AuthoritySettles bool `toml:"authority_settles" json:"authoritySettles"`
}

func DefaultConfig() Config {
	return Config{
		MinExpiryDelay:   1,
		AuthoritySettles: true,
	}
}

func (c Config) Validate() error {
	if c.MinExpiryDelay < 1 {
		return fmt.Errorf("%w: min expiry delay must be at least 1, got %d", ErrInvalidConfiguration, c.MinExpiryDelay)
	}
	return nil
}
