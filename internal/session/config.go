package session

import (
	"os"
	"strconv"
)

// Config holds session-level settings.
type Config struct {
	// MaxRegenerations caps successful regenerations per outing; 0 disables
	// the client-side cap. The default mirrors the planning service's limit.
	MaxRegenerations int
	LogTransitions   bool
}

// DefaultConfig returns the session defaults.
func DefaultConfig() Config {
	return Config{MaxRegenerations: 5}
}

// LoadConfig reads session configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("OUTINGS_MAX_REGENERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRegenerations = n
		}
	}
	if v := os.Getenv("OUTINGS_LOG_TRANSITIONS"); v != "" {
		cfg.LogTransitions, _ = strconv.ParseBool(v)
	}
	return cfg
}
