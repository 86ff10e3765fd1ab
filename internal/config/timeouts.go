package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	Request         time.Duration // Per-request HTTP timeout
	ServerActive    time.Duration // Upper bound on waiting for an instance to become ACTIVE
	PollInterval    time.Duration // First delay between readiness polls
	PollMaxInterval time.Duration // Cap on the delay between readiness polls
	PollMultiplier  float64       // Growth factor between polls; 1 keeps the interval fixed
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - STACKTOPO_TIMEOUT_REQUEST (default: 30s)
//   - STACKTOPO_TIMEOUT_SERVER_ACTIVE (default: 5m)
//   - STACKTOPO_POLL_INTERVAL (default: 5s)
//   - STACKTOPO_POLL_MAX_INTERVAL (default: 30s)
//   - STACKTOPO_POLL_MULTIPLIER (default: 1)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Request:         parseDuration("STACKTOPO_TIMEOUT_REQUEST", 30*time.Second),
		ServerActive:    parseDuration("STACKTOPO_TIMEOUT_SERVER_ACTIVE", 5*time.Minute),
		PollInterval:    parseDuration("STACKTOPO_POLL_INTERVAL", 5*time.Second),
		PollMaxInterval: parseDuration("STACKTOPO_POLL_MAX_INTERVAL", 30*time.Second),
		PollMultiplier:  parseFloat("STACKTOPO_POLL_MULTIPLIER", 1.0),
	}
}

// TestTimeouts returns short timeouts for tests against fake servers.
func TestTimeouts() *Timeouts {
	return &Timeouts{
		Request:         5 * time.Second,
		ServerActive:    2 * time.Second,
		PollInterval:    5 * time.Millisecond,
		PollMaxInterval: 20 * time.Millisecond,
		PollMultiplier:  1.0,
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}

// parseFloat parses a float from an environment variable.
// Values below 1 would shrink the interval and are ignored.
func parseFloat(envVar string, defaultVal float64) float64 {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f < 1 {
		return defaultVal
	}

	return f
}
