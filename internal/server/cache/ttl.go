package cache

import (
	"fmt"
	"strconv"
	"time"
)

// TTL bounds, in seconds.
const (
	// DefaultTTLSeconds matches the hourly catalog rebuild.
	DefaultTTLSeconds = 3600

	MinTTLSeconds = 60
	MaxTTLSeconds = 7 * 24 * 3600
)

// ErrInvalidTTL is returned by ParseTTL for out-of-range values.
var ErrInvalidTTL = fmt.Errorf("cache TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// ParseTTL accepts a number of seconds ("3600") or a Go duration ("90m") and
// returns the TTL in whole seconds.
func ParseTTL(s string) (int, error) {
	seconds, err := strconv.Atoi(s)
	if err != nil {
		d, durErr := time.ParseDuration(s)
		if durErr != nil {
			return 0, fmt.Errorf("invalid cache TTL %q: %w", s, durErr)
		}
		seconds = int(d / time.Second)
	}

	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return seconds, nil
}
