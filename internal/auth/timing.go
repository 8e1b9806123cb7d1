package auth

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"time"
)

// TimingConfig holds configuration for timing attack prevention
type TimingConfig struct {
	BaseDelayMs   int // Base delay in milliseconds
	RandomDelayMs int // Random jitter range in milliseconds
}

// TimingDelay pads failed logins to a uniform minimum duration so that
// unknown usernames, wrong passwords and lockouts are indistinguishable by latency
type TimingDelay struct {
	config TimingConfig
}

// NewTimingDelay creates a new TimingDelay instance
func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{config: config}
}

// cryptoRandIntn returns a secure random number between 0 and max (exclusive)
func cryptoRandIntn(max int) int {
	if max <= 0 {
		return 0
	}

	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return 0
	}
	return int(binary.BigEndian.Uint64(randomBytes) % uint64(max))
}

// Target returns the padded duration for one failed attempt
func (td *TimingDelay) Target() time.Duration {
	base := time.Duration(td.config.BaseDelayMs) * time.Millisecond
	jitter := time.Duration(cryptoRandIntn(td.config.RandomDelayMs)) * time.Millisecond
	return base + jitter
}

// WaitFrom sleeps until at least Target() has elapsed since start.
// It returns early when ctx is done.
func (td *TimingDelay) WaitFrom(ctx context.Context, start time.Time) {
	if td == nil {
		return
	}
	remaining := td.Target() - time.Since(start)
	if remaining <= 0 {
		return
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
