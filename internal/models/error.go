package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Guard outcomes
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrLoginBlocked         = errors.New("login temporarily blocked")
	ErrNotBootstrapped      = errors.New("no admin credential configured")
	ErrSubmissionInProgress = errors.New("submission with this idempotency key is in progress")

	// Downstream dependencies
	ErrGatewayFailed = errors.New("notification gateway failed")
	ErrUpstream      = errors.New("upstream service failed")
)

// CooldownError reports a rejected action and how long the caller must wait.
// Cooldown is the configured interval for Action.
type CooldownError struct {
	Action    string
	Remaining time.Duration
	Cooldown  time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s cooldown active, retry in %s", e.Action, e.Remaining)
}

func (e *CooldownError) Unwrap() error {
	return ErrRateLimitExceeded
}

// LockoutError reports a blocked source address. JustBlocked is true when the
// failure that produced it is the one that crossed the threshold.
type LockoutError struct {
	Until       time.Time
	Remaining   time.Duration
	JustBlocked bool
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("login blocked until %s", e.Until.UTC().Format(time.RFC3339))
}

func (e *LockoutError) Unwrap() error {
	return ErrLoginBlocked
}
