package models

import "time"

// LoginAttempt tracks consecutive failed logins from a single source address
type LoginAttempt struct {
	SourceAddress string     `db:"source_address"`
	Attempts      int        `db:"attempts"`
	LastAttempt   time.Time  `db:"last_attempt"`
	BlockedUntil  *time.Time `db:"blocked_until"`
}

// IsBlocked reports whether the address is locked out at now
func (a *LoginAttempt) IsBlocked(now time.Time) bool {
	return a.BlockedUntil != nil && a.BlockedUntil.After(now)
}
