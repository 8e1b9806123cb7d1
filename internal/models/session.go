package models

import "time"

// Session is an opaque bearer token issued to an admin on login.
// Expiry is checked at read time; rows are never evicted.
type Session struct {
	Token         string
	CredentialID  int64
	ExpiresAt     time.Time
	SourceAddress string
	CreatedAt     time.Time
}

// IsExpired reports whether the session is no longer valid at now
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
