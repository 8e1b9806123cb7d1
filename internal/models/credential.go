package models

import "time"

// Credential is an admin login stored with a salted PBKDF2 hash
type Credential struct {
	ID           int64
	Username     string
	PasswordHash string
	Salt         string
	CreatedAt    time.Time
}
