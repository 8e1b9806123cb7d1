package models

import "time"

// RateLimit holds the time of the last accepted action of a type from an identity
type RateLimit struct {
	Identity   string    `db:"identity"`
	ActionType string    `db:"action_type"`
	Timestamp  time.Time `db:"timestamp"`
}
