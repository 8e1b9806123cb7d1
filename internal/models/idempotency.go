package models

import "time"

const (
	IdempotencyProcessing = "processing"
	IdempotencySuccess    = "success"
)

// IdempotencyRecord tracks one client-supplied submission key
type IdempotencyRecord struct {
	Key            string
	Status         string
	CreatedAt      time.Time
	LeaseExpiresAt time.Time
	CompletedAt    *time.Time
}

// ClaimOutcome is the result of trying to claim an idempotency key
type ClaimOutcome int

const (
	// ClaimAcquired means the caller owns the key and must run the action
	ClaimAcquired ClaimOutcome = iota
	// ClaimAlreadySucceeded means the action already ran to completion
	ClaimAlreadySucceeded
	// ClaimInProgress means another request holds a live lease on the key
	ClaimInProgress
)

func (o ClaimOutcome) String() string {
	switch o {
	case ClaimAcquired:
		return "acquired"
	case ClaimAlreadySucceeded:
		return "already_succeeded"
	case ClaimInProgress:
		return "in_progress"
	default:
		return "unknown"
	}
}
