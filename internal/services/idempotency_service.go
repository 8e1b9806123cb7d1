package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shabeb-irshed/portal/internal/models"
)

// IdempotencyRepository defines the interface for idempotency key storage
type IdempotencyRepository interface {
	Claim(ctx context.Context, key string, now, leaseUntil time.Time) (models.ClaimOutcome, error)
	Release(ctx context.Context, key string, now time.Time) error
	MarkSuccess(ctx context.Context, key string, completedAt time.Time) error
}

// IdempotencyService guarantees that a guarded action runs to success at most
// once per client-supplied key
type IdempotencyService struct {
	repo   IdempotencyRepository
	lease  time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewIdempotencyService creates a new IdempotencyService. lease bounds how long
// a crashed or hung request can keep a key in processing.
func NewIdempotencyService(repo IdempotencyRepository, lease time.Duration, logger *slog.Logger) *IdempotencyService {
	return &IdempotencyService{
		repo:   repo,
		lease:  lease,
		logger: logger,
		now:    time.Now,
	}
}

// Begin claims key for the caller
func (s *IdempotencyService) Begin(ctx context.Context, key string) (models.ClaimOutcome, error) {
	now := s.now()
	return s.repo.Claim(ctx, key, now, now.Add(s.lease))
}

// Complete marks key as succeeded
func (s *IdempotencyService) Complete(ctx context.Context, key string) error {
	return s.repo.MarkSuccess(ctx, key, s.now())
}

// Abandon releases the lease on key after a failed run so a retry can
// re-drive it. The key stays in processing. Errors are logged only: the
// lease expires on its own.
func (s *IdempotencyService) Abandon(ctx context.Context, key string) {
	if err := s.repo.Release(ctx, key, s.now()); err != nil {
		s.logger.Warn("failed to release idempotency key", slog.Any("error", err))
	}
}
