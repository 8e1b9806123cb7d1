package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shabeb-irshed/portal/internal/metrics"
	"github.com/shabeb-irshed/portal/internal/models"
)

// RateLimitRepository defines the interface for cooldown timestamp storage
type RateLimitRepository interface {
	Get(ctx context.Context, identity, actionType string) (*models.RateLimit, error)
	Touch(ctx context.Context, identity, actionType string, at time.Time) error
}

// RateLimitService enforces a minimum interval between accepted actions of
// the same type from the same source address
type RateLimitService struct {
	repo      RateLimitRepository
	cooldowns map[string]time.Duration
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewRateLimitService creates a new RateLimitService
func NewRateLimitService(repo RateLimitRepository, cooldowns map[string]time.Duration, m *metrics.Metrics, logger *slog.Logger) *RateLimitService {
	return &RateLimitService{
		repo:      repo,
		cooldowns: cooldowns,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Check returns a *models.CooldownError when identity performed action less
// than the configured cooldown ago. A missing record or an unreadable store
// allows the action.
func (s *RateLimitService) Check(ctx context.Context, identity, action string) error {
	cooldown, ok := s.cooldowns[action]
	if !ok {
		return fmt.Errorf("no cooldown configured for action %q", action)
	}

	record, err := s.repo.Get(ctx, identity, action)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			// Fail open
			s.logger.Error("failed to check cooldown",
				slog.String("action", action),
				slog.Any("error", err))
		}
		return nil
	}

	elapsed := s.now().Sub(record.Timestamp)
	if elapsed >= cooldown {
		return nil
	}

	remaining := cooldown - elapsed
	if s.metrics != nil {
		s.metrics.CooldownRejects.WithLabelValues(action).Inc()
	}
	s.logger.Info("cooldown active",
		slog.String("action", action),
		slog.String("ip_address", identity),
		slog.Duration("remaining", remaining))
	return &models.CooldownError{Action: action, Remaining: remaining, Cooldown: cooldown}
}

// Record stamps the action as accepted now
func (s *RateLimitService) Record(ctx context.Context, identity, action string) error {
	return s.repo.Touch(ctx, identity, action, s.now())
}

// FormatWait renders the remaining wait rounded up in the unit of the
// action's cooldown: hours for cooldowns of an hour or more, minutes for
// cooldowns of a minute or more, seconds otherwise. A contact cooldown with
// thirty minutes left therefore reads "1 hour".
func FormatWait(remaining, cooldown time.Duration) string {
	switch {
	case cooldown >= time.Hour:
		return plural(int(math.Ceil(remaining.Hours())), "hour")
	case cooldown >= time.Minute:
		return plural(int(math.Ceil(remaining.Minutes())), "minute")
	default:
		return plural(int(math.Ceil(remaining.Seconds())), "second")
	}
}

// RetryAfterHours rounds a lockout remainder up to whole hours
func RetryAfterHours(d time.Duration) int {
	return int(math.Ceil(d.Hours()))
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
