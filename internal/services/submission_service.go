package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shabeb-irshed/portal/internal/metrics"
	"github.com/shabeb-irshed/portal/internal/models"
	pkglogger "github.com/shabeb-irshed/portal/pkg/logger"
)

// RegistrationRepository defines the interface for membership application storage
type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	List(ctx context.Context, limit, offset int) ([]*models.Registration, error)
}

// ContactRepository defines the interface for contact message storage
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}

// SubmissionConfig routes each submission type to its operator channel
type SubmissionConfig struct {
	RegisterChatID string
	ContactChatID  string
}

// SubmissionService runs a public form submission through the idempotency,
// cooldown and notification guards before persisting it.
//
// Order: claim key → cooldown check → notify → persist → stamp cooldown → finalize key.
// Any failure before persistence releases the key so a retry re-drives the pipeline.
type SubmissionService struct {
	idempotency   *IdempotencyService
	rateLimits    *RateLimitService
	notifier      Notifier
	registrations RegistrationRepository
	contacts      ContactRepository
	config        SubmissionConfig
	metrics       *metrics.Metrics
	logger        *slog.Logger
	auditLogger   *pkglogger.AuditLogger
	now           func() time.Time
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	idempotency *IdempotencyService,
	rateLimits *RateLimitService,
	notifier Notifier,
	registrations RegistrationRepository,
	contacts ContactRepository,
	config SubmissionConfig,
	m *metrics.Metrics,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *SubmissionService {
	return &SubmissionService{
		idempotency:   idempotency,
		rateLimits:    rateLimits,
		notifier:      notifier,
		registrations: registrations,
		contacts:      contacts,
		config:        config,
		metrics:       m,
		logger:        logger,
		auditLogger:   auditLogger,
		now:           time.Now,
	}
}

// Submit processes one submission.
//
// Errors:
//   - models.ErrBadRequest: missing key, unknown type or missing payload
//   - models.ErrSubmissionInProgress: another request holds the key
//   - *models.CooldownError: the source address is still cooling down
//   - models.ErrGatewayFailed: the operator notification was not delivered
//   - models.ErrInternalServer: the store failed
func (s *SubmissionService) Submit(ctx context.Context, sub *models.Submission) (*models.SubmissionResult, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	outcome, err := s.idempotency.Begin(ctx, sub.IdempotencyKey)
	if err != nil {
		s.logger.Error("failed to claim idempotency key", slog.String("type", sub.Type), slog.Any("error", err))
		s.record(sub, "failed")
		return nil, models.ErrInternalServer
	}

	switch outcome {
	case models.ClaimAlreadySucceeded:
		s.record(sub, "cached")
		return &models.SubmissionResult{Success: true, Cached: true}, nil
	case models.ClaimInProgress:
		s.record(sub, "in_progress")
		return nil, models.ErrSubmissionInProgress
	}

	if err := s.rateLimits.Check(ctx, sub.SourceAddress, sub.Type); err != nil {
		s.abandon(ctx, sub, "throttled")
		return nil, err
	}

	if err := s.notify(ctx, sub); err != nil {
		s.logger.Error("submission notification failed", slog.String("type", sub.Type), slog.Any("error", err))
		s.abandon(ctx, sub, "failed")
		if errors.Is(err, models.ErrGatewayFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", models.ErrGatewayFailed, err)
	}

	if err := s.persist(ctx, sub); err != nil {
		s.logger.Error("failed to persist submission", slog.String("type", sub.Type), slog.Any("error", err))
		s.abandon(ctx, sub, "failed")
		return nil, models.ErrInternalServer
	}

	// Delivered and stored: failures past this point are logged, not returned
	if err := s.rateLimits.Record(ctx, sub.SourceAddress, sub.Type); err != nil {
		s.logger.Error("failed to record cooldown", slog.String("type", sub.Type), slog.Any("error", err))
	}
	if err := s.idempotency.Complete(ctx, sub.IdempotencyKey); err != nil {
		s.logger.Error("failed to finalize idempotency key", slog.String("type", sub.Type), slog.Any("error", err))
	}

	s.record(sub, "accepted")
	return &models.SubmissionResult{Success: true}, nil
}

func validateSubmission(sub *models.Submission) error {
	if sub == nil || sub.IdempotencyKey == "" {
		return fmt.Errorf("%w: idempotency key is required", models.ErrBadRequest)
	}
	switch sub.Type {
	case models.SubmissionRegister:
		if sub.Registration == nil {
			return fmt.Errorf("%w: registration payload is required", models.ErrBadRequest)
		}
	case models.SubmissionContact:
		if sub.Contact == nil {
			return fmt.Errorf("%w: contact payload is required", models.ErrBadRequest)
		}
	default:
		return fmt.Errorf("%w: unknown submission type %q", models.ErrBadRequest, sub.Type)
	}
	return nil
}

func (s *SubmissionService) notify(ctx context.Context, sub *models.Submission) error {
	if sub.Type == models.SubmissionRegister {
		return s.notifier.Send(ctx, s.config.RegisterChatID, formatRegistrationMessage(sub.Registration))
	}
	return s.notifier.Send(ctx, s.config.ContactChatID, formatContactMessage(sub.Contact))
}

func (s *SubmissionService) persist(ctx context.Context, sub *models.Submission) error {
	now := s.now()

	if sub.Type == models.SubmissionRegister {
		reg := sub.Registration
		if reg.UID == "" {
			reg.UID = uuid.NewString()
		}
		reg.SourceAddress = sub.SourceAddress
		reg.Timestamp = now
		return s.registrations.Create(ctx, reg)
	}

	msg := sub.Contact
	msg.SourceAddress = sub.SourceAddress
	msg.CreatedAt = now
	return s.contacts.Create(ctx, msg)
}

// abandon releases the key on a context that survives request cancellation
func (s *SubmissionService) abandon(ctx context.Context, sub *models.Submission, outcome string) {
	s.idempotency.Abandon(context.WithoutCancel(ctx), sub.IdempotencyKey)
	s.record(sub, outcome)
}

func (s *SubmissionService) record(sub *models.Submission, outcome string) {
	if s.metrics != nil {
		s.metrics.Submissions.WithLabelValues(sub.Type, outcome).Inc()
	}
	if s.auditLogger != nil {
		s.auditLogger.LogSubmission(sub.Type, sub.SourceAddress, outcome, submitterMetadata(sub))
	}
}

// submitterMetadata identifies the submitter in audit entries without
// exposing their contact details
func submitterMetadata(sub *models.Submission) map[string]string {
	switch {
	case sub.Registration != nil:
		return map[string]string{"phone": pkglogger.MaskPhone(sub.Registration.Phone)}
	case sub.Contact != nil:
		return map[string]string{"email": pkglogger.SanitizedEmail(sub.Contact.Email)}
	default:
		return nil
	}
}
