package services

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/shabeb-irshed/portal/internal/models"
	pkglogger "github.com/shabeb-irshed/portal/pkg/logger"
)

// AdminService backs the admin dashboard endpoints
type AdminService struct {
	registrations     RegistrationRepository
	settings          SettingsRepository
	defaultRecipients []string
	logger            *slog.Logger
	auditLogger       *pkglogger.AuditLogger
}

// NewAdminService creates a new AdminService
func NewAdminService(registrations RegistrationRepository, settings SettingsRepository, defaultRecipients []string, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AdminService {
	return &AdminService{
		registrations:     registrations,
		settings:          settings,
		defaultRecipients: defaultRecipients,
		logger:            logger,
		auditLogger:       auditLogger,
	}
}

// ListRegistrations returns membership applications, newest first
func (s *AdminService) ListRegistrations(ctx context.Context, limit, offset int) ([]*models.Registration, error) {
	regs, err := s.registrations.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list registrations", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return regs, nil
}

// GetEvaluationEmails returns the stored recipient list, or the defaults when
// nothing has been saved yet
func (s *AdminService) GetEvaluationEmails(ctx context.Context) ([]string, error) {
	emails, err := s.settings.GetEvaluationEmails(ctx)
	if err != nil {
		s.logger.Error("failed to load evaluation emails", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if len(emails) == 0 {
		return mergeRecipients(s.defaultRecipients), nil
	}
	return emails, nil
}

// SetEvaluationEmails replaces the stored recipient list
func (s *AdminService) SetEvaluationEmails(ctx context.Context, session *models.Session, emails []string) ([]string, error) {
	cleaned := mergeRecipients(emails)
	if err := s.settings.SetEvaluationEmails(ctx, cleaned); err != nil {
		s.logger.Error("failed to save evaluation emails", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAdminAction("evaluation_emails_updated", credentialID(session), sessionAddress(session),
		map[string]string{"count": strconv.Itoa(len(cleaned))})
	return cleaned, nil
}

func credentialID(session *models.Session) string {
	if session == nil {
		return ""
	}
	return strconv.FormatInt(session.CredentialID, 10)
}

func sessionAddress(session *models.Session) string {
	if session == nil {
		return ""
	}
	return session.SourceAddress
}
