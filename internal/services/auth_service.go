package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/shabeb-irshed/portal/internal/auth"
	"github.com/shabeb-irshed/portal/internal/metrics"
	"github.com/shabeb-irshed/portal/internal/models"
	pkgauth "github.com/shabeb-irshed/portal/pkg/auth"
	pkglogger "github.com/shabeb-irshed/portal/pkg/logger"
)

// CredentialRepository defines the interface for admin credential storage
type CredentialRepository interface {
	Count(ctx context.Context) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.Credential, error)
	CreateBootstrap(ctx context.Context, cred *models.Credential) (*models.Credential, bool, error)
}

// SessionRepository defines the interface for admin session storage
type SessionRepository interface {
	CreateForLogin(ctx context.Context, session *models.Session) error
	GetValid(ctx context.Context, token string, now time.Time) (*models.Session, error)
}

// LoginAttemptRepository defines the interface for per-address login failure storage
type LoginAttemptRepository interface {
	Get(ctx context.Context, sourceAddress string) (*models.LoginAttempt, error)
	SaveFailure(ctx context.Context, attempt *models.LoginAttempt) error
}

// AuthConfig holds the login guard and session settings
type AuthConfig struct {
	BootstrapUsername string
	BootstrapPassword string
	SessionLifetime   time.Duration
	LockoutThreshold  int
	LockoutDuration   time.Duration
	FailureWindow     time.Duration
}

// AuthService guards admin login and validates admin sessions
type AuthService struct {
	credentials CredentialRepository
	sessions    SessionRepository
	attempts    LoginAttemptRepository
	timing      *auth.TimingDelay
	config      AuthConfig
	metrics     *metrics.Metrics
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
	now         func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	credentials CredentialRepository,
	sessions SessionRepository,
	attempts LoginAttemptRepository,
	timing *auth.TimingDelay,
	config AuthConfig,
	m *metrics.Metrics,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		credentials: credentials,
		sessions:    sessions,
		attempts:    attempts,
		timing:      timing,
		config:      config,
		metrics:     m,
		logger:      logger,
		auditLogger: auditLogger,
		now:         time.Now,
	}
}

// LoginResult is returned on a successful admin login
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login authenticates an admin from sourceAddress and issues a session.
//
// Errors:
//   - models.ErrNotBootstrapped: no credential exists and the bootstrap pair did not match
//   - *models.LockoutError: the address is (or just became) blocked
//   - models.ErrUnauthorized: generic invalid credentials
//   - models.ErrInternalServer: the store could not be read or written
func (s *AuthService) Login(ctx context.Context, sourceAddress, username, password string) (*LoginResult, error) {
	start := s.now()

	cred, err := s.bootstrap(ctx, sourceAddress, username, password)
	if err != nil {
		return nil, err
	}
	if cred != nil {
		return s.issueSession(ctx, cred, sourceAddress, "bootstrap")
	}

	attempt, err := s.attempts.Get(ctx, sourceAddress)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to load login attempts", slog.String("ip_address", sourceAddress), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if attempt != nil && attempt.IsBlocked(start) {
		s.recordOutcome("locked")
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			IPAddress:     sourceAddress,
			FailureReason: "address_blocked",
		})
		s.timing.WaitFrom(ctx, start)
		return nil, &models.LockoutError{
			Until:     *attempt.BlockedUntil,
			Remaining: attempt.BlockedUntil.Sub(start),
		}
	}

	baseline := 0
	if attempt != nil && start.Sub(attempt.LastAttempt) <= s.config.FailureWindow {
		baseline = attempt.Attempts
	}

	cred, err = s.credentials.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to load credential", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	var verified bool
	if cred != nil {
		verified = pkgauth.VerifyPassword(password, cred.PasswordHash, cred.Salt)
	} else {
		verified = pkgauth.BurnVerification(password)
	}

	if !verified {
		return nil, s.recordFailure(ctx, sourceAddress, baseline, start)
	}

	return s.issueSession(ctx, cred, sourceAddress, "password")
}

// bootstrap creates the first credential when the store is empty. It returns
// (nil, nil) when a credential already exists and the normal flow applies.
func (s *AuthService) bootstrap(ctx context.Context, sourceAddress, username, password string) (*models.Credential, error) {
	count, err := s.credentials.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count credentials", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if count > 0 {
		return nil, nil
	}

	if !s.matchesBootstrap(username, password) {
		s.recordOutcome("not_bootstrapped")
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "bootstrap_failed",
			IPAddress:     sourceAddress,
			FailureReason: "bootstrap_mismatch",
		})
		return nil, models.ErrNotBootstrapped
	}

	hash, salt, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash bootstrap password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	cred, created, err := s.credentials.CreateBootstrap(ctx, &models.Credential{
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
	})
	if err != nil {
		s.logger.Error("failed to create bootstrap credential", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if !created {
		// A concurrent request bootstrapped first
		return nil, nil
	}

	s.logger.Info("bootstrap admin credential created", slog.String("username", cred.Username))
	s.auditLogger.LogAdminAction("bootstrap_credential_created", strconv.FormatInt(cred.ID, 10), sourceAddress, nil)
	return cred, nil
}

func (s *AuthService) matchesBootstrap(username, password string) bool {
	if s.config.BootstrapUsername == "" || s.config.BootstrapPassword == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.config.BootstrapUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.config.BootstrapPassword)) == 1
	return userOK && passOK
}

// recordFailure counts one failed attempt from baseline and locks the address
// once the threshold is reached
func (s *AuthService) recordFailure(ctx context.Context, sourceAddress string, baseline int, now time.Time) error {
	record := &models.LoginAttempt{
		SourceAddress: sourceAddress,
		Attempts:      baseline + 1,
		LastAttempt:   now,
	}

	locked := record.Attempts >= s.config.LockoutThreshold
	if locked {
		until := now.Add(s.config.LockoutDuration)
		record.BlockedUntil = &until
	}

	if err := s.attempts.SaveFailure(ctx, record); err != nil {
		s.logger.Error("failed to record login failure", slog.String("ip_address", sourceAddress), slog.Any("error", err))
	}

	reason := "invalid_credentials"
	if locked {
		reason = "lockout_triggered"
	}
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType:     "login_failed",
		IPAddress:     sourceAddress,
		FailureReason: reason,
		Metadata:      map[string]string{"attempts": strconv.Itoa(record.Attempts)},
	})

	s.timing.WaitFrom(ctx, now)

	if locked {
		s.recordOutcome("lockout_triggered")
		s.logger.Warn("login locked out",
			slog.String("ip_address", sourceAddress),
			slog.Int("attempts", record.Attempts),
			slog.Duration("lockout_duration", s.config.LockoutDuration))
		return &models.LockoutError{
			Until:       *record.BlockedUntil,
			Remaining:   s.config.LockoutDuration,
			JustBlocked: true,
		}
	}

	s.recordOutcome("invalid_credentials")
	return models.ErrUnauthorized
}

func (s *AuthService) issueSession(ctx context.Context, cred *models.Credential, sourceAddress, method string) (*LoginResult, error) {
	token, err := pkgauth.GenerateSessionToken()
	if err != nil {
		s.logger.Error("failed to generate session token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	session := &models.Session{
		Token:         token,
		CredentialID:  cred.ID,
		ExpiresAt:     s.now().Add(s.config.SessionLifetime),
		SourceAddress: sourceAddress,
	}
	if err := s.sessions.CreateForLogin(ctx, session); err != nil {
		s.logger.Error("failed to create session", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.recordOutcome("success")
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType:    "login_success",
		CredentialID: strconv.FormatInt(cred.ID, 10),
		IPAddress:    sourceAddress,
		Success:      true,
		Metadata:     map[string]string{"method": method},
	})

	return &LoginResult{Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// ValidateSession returns the live session for token.
// Unknown and expired tokens both yield models.ErrUnauthorized.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, models.ErrUnauthorized
	}

	now := s.now()
	session, err := s.sessions.GetValid(ctx, token, now)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to validate session", slog.Any("error", err))
		return nil, err
	}

	// Expiry is also enforced against the application clock
	if session.IsExpired(now) {
		return nil, models.ErrUnauthorized
	}
	return session, nil
}

func (s *AuthService) recordOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}
