package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/shabeb-irshed/portal/internal/models"
	pkglogger "github.com/shabeb-irshed/portal/pkg/logger"
)

// testLogger discards output
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAuditLogger() *pkglogger.AuditLogger {
	return pkglogger.NewAuditLogger(testLogger())
}

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// MockCredentialRepository implements CredentialRepository for testing
type MockCredentialRepository struct {
	CountFunc           func(ctx context.Context) (int, error)
	GetByUsernameFunc   func(ctx context.Context, username string) (*models.Credential, error)
	CreateBootstrapFunc func(ctx context.Context, cred *models.Credential) (*models.Credential, bool, error)
}

func (m *MockCredentialRepository) Count(ctx context.Context) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 1, nil
}

func (m *MockCredentialRepository) GetByUsername(ctx context.Context, username string) (*models.Credential, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockCredentialRepository) CreateBootstrap(ctx context.Context, cred *models.Credential) (*models.Credential, bool, error) {
	if m.CreateBootstrapFunc != nil {
		return m.CreateBootstrapFunc(ctx, cred)
	}
	return nil, false, models.ErrInternalServer
}

// memoryCredentials is a CredentialRepository backed by a map
type memoryCredentials struct {
	mu      sync.Mutex
	byName  map[string]*models.Credential
	nextID  int64
	lookups int
}

func newMemoryCredentials() *memoryCredentials {
	return &memoryCredentials{byName: make(map[string]*models.Credential)}
}

func (m *memoryCredentials) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byName), nil
}

func (m *memoryCredentials) GetByUsername(ctx context.Context, username string) (*models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	cred, ok := m.byName[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cred, nil
}

func (m *memoryCredentials) CreateBootstrap(ctx context.Context, cred *models.Credential) (*models.Credential, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.byName) > 0 {
		return nil, false, nil
	}
	m.nextID++
	created := *cred
	created.ID = m.nextID
	m.byName[created.Username] = &created
	return &created, true, nil
}

// MockSessionRepository implements SessionRepository for testing
type MockSessionRepository struct {
	CreateForLoginFunc func(ctx context.Context, session *models.Session) error
	GetValidFunc       func(ctx context.Context, token string, now time.Time) (*models.Session, error)

	mu       sync.Mutex
	sessions map[string]*models.Session
}

func (m *MockSessionRepository) CreateForLogin(ctx context.Context, session *models.Session) error {
	if m.CreateForLoginFunc != nil {
		return m.CreateForLoginFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions == nil {
		m.sessions = make(map[string]*models.Session)
	}
	m.sessions[session.Token] = session
	return nil
}

func (m *MockSessionRepository) GetValid(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	if m.GetValidFunc != nil {
		return m.GetValidFunc(ctx, token, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok || !s.ExpiresAt.After(now) {
		return nil, models.ErrNotFound
	}
	return s, nil
}

// MockLoginAttemptRepository keeps attempt records in memory
type MockLoginAttemptRepository struct {
	GetFunc         func(ctx context.Context, sourceAddress string) (*models.LoginAttempt, error)
	SaveFailureFunc func(ctx context.Context, attempt *models.LoginAttempt) error

	mu      sync.Mutex
	records map[string]models.LoginAttempt
}

func NewMockLoginAttemptRepository() *MockLoginAttemptRepository {
	return &MockLoginAttemptRepository{records: make(map[string]models.LoginAttempt)}
}

func (m *MockLoginAttemptRepository) Get(ctx context.Context, sourceAddress string) (*models.LoginAttempt, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, sourceAddress)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[sourceAddress]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &rec, nil
}

func (m *MockLoginAttemptRepository) SaveFailure(ctx context.Context, attempt *models.LoginAttempt) error {
	if m.SaveFailureFunc != nil {
		return m.SaveFailureFunc(ctx, attempt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[attempt.SourceAddress] = *attempt
	return nil
}

// Delete mirrors what SessionRepository.CreateForLogin does in the store
func (m *MockLoginAttemptRepository) Delete(sourceAddress string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, sourceAddress)
}

// MockRateLimitRepository keeps cooldown timestamps in memory
type MockRateLimitRepository struct {
	GetFunc   func(ctx context.Context, identity, actionType string) (*models.RateLimit, error)
	TouchFunc func(ctx context.Context, identity, actionType string, at time.Time) error

	mu      sync.Mutex
	records map[string]time.Time
}

func NewMockRateLimitRepository() *MockRateLimitRepository {
	return &MockRateLimitRepository{records: make(map[string]time.Time)}
}

func (m *MockRateLimitRepository) Get(ctx context.Context, identity, actionType string) (*models.RateLimit, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, identity, actionType)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ts, ok := m.records[identity+"|"+actionType]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &models.RateLimit{Identity: identity, ActionType: actionType, Timestamp: ts}, nil
}

func (m *MockRateLimitRepository) Touch(ctx context.Context, identity, actionType string, at time.Time) error {
	if m.TouchFunc != nil {
		return m.TouchFunc(ctx, identity, actionType, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := identity + "|" + actionType
	if prev, ok := m.records[key]; !ok || prev.Before(at) {
		m.records[key] = at
	}
	return nil
}

func (m *MockRateLimitRepository) timestamp(identity, actionType string) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts, ok := m.records[identity+"|"+actionType]
	return ts, ok
}

// MockIdempotencyRepository emulates the conditional claim in memory
type MockIdempotencyRepository struct {
	ClaimFunc func(ctx context.Context, key string, now, leaseUntil time.Time) (models.ClaimOutcome, error)

	mu      sync.Mutex
	records map[string]models.IdempotencyRecord
}

func NewMockIdempotencyRepository() *MockIdempotencyRepository {
	return &MockIdempotencyRepository{records: make(map[string]models.IdempotencyRecord)}
}

func (m *MockIdempotencyRepository) Claim(ctx context.Context, key string, now, leaseUntil time.Time) (models.ClaimOutcome, error) {
	if m.ClaimFunc != nil {
		return m.ClaimFunc(ctx, key, now, leaseUntil)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key]
	switch {
	case !ok, rec.Status == models.IdempotencyProcessing && !rec.LeaseExpiresAt.After(now):
		m.records[key] = models.IdempotencyRecord{Key: key, Status: models.IdempotencyProcessing, CreatedAt: now, LeaseExpiresAt: leaseUntil}
		return models.ClaimAcquired, nil
	case rec.Status == models.IdempotencySuccess:
		return models.ClaimAlreadySucceeded, nil
	default:
		return models.ClaimInProgress, nil
	}
}

func (m *MockIdempotencyRepository) Release(ctx context.Context, key string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.records[key]; ok && rec.Status == models.IdempotencyProcessing {
		rec.LeaseExpiresAt = now
		m.records[key] = rec
	}
	return nil
}

func (m *MockIdempotencyRepository) MarkSuccess(ctx context.Context, key string, completedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.records[key]
	rec.Key = key
	rec.Status = models.IdempotencySuccess
	rec.CompletedAt = &completedAt
	m.records[key] = rec
	return nil
}

func (m *MockIdempotencyRepository) status(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[key].Status
}

// MockRegistrationRepository implements RegistrationRepository for testing
type MockRegistrationRepository struct {
	CreateFunc func(ctx context.Context, reg *models.Registration) error
	ListFunc   func(ctx context.Context, limit, offset int) ([]*models.Registration, error)

	mu      sync.Mutex
	created []*models.Registration
}

func (m *MockRegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, reg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	reg.ID = int64(len(m.created) + 1)
	m.created = append(m.created, reg)
	return nil
}

func (m *MockRegistrationRepository) List(ctx context.Context, limit, offset int) ([]*models.Registration, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.Registration{}, nil
}

func (m *MockRegistrationRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.created)
}

// MockContactRepository implements ContactRepository for testing
type MockContactRepository struct {
	CreateFunc func(ctx context.Context, msg *models.ContactMessage) error

	mu      sync.Mutex
	created []*models.ContactMessage
}

func (m *MockContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, msg)
	return nil
}

// MockNotifier records sent messages
type MockNotifier struct {
	SendFunc func(ctx context.Context, chatID, text string) error

	mu    sync.Mutex
	calls []string
}

func (m *MockNotifier) Send(ctx context.Context, chatID, text string) error {
	m.mu.Lock()
	m.calls = append(m.calls, chatID)
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(ctx, chatID, text)
	}
	return nil
}

func (m *MockNotifier) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// MockNewsRepository implements NewsRepository for testing
type MockNewsRepository struct {
	ListFunc   func(ctx context.Context) ([]*models.News, error)
	CreateFunc func(ctx context.Context, n *models.News) error
	DeleteFunc func(ctx context.Context, id int64) error
}

func (m *MockNewsRepository) List(ctx context.Context) ([]*models.News, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.News{}, nil
}

func (m *MockNewsRepository) Create(ctx context.Context, n *models.News) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, n)
	}
	n.ID = 1
	return nil
}

func (m *MockNewsRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockWorkshopRepository implements WorkshopRepository for testing
type MockWorkshopRepository struct {
	GetByIDFunc func(ctx context.Context, id string) (*models.Workshop, error)
}

func (m *MockWorkshopRepository) GetByID(ctx context.Context, id string) (*models.Workshop, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

// MockSettingsRepository implements SettingsRepository for testing
type MockSettingsRepository struct {
	GetEvaluationEmailsFunc func(ctx context.Context) ([]string, error)
	SetEvaluationEmailsFunc func(ctx context.Context, emails []string) error
}

func (m *MockSettingsRepository) GetEvaluationEmails(ctx context.Context) ([]string, error) {
	if m.GetEvaluationEmailsFunc != nil {
		return m.GetEvaluationEmailsFunc(ctx)
	}
	return []string{}, nil
}

func (m *MockSettingsRepository) SetEvaluationEmails(ctx context.Context, emails []string) error {
	if m.SetEvaluationEmailsFunc != nil {
		return m.SetEvaluationEmailsFunc(ctx, emails)
	}
	return nil
}

// MockMailer implements Mailer for testing
type MockMailer struct {
	SendFunc func(ctx context.Context, recipients []string, subject, htmlBody string) error
}

func (m *MockMailer) Send(ctx context.Context, recipients []string, subject, htmlBody string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, recipients, subject, htmlBody)
	}
	return nil
}

// MockMediaStore implements MediaStore for testing
type MockMediaStore struct {
	PutFunc func(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

func (m *MockMediaStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, contentType, body)
	}
	return "https://cdn.example.com/" + key, nil
}

// MockTextGenerator implements TextGenerator for testing
type MockTextGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "ok", nil
}
