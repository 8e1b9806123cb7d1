package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/shabeb-irshed/portal/internal/models"
	pkglogger "github.com/shabeb-irshed/portal/pkg/logger"
)

// NewsRepository defines the interface for news feed storage
type NewsRepository interface {
	List(ctx context.Context) ([]*models.News, error)
	Create(ctx context.Context, n *models.News) error
	Delete(ctx context.Context, id int64) error
}

// NewsService handles the public news feed and its admin edits
type NewsService struct {
	repo        NewsRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewNewsService creates a new NewsService
func NewNewsService(repo NewsRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *NewsService {
	return &NewsService{repo: repo, logger: logger, auditLogger: auditLogger}
}

func (s *NewsService) List(ctx context.Context) ([]*models.News, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list news", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return items, nil
}

func (s *NewsService) Create(ctx context.Context, session *models.Session, n *models.News) (*models.News, error) {
	if n.MediaURLs == nil {
		n.MediaURLs = []string{}
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("failed to create news", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAdminAction("news_created", credentialID(session), sessionAddress(session),
		map[string]string{"news_id": strconv.FormatInt(n.ID, 10)})
	return n, nil
}

// Delete removes a news item, returning models.ErrNotFound when it does not exist
func (s *NewsService) Delete(ctx context.Context, session *models.Session, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete news", slog.Int64("news_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.auditLogger.LogAdminAction("news_deleted", credentialID(session), sessionAddress(session),
		map[string]string{"news_id": strconv.FormatInt(id, 10)})
	return nil
}
