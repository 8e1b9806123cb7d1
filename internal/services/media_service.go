package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/shabeb-irshed/portal/internal/metrics"
	"github.com/shabeb-irshed/portal/internal/models"
)

// MediaStore persists an uploaded object and returns its durable URL
type MediaStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// S3Uploader is the subset of manager.Uploader used by S3MediaStore
type S3Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3MediaStore stores news media in an S3 bucket
type S3MediaStore struct {
	uploader      S3Uploader
	bucket        string
	publicBaseURL string
}

// NewS3MediaStore creates a new S3MediaStore. When publicBaseURL is empty the
// URL reported by S3 is returned.
func NewS3MediaStore(uploader S3Uploader, bucket, publicBaseURL string) *S3MediaStore {
	return &S3MediaStore{
		uploader:      uploader,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *S3MediaStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("media bucket not configured")
	}

	out, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key, nil
	}
	return out.Location, nil
}

// MediaService validates admin uploads and hands them to the media store
type MediaService struct {
	store   MediaStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewMediaService creates a new MediaService
func NewMediaService(store MediaStore, m *metrics.Metrics, logger *slog.Logger) *MediaService {
	return &MediaService{store: store, metrics: m, logger: logger}
}

// Upload sniffs the content type of file, rejects anything that is not an
// image or a video, and stores it under news/<uuid><ext>
func (s *MediaService) Upload(ctx context.Context, file io.ReadSeeker, size int64) (string, error) {
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("%w: unreadable upload", models.ErrBadRequest)
	}
	if !isAllowedMedia(mtype) {
		return "", fmt.Errorf("%w: unsupported media type %s", models.ErrBadRequest, mtype.String())
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}

	key := "news/" + uuid.NewString() + mtype.Extension()
	url, err := s.store.Put(ctx, key, mtype.String(), file)
	if err != nil {
		s.logger.Error("media upload failed", slog.String("key", key), slog.Any("error", err))
		if s.metrics != nil {
			s.metrics.GatewayFailures.WithLabelValues("media").Inc()
		}
		return "", fmt.Errorf("%w: media upload failed", models.ErrUpstream)
	}

	if s.metrics != nil {
		s.metrics.MediaUploadBytes.Add(float64(size))
	}
	s.logger.Info("media uploaded", slog.String("key", key), slog.String("content_type", mtype.String()))
	return url, nil
}

func isAllowedMedia(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") || strings.HasPrefix(m.String(), "video/") {
			return true
		}
	}
	return false
}
