package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/blob"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/models"

	"github.com/google/uuid"
)

// ErrNotReady is returned when a playback URL is requested for a video
// that has no committed renditions yet.
var ErrNotReady = errors.New("video is not ready")

// Blobs is the slice of the blob adapter the service needs.
type Blobs interface {
	RawBucket() string
	SignUpload(ctx context.Context, bucket, key, contentType string, ttl time.Duration) (string, error)
	SignDownload(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, bucket, key string) error
}

// Records is the slice of the video store the service needs.
type Records interface {
	Create(ctx context.Context, video *models.Video) (*models.Video, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Video, error)
	List(ctx context.Context, status string, page, pageSize int) ([]models.Video, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// VideoService handles video business logic on the API side: upload
// intents, status reads and deletion. Queuing and processing live in
// the dispatcher and worker.
type VideoService struct {
	store     Records
	blobs     Blobs
	uploadTTL time.Duration
}

// NewVideoService creates a new video service.
func NewVideoService(records Records, blobs Blobs, uploadTTL time.Duration) *VideoService {
	return &VideoService{
		store:     records,
		blobs:     blobs,
		uploadTTL: uploadTTL,
	}
}

// UploadIntent is a freshly created record plus the signed URL the
// client uploads to.
type UploadIntent struct {
	Video     *models.Video
	UploadURL string
}

// CreateUploadIntent creates a video record in uploading state and
// signs a time-limited direct upload URL for its source object. An
// empty contentType leaves the upload's Content-Type unconstrained.
func (s *VideoService) CreateUploadIntent(ctx context.Context, title string, description *string, filename, contentType string, uploadedBy *string) (*UploadIntent, error) {
	videoID := uuid.New()
	key := blob.RawObjectKey(videoID.String(), filename)
	rawBucket := s.blobs.RawBucket()

	video := &models.Video{
		ID:          videoID,
		Title:       title,
		Description: description,
		RawPath:     blob.StoragePath(rawBucket, key),
		Status:      models.VideoStatusUploading,
		UploadedBy:  uploadedBy,
	}

	created, err := s.store.Create(ctx, video)
	if err != nil {
		return nil, fmt.Errorf("failed to create video record: %w", err)
	}

	uploadURL, err := s.blobs.SignUpload(ctx, rawBucket, key, contentType, s.uploadTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign upload: %w", err)
	}

	return &UploadIntent{Video: created, UploadURL: uploadURL}, nil
}

// GetVideo retrieves a video record.
func (s *VideoService) GetVideo(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	return s.store.Get(ctx, id)
}

// ListVideos retrieves a page of video records.
func (s *VideoService) ListVideos(ctx context.Context, status string, page, pageSize int) ([]models.Video, int, error) {
	return s.store.List(ctx, status, page, pageSize)
}

// PlaybackDownloadURL signs a time-limited download URL for the best
// available rendition of a ready video.
func (s *VideoService) PlaybackDownloadURL(ctx context.Context, id uuid.UUID, ttl time.Duration) (string, error) {
	video, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if video.Status != models.VideoStatusReady || video.ProcessedPath == nil {
		return "", ErrNotReady
	}

	bucket, key, err := blob.ParseStoragePath(*video.ProcessedPath)
	if err != nil {
		return "", fmt.Errorf("invalid processed path: %w", err)
	}
	return s.blobs.SignDownload(ctx, bucket, key, ttl)
}

// DeleteVideo removes the record and its stored objects. Object
// deletion is best effort; a missing object does not block removing
// the record.
func (s *VideoService) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	video, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if bucket, key, err := blob.ParseStoragePath(video.RawPath); err == nil {
		_ = s.blobs.Remove(ctx, bucket, key)
	}
	for _, rendition := range video.Renditions {
		if bucket, key, err := blob.ParseStoragePath(rendition.Path); err == nil {
			_ = s.blobs.Remove(ctx, bucket, key)
		}
	}

	return s.store.Delete(ctx, id)
}
