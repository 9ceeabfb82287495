package blob

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	miniosdk "github.com/minio/minio-go/v7"
)

// Service handles object storage operations for the pipeline.
type Service struct {
	client       *Client
	hostOverride string
}

// ServiceOption customizes the storage service behaviour.
type ServiceOption func(*Service)

// WithHostOverride replaces the host in generated presigned URLs
// (e.g., for external access through a proxy).
func WithHostOverride(host string) ServiceOption {
	return func(s *Service) {
		s.hostOverride = host
	}
}

// NewService creates a new storage service.
func NewService(client *Client, opts ...ServiceOption) *Service {
	s := &Service{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RawBucket returns the bucket for source uploads.
func (s *Service) RawBucket() string {
	return s.client.RawBucket()
}

// ProcessedBucket returns the bucket for renditions.
func (s *Service) ProcessedBucket() string {
	return s.client.ProcessedBucket()
}

// SignUpload generates a time-limited presigned PUT URL permitting a
// direct client write to the given object location. A non-empty
// contentType is bound into the signature, so the upload must carry the
// matching Content-Type header.
func (s *Service) SignUpload(ctx context.Context, bucket, key, contentType string, ttl time.Duration) (string, error) {
	var (
		presignedURL *url.URL
		err          error
	)
	if contentType != "" {
		presignedURL, err = s.client.PublicClient().PresignHeader(ctx, http.MethodPut, bucket, key, ttl,
			url.Values{}, http.Header{"Content-Type": []string{contentType}})
	} else {
		presignedURL, err = s.client.PublicClient().PresignedPutObject(ctx, bucket, key, ttl)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate upload URL: %w", err)
	}
	return s.rewriteHost(presignedURL)
}

// SignDownload generates a time-limited presigned GET URL for an
// object.
func (s *Service) SignDownload(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	presignedURL, err := s.client.PublicClient().PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}
	return s.rewriteHost(presignedURL)
}

// Download fetches an object into a local file.
func (s *Service) Download(ctx context.Context, bucket, key, localPath string) error {
	if err := s.client.FGetObject(ctx, bucket, key, localPath, miniosdk.GetObjectOptions{}); err != nil {
		return fmt.Errorf("failed to download %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Upload stores a local file as an object with content-type and cache
// metadata.
func (s *Service) Upload(ctx context.Context, localPath, bucket, key, contentType string) error {
	_, err := s.client.FPutObject(ctx, bucket, key, localPath, miniosdk.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=86400",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Remove deletes an object.
func (s *Service) Remove(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, miniosdk.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", bucket, key, err)
	}
	return nil
}

// PublicURL builds the stable, unauthenticated playback URL for an
// object on the public endpoint.
func (s *Service) PublicURL(bucket, key string) string {
	scheme := "http"
	if s.client.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.cfg.PublicEndpoint, bucket, key)
}

func (s *Service) rewriteHost(u *url.URL) (string, error) {
	if s.hostOverride == "" {
		return u.String(), nil
	}
	rewritten := *u
	rewritten.Host = s.hostOverride
	return rewritten.String(), nil
}
