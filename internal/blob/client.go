package blob

import (
	"context"
	"fmt"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/config"

	miniosdk "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client wraps the MinIO client together with a public client used for
// browser-reachable presigned URLs.
type Client struct {
	*miniosdk.Client
	publicClient *miniosdk.Client
	cfg          config.MinIOConfig
}

// Option customizes client initialization.
type Option func(*options)

type options struct {
	requireExistingBuckets bool
}

// WithExistingBucketsOnly requires the buckets to exist instead of
// creating them.
func WithExistingBucketsOnly() Option {
	return func(o *options) {
		o.requireExistingBuckets = true
	}
}

// NewClient creates a new MinIO client and ensures the raw and
// processed buckets exist.
func NewClient(cfg config.MinIOConfig, opts ...Option) (*Client, error) {
	settings := options{}
	for _, opt := range opts {
		opt(&settings)
	}

	client, err := miniosdk.New(cfg.Endpoint, &miniosdk.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	var publicClient *miniosdk.Client
	if cfg.PublicEndpoint != "" && cfg.PublicEndpoint != cfg.Endpoint {
		publicClient, err = miniosdk.New(cfg.PublicEndpoint, &miniosdk.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create public MinIO client: %w", err)
		}
	} else {
		publicClient = client
	}

	ctx := context.Background()
	for _, bucket := range []string{cfg.RawBucket, cfg.ProcessedBucket} {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to check bucket existence: %w", err)
		}
		if !exists {
			if settings.requireExistingBuckets {
				return nil, fmt.Errorf("bucket %s does not exist", bucket)
			}
			if err := client.MakeBucket(ctx, bucket, miniosdk.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
	}

	return &Client{
		Client:       client,
		publicClient: publicClient,
		cfg:          cfg,
	}, nil
}

// PublicClient returns the client used for presigned URL generation.
func (c *Client) PublicClient() *miniosdk.Client {
	return c.publicClient
}

// RawBucket returns the configured bucket for source uploads.
func (c *Client) RawBucket() string {
	return c.cfg.RawBucket
}

// ProcessedBucket returns the configured bucket for renditions.
func (c *Client) ProcessedBucket() string {
	return c.cfg.ProcessedBucket
}
