package minio

import (
	"context"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/turtacn/AeroOps/internal/config"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// MinIOAPI is the subset of *minio.Client AeroOps calls.
type MinIOAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

var ErrMinIOClientClosed = errors.New(errors.ErrCodeStorageError, "minio client is closed")

const (
	defaultBucket        = "aeroops"
	defaultRegion        = "us-east-1"
	defaultPresignExpiry = 15 * time.Minute
)

// MinIOClient owns the connection and the single bucket AeroOps writes to.
type MinIOClient struct {
	api           MinIOAPI
	bucket        string
	region        string
	presignExpiry time.Duration
	logger        logging.Logger
	mu            sync.RWMutex
	closed        bool
}

// NewMinIOClient connects, then creates the bucket when missing.
func NewMinIOClient(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create minio client")
	}

	c := NewMinIOClientWithAPI(api, cfg, log)
	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := c.EnsureBucket(initCtx); err != nil {
		return nil, err
	}
	log.Info("minio client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", c.bucket),
		logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

// NewMinIOClientWithAPI wraps an existing API, typically a mock.
func NewMinIOClientWithAPI(api MinIOAPI, cfg config.MinIOConfig, log logging.Logger) *MinIOClient {
	c := &MinIOClient{
		api:           api,
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		presignExpiry: cfg.PresignExpiry,
		logger:        log,
	}
	if c.bucket == "" {
		c.bucket = defaultBucket
	}
	if c.region == "" {
		c.region = defaultRegion
	}
	if c.presignExpiry <= 0 {
		c.presignExpiry = defaultPresignExpiry
	}
	return c
}

// EnsureBucket creates the bucket if it does not exist.
func (c *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio")
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to create bucket "+c.bucket)
	}
	c.logger.Info("created bucket", logging.String("bucket", c.bucket))
	return nil
}

// Bucket returns the configured bucket name.
func (c *MinIOClient) Bucket() string { return c.bucket }

// HealthCheck verifies the bucket is reachable.
func (c *MinIOClient) HealthCheck(ctx context.Context) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio health check failed")
	}
	if !exists {
		return errors.New(errors.ErrCodeServiceUnavailable, "bucket "+c.bucket+" missing")
	}
	return nil
}

func (c *MinIOClient) ensureOpen() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrMinIOClientClosed
	}
	return nil
}

// Close marks the client closed. minio-go holds no long-lived connections.
func (c *MinIOClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

//Personal.AI order the ending
