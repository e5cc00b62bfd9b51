package minio

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/pkg/errors"
)

var (
	ErrObjectNotFound = errors.New(errors.ErrCodeNotFound, "object not found")
	ErrInvalidRequest = errors.New(errors.ErrCodeValidation, "invalid request")
)

// ObjectRepository stores work-order PDFs and attachments.
type ObjectRepository interface {
	Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error)
	Stat(ctx context.Context, objectKey string) (*ObjectMetadata, error)
	Delete(ctx context.Context, objectKey string) error
	PresignedDownloadURL(ctx context.Context, objectKey, filename string, expiry time.Duration) (string, error)
}

type UploadRequest struct {
	ObjectKey   string
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

type UploadResult struct {
	Bucket     string    `json:"bucket"`
	ObjectKey  string    `json:"object_key"`
	ETag       string    `json:"etag"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type ObjectMetadata struct {
	ObjectKey    string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
	Metadata     map[string]string
}

type minioRepository struct {
	client *MinIOClient
	logger logging.Logger
}

// NewMinIORepository returns an ObjectRepository over client's bucket.
func NewMinIORepository(client *MinIOClient, log logging.Logger) ObjectRepository {
	return &minioRepository{client: client, logger: log}
}

func (r *minioRepository) Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	if err := r.client.ensureOpen(); err != nil {
		return nil, err
	}
	if req == nil || req.ObjectKey == "" || len(req.Data) == 0 {
		return nil, ErrInvalidRequest
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(req.Data[:min(512, len(req.Data))])
	}

	info, err := r.client.api.PutObject(ctx, r.client.bucket, req.ObjectKey,
		bytes.NewReader(req.Data), int64(len(req.Data)),
		minio.PutObjectOptions{ContentType: contentType, UserMetadata: req.Metadata})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "upload failed")
	}
	r.logger.Debug("object uploaded",
		logging.String("key", req.ObjectKey),
		logging.Int64("size", info.Size))
	return &UploadResult{
		Bucket:     r.client.bucket,
		ObjectKey:  req.ObjectKey,
		ETag:       info.ETag,
		Size:       info.Size,
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (r *minioRepository) Stat(ctx context.Context, objectKey string) (*ObjectMetadata, error) {
	if err := r.client.ensureOpen(); err != nil {
		return nil, err
	}
	info, err := r.client.api.StatObject(ctx, r.client.bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "stat failed")
	}
	return &ObjectMetadata{
		ObjectKey:    objectKey,
		Size:         info.Size,
		ContentType:  info.ContentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
		Metadata:     info.UserMetadata,
	}, nil
}

func (r *minioRepository) Delete(ctx context.Context, objectKey string) error {
	if err := r.client.ensureOpen(); err != nil {
		return err
	}
	if err := r.client.api.RemoveObject(ctx, r.client.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "delete failed")
	}
	return nil
}

// PresignedDownloadURL signs a GET for objectKey. A non-empty filename is sent
// back as an attachment Content-Disposition.
func (r *minioRepository) PresignedDownloadURL(ctx context.Context, objectKey, filename string, expiry time.Duration) (string, error) {
	if err := r.client.ensureOpen(); err != nil {
		return "", err
	}
	if expiry <= 0 {
		expiry = r.client.presignExpiry
	}
	var params url.Values
	if filename != "" {
		params = url.Values{}
		params.Set("response-content-disposition", `attachment; filename="`+filename+`"`)
	}
	u, err := r.client.api.PresignedGetObject(ctx, r.client.bucket, objectKey, expiry, params)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "presign failed")
	}
	return u.String(), nil
}

// WorkOrderKey is the archive location of a work-order document.
func WorkOrderKey(tenant, order, filename string) string {
	return path.Join(cleanSegment(tenant), "work-orders", cleanSegment(order), cleanSegment(filename))
}

// AttachmentKey is the location of an uploaded attachment.
func AttachmentKey(tenant, id, ext string, at time.Time) string {
	name := cleanSegment(id)
	if ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}
	return path.Join(cleanSegment(tenant), "attachments", at.UTC().Format("2006/01"), name)
}

// cleanSegment keeps caller input from escaping its prefix.
func cleanSegment(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}

//Personal.AI order the ending
