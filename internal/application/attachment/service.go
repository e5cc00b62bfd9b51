// Package attachment stores data-URL uploads in object storage.
package attachment

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/AeroOps/internal/domain/document"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AeroOps/internal/infrastructure/storage/minio"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// DefaultMaxSize bounds a decoded attachment.
const DefaultMaxSize = 10 << 20

// Service defines the attachment use cases.
type Service interface {
	Normalize(raw, mime string) string
	Store(ctx context.Context, req StoreRequest) (*Stored, error)
}

// StoreRequest carries one upload. Data may be a data URL or bare base64,
// in which case MimeType names its type.
type StoreRequest struct {
	Tenant   string `json:"-"`
	Data     string `json:"data" validate:"required"`
	MimeType string `json:"mime_type,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Stored describes the uploaded object.
type Stored struct {
	ID       string    `json:"id"`
	Key      string    `json:"key"`
	MimeType string    `json:"mime_type"`
	Size     int64     `json:"size"`
	URL      string    `json:"url,omitempty"`
	StoredAt time.Time `json:"stored_at"`
}

// Options configures the service.
type Options struct {
	MaxSize   int64
	URLExpiry time.Duration
	Now       func() time.Time
}

type serviceImpl struct {
	store   minio.ObjectRepository
	metrics *prometheus.AppMetrics
	logger  logging.Logger
	opts    Options
}

// NewService creates the attachment service.
func NewService(store minio.ObjectRepository, metrics *prometheus.AppMetrics, log logging.Logger, opts Options) Service {
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &serviceImpl{store: store, metrics: metrics, logger: log.Named("attachment"), opts: opts}
}

func (s *serviceImpl) Normalize(raw, mime string) string {
	return document.NormalizeDataURL(raw, mime)
}

func (s *serviceImpl) Store(ctx context.Context, req StoreRequest) (*Stored, error) {
	if s.store == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "object storage is disabled")
	}
	if req.Tenant == "" {
		return nil, errors.New(errors.ErrCodeTenantRequired, "tenant is required")
	}
	if req.Data == "" {
		return nil, errors.New(errors.ErrCodeDataURLInvalid, "attachment data is required")
	}
	mime, payload, err := document.Decode(s.Normalize(req.Data, req.MimeType))
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, errors.New(errors.ErrCodeDataURLInvalid, "attachment is empty")
	}
	if int64(len(payload)) > s.opts.MaxSize {
		return nil, errors.New(errors.ErrCodeDataURLInvalid, "attachment too large").WithDetail(humanSize(s.opts.MaxSize))
	}

	now := s.opts.Now()
	id := uuid.New().String()
	key := minio.AttachmentKey(req.Tenant, id, document.Extension(mime), now)
	meta := map[string]string{"tenant": req.Tenant}
	if req.Filename != "" {
		meta["filename"] = req.Filename
	}
	res, err := s.store.Upload(ctx, &minio.UploadRequest{ObjectKey: key, Data: payload, ContentType: mime, Metadata: meta})
	prometheus.RecordObjectStored(s.metrics, "attachment", err)
	if err != nil {
		return nil, err
	}

	out := &Stored{ID: id, Key: res.ObjectKey, MimeType: mime, Size: res.Size, StoredAt: now}
	if u, err := s.store.PresignedDownloadURL(ctx, key, req.Filename, s.opts.URLExpiry); err == nil {
		out.URL = u
	} else {
		s.logger.Warn("attachment presign failed", logging.String("key", key), logging.Err(err))
	}
	s.logger.Info("attachment stored", logging.Tenant(req.Tenant), logging.String("key", key), logging.Int64("size", res.Size))
	return out, nil
}

func humanSize(n int64) string {
	const mb = 1 << 20
	if n%mb == 0 {
		return strconv.FormatInt(n/mb, 10) + " MiB"
	}
	return strconv.FormatInt(n, 10) + " bytes"
}

//Personal.AI order the ending
