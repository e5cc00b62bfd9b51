// Package workorder downloads work-order documents from the backend and
// keeps an archived copy in object storage.
package workorder

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/AeroOps/internal/domain/document"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AeroOps/internal/infrastructure/storage/minio"
	"github.com/turtacn/AeroOps/pkg/client"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// Backend renders the inspection PDF.
type Backend interface {
	PrelimInspectionPDF(ctx context.Context, tenant, order string, mode client.HoursMode, hours float64) ([]byte, error)
}

// Service defines the work-order use cases.
type Service interface {
	PrelimInspection(ctx context.Context, req PrelimRequest) (*Document, error)
	ArchivedURL(ctx context.Context, tenant, order string, expiry time.Duration) (string, error)
}

// PrelimRequest selects the report and how aircraft hours are filled.
type PrelimRequest struct {
	Tenant string
	Order  string
	Mode   client.HoursMode
	Hours  float64
}

// Document is a downloaded file. ArchiveKey is empty when archiving is off
// or failed.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
	ArchiveKey  string
}

type serviceImpl struct {
	backend Backend
	store   minio.ObjectRepository
	metrics *prometheus.AppMetrics
	logger  logging.Logger
}

// NewService creates the work-order service. store may be nil to disable
// archiving.
func NewService(backend Backend, store minio.ObjectRepository, metrics *prometheus.AppMetrics, log logging.Logger) Service {
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	return &serviceImpl{backend: backend, store: store, metrics: metrics, logger: log.Named("workorder")}
}

func (r PrelimRequest) validate() (PrelimRequest, error) {
	if r.Tenant == "" {
		return r, errors.New(errors.ErrCodeTenantRequired, "tenant is required")
	}
	r.Order = strings.TrimSpace(r.Order)
	if r.Order == "" {
		return r, errors.InvalidParam("work order number is required")
	}
	if r.Mode == "" {
		r.Mode = client.HoursAuto
	}
	mode, err := client.ParseHoursMode(string(r.Mode))
	if err != nil {
		return r, err
	}
	r.Mode = mode
	if mode == client.HoursManual && r.Hours < 0 {
		return r, errors.InvalidParam("aircraft hours must not be negative")
	}
	return r, nil
}

// PrelimInspection fetches the preliminary inspection PDF. An archive
// failure is logged and does not fail the download.
func (s *serviceImpl) PrelimInspection(ctx context.Context, req PrelimRequest) (*Document, error) {
	req, err := req.validate()
	if err != nil {
		return nil, err
	}
	pdf, err := s.backend.PrelimInspectionPDF(ctx, req.Tenant, req.Order, req.Mode, req.Hours)
	if err != nil {
		return nil, err
	}
	doc := &Document{
		Filename:    client.PrelimInspectionFilename(req.Order),
		ContentType: document.MimePDF,
		Data:        pdf,
	}
	if s.store == nil {
		return doc, nil
	}

	key := minio.WorkOrderKey(req.Tenant, req.Order, doc.Filename)
	_, err = s.store.Upload(ctx, &minio.UploadRequest{
		ObjectKey:   key,
		Data:        pdf,
		ContentType: document.MimePDF,
		Metadata:    map[string]string{"tenant": req.Tenant, "work-order": req.Order, "hours-mode": string(req.Mode)},
	})
	prometheus.RecordObjectStored(s.metrics, "work_order", err)
	if err != nil {
		s.logger.Warn("work order archive failed", logging.Tenant(req.Tenant), logging.String("order", req.Order), logging.Err(err))
		return doc, nil
	}
	doc.ArchiveKey = key
	return doc, nil
}

// ArchivedURL signs a download link for the last archived inspection of order.
func (s *serviceImpl) ArchivedURL(ctx context.Context, tenant, order string, expiry time.Duration) (string, error) {
	if s.store == nil {
		return "", errors.New(errors.ErrCodeServiceUnavailable, "object storage is disabled")
	}
	if tenant == "" {
		return "", errors.New(errors.ErrCodeTenantRequired, "tenant is required")
	}
	filename := client.PrelimInspectionFilename(order)
	key := minio.WorkOrderKey(tenant, order, filename)
	if _, err := s.store.Stat(ctx, key); err != nil {
		if errors.IsNotFound(err) {
			return "", errors.New(errors.ErrCodeWorkOrderNotFound, "no archived inspection for work order").WithDetail(order)
		}
		return "", err
	}
	return s.store.PresignedDownloadURL(ctx, key, filename, expiry)
}

//Personal.AI order the ending
