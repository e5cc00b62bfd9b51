// Package inventory forwards article writes to the backend and keeps the
// article caches of every instance consistent with them.
package inventory

import (
	"context"
	"strings"

	"github.com/turtacn/AeroOps/internal/domain/document"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/redis"
	"github.com/turtacn/AeroOps/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AeroOps/pkg/client"
	"github.com/turtacn/AeroOps/pkg/errors"
)

const resourceArticle = "article"

// Backend performs the article writes.
type Backend interface {
	CreateArticle(ctx context.Context, tenant string, req client.CreateArticleRequest) (*client.Article, error)
	DeleteArticle(ctx context.Context, tenant string, id int64) error
}

// EventPublisher emits domain events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key, eventType string, payload interface{}) error
}

// Service defines the inventory use cases.
type Service interface {
	CreateArticle(ctx context.Context, tenant string, req client.CreateArticleRequest) (*client.Article, error)
	DeleteArticle(ctx context.Context, tenant string, id int64) error
	// Invalidate drops the caches named by a resource.changed event raised
	// on another instance.
	Invalidate(ctx context.Context, change kafka.ResourceChangedPayload) error
}

type serviceImpl struct {
	backend   Backend
	cache     redis.Cache
	publisher EventPublisher
	metrics   *prometheus.AppMetrics
	logger    logging.Logger
}

// NewService creates the inventory service. cache and publisher may be nil.
func NewService(backend Backend, cache redis.Cache, publisher EventPublisher, metrics *prometheus.AppMetrics, log logging.Logger) Service {
	if cache == nil {
		cache = redis.NewNopCache()
	}
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	return &serviceImpl{backend: backend, cache: cache, publisher: publisher, metrics: metrics, logger: log.Named("inventory")}
}

// CreateArticle creates the article upstream. Attachments given as bare
// base64 are turned into data URLs first.
func (s *serviceImpl) CreateArticle(ctx context.Context, tenant string, req client.CreateArticleRequest) (*client.Article, error) {
	if tenant == "" {
		return nil, errors.New(errors.ErrCodeTenantRequired, "tenant is required")
	}
	req.PartNumber = strings.TrimSpace(req.PartNumber)
	req.Serial = strings.TrimSpace(req.Serial)
	if req.Image != "" {
		req.Image = document.NormalizeDataURL(req.Image, "image/jpeg")
	}
	if req.Certificate != "" {
		req.Certificate = document.NormalizeDataURL(req.Certificate, document.MimePDF)
	}

	article, err := s.backend.CreateArticle(ctx, tenant, req)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, tenant, article.ID, kafka.ActionCreated)
	s.logger.Info("article created", logging.Tenant(tenant), logging.Int64("article_id", article.ID))
	return article, nil
}

func (s *serviceImpl) DeleteArticle(ctx context.Context, tenant string, id int64) error {
	if tenant == "" {
		return errors.New(errors.ErrCodeTenantRequired, "tenant is required")
	}
	if id <= 0 {
		return errors.InvalidParam("article id must be positive")
	}
	if err := s.backend.DeleteArticle(ctx, tenant, id); err != nil {
		return err
	}
	s.changed(ctx, tenant, id, kafka.ActionDeleted)
	s.logger.Info("article deleted", logging.Tenant(tenant), logging.Int64("article_id", id))
	return nil
}

// changed invalidates the article scope and announces it. The write has
// already succeeded upstream, so neither step can fail the request.
func (s *serviceImpl) changed(ctx context.Context, tenant string, id int64, action string) {
	keys := redis.ArticleScope(tenant, id)
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("article cache invalidation failed", logging.Tenant(tenant), logging.Err(err))
	} else {
		prometheus.RecordInvalidation(s.metrics, "articles", "local")
	}

	payload := kafka.ResourceChangedPayload{Tenant: tenant, Resource: resourceArticle, ID: id, Action: action, Keys: keys}
	err := s.publisher.PublishEvent(ctx, kafka.TopicResourceChanged, tenant, kafka.EventResourceChanged, payload)
	prometheus.RecordEvent(s.metrics, true, kafka.TopicResourceChanged, err)
	if err != nil {
		s.logger.Warn("resource.changed publish failed", logging.Tenant(tenant), logging.Int64("article_id", id), logging.Err(err))
	}
}

func (s *serviceImpl) Invalidate(ctx context.Context, change kafka.ResourceChangedPayload) error {
	if change.Tenant == "" {
		return errors.New(errors.ErrCodeTenantRequired, "event without tenant")
	}
	if change.Resource != resourceArticle {
		return nil
	}
	keys := redis.ArticleScope(change.Tenant, change.ID)
	if err := s.cache.Delete(ctx, keys...); err != nil {
		return err
	}
	prometheus.RecordInvalidation(s.metrics, "articles", "event")
	return nil
}

//Personal.AI order the ending
