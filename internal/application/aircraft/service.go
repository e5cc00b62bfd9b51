// Package aircraft manages aircraft part-tree drafts: the editor state lives
// in postgres between requests and is submitted upstream in one bulk call.
package aircraft

import (
	"context"
	"time"

	domain "github.com/turtacn/AeroOps/internal/domain/aircraft"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// PartsBackend receives the submitted tree.
type PartsBackend interface {
	SubmitParts(ctx context.Context, tenant string, aircraftID int64, parts []domain.APIPart) (int, error)
}

// Service defines the draft use cases. version is the caller's last seen
// draft version; zero skips the check.
type Service interface {
	Open(ctx context.Context, ref Ref) (*domain.Draft, error)
	Get(ctx context.Context, ref Ref) (*domain.Draft, error)
	AddPart(ctx context.Context, ref Ref, version int) (*domain.Draft, error)
	AddSubpart(ctx context.Context, ref Ref, version int, parent domain.Path) (*domain.Draft, error)
	RemoveItem(ctx context.Context, ref Ref, version int, path domain.Path) (*domain.Draft, error)
	UpdatePart(ctx context.Context, ref Ref, version int, path domain.Path, patch PartPatch) (*domain.Draft, error)
	Toggle(ctx context.Context, ref Ref, version int, path domain.Path) (*domain.Draft, error)
	Replace(ctx context.Context, ref Ref, version int, parts []domain.Part) (*domain.Draft, error)
	Discard(ctx context.Context, ref Ref) error
	Submit(ctx context.Context, ref Ref) (*SubmitResult, error)
	PurgeStale(ctx context.Context) (int64, error)
}

// Ref identifies a draft. DraftID is ignored by Open.
type Ref struct {
	Tenant     string
	AircraftID int64
	DraftID    string
}

// PartPatch changes the non-nil fields of a part.
type PartPatch struct {
	PartName            *string  `json:"part_name,omitempty"`
	PartNumber          *string  `json:"part_number,omitempty"`
	ConditionType       *string  `json:"condition_type,omitempty"`
	Category            *string  `json:"category,omitempty"`
	IsFather            *bool    `json:"is_father,omitempty"`
	TimeSinceNew        *float64 `json:"time_since_new,omitempty"`
	TimeSinceOverhaul   *float64 `json:"time_since_overhaul,omitempty"`
	CyclesSinceNew      *float64 `json:"cycles_since_new,omitempty"`
	CyclesSinceOverhaul *float64 `json:"cycles_since_overhaul,omitempty"`
}

func (p PartPatch) apply(part *domain.Part) {
	if p.PartName != nil {
		part.PartName = *p.PartName
	}
	if p.PartNumber != nil {
		part.PartNumber = *p.PartNumber
	}
	if p.ConditionType != nil {
		part.ConditionType = *p.ConditionType
	}
	if p.Category != nil {
		part.Category = *p.Category
	}
	if p.IsFather != nil {
		part.IsFather = *p.IsFather
	}
	if p.TimeSinceNew != nil {
		part.TimeSinceNew = p.TimeSinceNew
	}
	if p.TimeSinceOverhaul != nil {
		part.TimeSinceOverhaul = p.TimeSinceOverhaul
	}
	if p.CyclesSinceNew != nil {
		part.CyclesSinceNew = p.CyclesSinceNew
	}
	if p.CyclesSinceOverhaul != nil {
		part.CyclesSinceOverhaul = p.CyclesSinceOverhaul
	}
}

// SubmitResult reports a successful submission.
type SubmitResult struct {
	AircraftID int64                  `json:"aircraft_id"`
	Submitted  int                    `json:"submitted"`
	Created    int                    `json:"created"`
	Warnings   []domain.Inconsistency `json:"warnings"`
}

// Options configures the service.
type Options struct {
	MaxDepth int
	DraftTTL time.Duration
	Now      func() time.Time
}

type serviceImpl struct {
	repo    domain.DraftRepository
	backend PartsBackend
	metrics *prometheus.AppMetrics
	logger  logging.Logger
	opts    Options
}

// NewService creates the draft service. metrics may be nil.
func NewService(repo domain.DraftRepository, backend PartsBackend, metrics *prometheus.AppMetrics, log logging.Logger, opts Options) Service {
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = domain.DefaultMaxDepth
	}
	if opts.DraftTTL <= 0 {
		opts.DraftTTL = 72 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &serviceImpl{repo: repo, backend: backend, metrics: metrics, logger: log.Named("aircraft"), opts: opts}
}

func (r Ref) validate(needDraft bool) error {
	if r.Tenant == "" {
		return errors.New(errors.ErrCodeTenantRequired, "tenant is required")
	}
	if r.AircraftID <= 0 {
		return errors.InvalidParam("aircraft id must be positive")
	}
	if needDraft && r.DraftID == "" {
		return errors.InvalidParam("draft id is required")
	}
	return nil
}

func (s *serviceImpl) record(op string, err error) {
	prometheus.RecordDraftOperation(s.metrics, op, err)
}

func (s *serviceImpl) Open(ctx context.Context, ref Ref) (*domain.Draft, error) {
	if err := ref.validate(false); err != nil {
		return nil, err
	}
	d := domain.NewDraft(ref.Tenant, ref.AircraftID, s.opts.MaxDepth, s.opts.Now())
	err := s.repo.Create(ctx, d)
	s.record("open", err)
	if err != nil {
		return nil, err
	}
	s.logger.Info("draft opened", logging.Tenant(ref.Tenant), logging.Int64("aircraft_id", ref.AircraftID), logging.String("draft_id", d.ID))
	return d, nil
}

func (s *serviceImpl) Get(ctx context.Context, ref Ref) (*domain.Draft, error) {
	if err := ref.validate(true); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, ref.Tenant, ref.AircraftID, ref.DraftID)
}

// mutate loads the draft, applies fn and saves it. fn errors leave the stored
// draft untouched.
func (s *serviceImpl) mutate(ctx context.Context, op string, ref Ref, version int, fn func(e *domain.Editor) error) (*domain.Draft, error) {
	d, err := s.Get(ctx, ref)
	if err != nil {
		s.record(op, err)
		return nil, err
	}
	if version > 0 && d.Version != version {
		err := errors.Conflict("draft was modified").WithDetail("reload the draft and retry")
		s.record(op, err)
		return nil, err
	}
	if err := fn(d.Editor); err != nil {
		s.record(op, err)
		return nil, err
	}
	d.UpdatedAt = s.opts.Now()
	err = s.repo.Update(ctx, d)
	s.record(op, err)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *serviceImpl) AddPart(ctx context.Context, ref Ref, version int) (*domain.Draft, error) {
	return s.mutate(ctx, "add_part", ref, version, func(e *domain.Editor) error {
		e.AddPart()
		return nil
	})
}

func (s *serviceImpl) AddSubpart(ctx context.Context, ref Ref, version int, parent domain.Path) (*domain.Draft, error) {
	return s.mutate(ctx, "add_subpart", ref, version, func(e *domain.Editor) error {
		_, err := e.AddSubpart(parent)
		return err
	})
}

func (s *serviceImpl) RemoveItem(ctx context.Context, ref Ref, version int, path domain.Path) (*domain.Draft, error) {
	return s.mutate(ctx, "remove_item", ref, version, func(e *domain.Editor) error {
		return e.RemoveItem(path)
	})
}

func (s *serviceImpl) UpdatePart(ctx context.Context, ref Ref, version int, path domain.Path, patch PartPatch) (*domain.Draft, error) {
	return s.mutate(ctx, "update_part", ref, version, func(e *domain.Editor) error {
		return e.Update(path, patch.apply)
	})
}

func (s *serviceImpl) Toggle(ctx context.Context, ref Ref, version int, path domain.Path) (*domain.Draft, error) {
	return s.mutate(ctx, "toggle", ref, version, func(e *domain.Editor) error {
		_, err := e.Toggle(path)
		return err
	})
}

// Replace swaps the whole tree, for clients that edit offline.
func (s *serviceImpl) Replace(ctx context.Context, ref Ref, version int, parts []domain.Part) (*domain.Draft, error) {
	return s.mutate(ctx, "replace", ref, version, func(e *domain.Editor) error {
		restored, err := domain.Restore(parts, nil, s.opts.MaxDepth)
		if err != nil {
			return err
		}
		*e = *restored
		return nil
	})
}

func (s *serviceImpl) Discard(ctx context.Context, ref Ref) error {
	if err := ref.validate(true); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, ref.Tenant, ref.AircraftID, ref.DraftID)
	s.record("discard", err)
	return err
}

// Submit posts the transformed tree and deletes the draft. A failed upstream
// call keeps the draft so the user can retry.
func (s *serviceImpl) Submit(ctx context.Context, ref Ref) (*SubmitResult, error) {
	d, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	parts, warnings, err := d.Editor.Submission()
	if err != nil {
		s.record("submit", err)
		return nil, err
	}
	created, err := s.backend.SubmitParts(ctx, ref.Tenant, ref.AircraftID, parts)
	s.record("submit", err)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, ref.Tenant, ref.AircraftID, ref.DraftID); err != nil && !errors.IsNotFound(err) {
		s.logger.Warn("submitted draft could not be deleted", logging.String("draft_id", ref.DraftID), logging.Err(err))
	}
	if warnings == nil {
		warnings = []domain.Inconsistency{}
	}
	for _, w := range warnings {
		s.logger.Warn("is_father disagrees with sub_parts",
			logging.Tenant(ref.Tenant), logging.String("path", w.Path), logging.Bool("is_father", w.IsFather), logging.Int("sub_parts", w.SubParts))
	}
	return &SubmitResult{
		AircraftID: ref.AircraftID,
		Submitted:  domain.Count(d.Editor.Parts),
		Created:    created,
		Warnings:   warnings,
	}, nil
}

// PurgeStale deletes drafts untouched for longer than the draft TTL.
func (s *serviceImpl) PurgeStale(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteStale(ctx, s.opts.Now().Add(-s.opts.DraftTTL))
	s.record("purge", err)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("stale drafts purged", logging.Int64("count", n))
	}
	return n, nil
}

//Personal.AI order the ending
