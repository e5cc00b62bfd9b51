package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/turtacn/AeroOps/internal/domain/aircraft"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/postgres"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/pkg/errors"
)

type postgresDraftRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresDraftRepo stores editor drafts in aircraft_drafts.
func NewPostgresDraftRepo(conn *postgres.Connection, log logging.Logger) aircraft.DraftRepository {
	return &postgresDraftRepo{conn: conn, log: log, executor: conn.DB()}
}

func (r *postgresDraftRepo) Create(ctx context.Context, d *aircraft.Draft) error {
	editor, err := json.Marshal(d.Editor)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode draft")
	}
	query := `
		INSERT INTO aircraft_drafts (id, tenant, aircraft_id, editor, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.executor.ExecContext(ctx, query,
		d.ID, d.Tenant, d.AircraftID, editor, d.Version, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrap(err, errors.ErrCodeConflict, "draft already exists")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create draft")
	}
	r.log.Debug("draft created",
		logging.Tenant(d.Tenant),
		logging.String("draft_id", d.ID),
		logging.Int64("aircraft_id", d.AircraftID))
	return nil
}

func (r *postgresDraftRepo) Get(ctx context.Context, tenant string, aircraftID int64, id string) (*aircraft.Draft, error) {
	query := `
		SELECT id, tenant, aircraft_id, editor, version, created_at, updated_at
		FROM aircraft_drafts
		WHERE id = $1 AND tenant = $2 AND aircraft_id = $3`
	return scanDraft(r.executor.QueryRowContext(ctx, query, id, tenant, aircraftID))
}

func (r *postgresDraftRepo) Update(ctx context.Context, d *aircraft.Draft) error {
	editor, err := json.Marshal(d.Editor)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode draft")
	}
	query := `
		UPDATE aircraft_drafts
		SET editor = $4, version = version + 1, updated_at = $5
		WHERE id = $1 AND tenant = $2 AND aircraft_id = $3 AND version = $6`
	now := time.Now().UTC()
	res, err := r.executor.ExecContext(ctx, query, d.ID, d.Tenant, d.AircraftID, editor, now, d.Version)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update draft")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update draft")
	}
	if rows == 0 {
		// Either gone or edited concurrently; tell them apart.
		if _, gerr := r.Get(ctx, d.Tenant, d.AircraftID, d.ID); gerr != nil {
			return gerr
		}
		return errors.New(errors.ErrCodeConflict, "draft was modified concurrently")
	}
	d.Version++
	d.UpdatedAt = now
	return nil
}

func (r *postgresDraftRepo) Delete(ctx context.Context, tenant string, aircraftID int64, id string) error {
	query := `DELETE FROM aircraft_drafts WHERE id = $1 AND tenant = $2 AND aircraft_id = $3`
	res, err := r.executor.ExecContext(ctx, query, id, tenant, aircraftID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete draft")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete draft")
	}
	if rows == 0 {
		return errors.New(errors.ErrCodeDraftNotFound, "draft not found")
	}
	return nil
}

func (r *postgresDraftRepo) DeleteStale(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.executor.ExecContext(ctx, `DELETE FROM aircraft_drafts WHERE updated_at < $1`, olderThan)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete stale drafts")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete stale drafts")
	}
	if n > 0 {
		r.log.Info("stale drafts removed", logging.Int64("count", n))
	}
	return n, nil
}

func scanDraft(row scanner) (*aircraft.Draft, error) {
	var (
		d      aircraft.Draft
		editor []byte
	)
	err := row.Scan(&d.ID, &d.Tenant, &d.AircraftID, &editor, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.New(errors.ErrCodeDraftNotFound, "draft not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load draft")
	}
	var stored aircraft.Editor
	if err := json.Unmarshal(editor, &stored); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode draft")
	}
	e, err := aircraft.Restore(stored.Parts, stored.Expanded, stored.MaxDepth)
	if err != nil {
		return nil, err
	}
	d.Editor = e
	return &d, nil
}

//Personal.AI order the ending
