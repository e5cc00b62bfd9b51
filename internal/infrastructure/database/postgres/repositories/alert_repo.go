package repositories

import (
	"context"

	"github.com/turtacn/AeroOps/internal/domain/quarantine"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/postgres"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/pkg/errors"
)

const defaultAlertLimit = 50

type postgresAlertRepo struct {
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresAlertRepo stores quarantine alerts in quarantine_alerts.
func NewPostgresAlertRepo(conn *postgres.Connection, log logging.Logger) quarantine.AlertRepository {
	return &postgresAlertRepo{log: log, executor: conn.DB()}
}

func (r *postgresAlertRepo) Record(ctx context.Context, a quarantine.Alert) (bool, error) {
	query := `
		INSERT INTO quarantine_alerts (tenant, article_id, part_number, state, entry_date, days, remaining, raised_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT ON CONSTRAINT uq_quarantine_alerts_transition DO NOTHING`
	res, err := r.executor.ExecContext(ctx, query,
		a.Tenant, a.ArticleID, a.PartNumber, string(a.State), a.EntryDate, a.Days, a.Remaining, a.RaisedAt)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to record alert")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *postgresAlertRepo) ListRecent(ctx context.Context, tenant string, limit int) ([]quarantine.Alert, error) {
	if limit <= 0 {
		limit = defaultAlertLimit
	}
	query := `
		SELECT tenant, article_id, part_number, state, entry_date, days, remaining, raised_at
		FROM quarantine_alerts
		WHERE tenant = $1
		ORDER BY raised_at DESC
		LIMIT $2`
	rows, err := r.executor.QueryContext(ctx, query, tenant, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list alerts")
	}
	defer rows.Close()

	out := make([]quarantine.Alert, 0)
	for rows.Next() {
		var (
			a     quarantine.Alert
			state string
		)
		if err := rows.Scan(&a.Tenant, &a.ArticleID, &a.PartNumber, &state, &a.EntryDate, &a.Days, &a.Remaining, &a.RaisedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan alert")
		}
		a.State = quarantine.RiskBand(state)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate alerts")
	}
	return out, nil
}

//Personal.AI order the ending
