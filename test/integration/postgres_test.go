//go:build integration

// Package integration runs the storage layer and the quarantine sweep
// against a real PostgreSQL. Tests require Docker and are gated behind the
// "integration" build tag.
package integration

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	quarantineapp "github.com/turtacn/AeroOps/internal/application/quarantine"
	"github.com/turtacn/AeroOps/internal/config"
	"github.com/turtacn/AeroOps/internal/domain/aircraft"
	"github.com/turtacn/AeroOps/internal/domain/quarantine"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/postgres"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/redis"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// startPostgres launches a PostgreSQL 16 container and returns a migrated connection.
func startPostgres(t *testing.T) *postgres.Connection {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "aeroops",
			"POSTGRES_PASSWORD": "aeroops",
			"POSTGRES_DB":       "aeroops_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	conn, err := postgres.NewConnection(ctx, config.DatabaseConfig{
		Host:     host,
		Port:     portNum,
		User:     "aeroops",
		Password: "aeroops",
		DBName:   "aeroops_test",
		SSLMode:  "disable",
	}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.RunMigrations(""))
	return conn
}

func TestPostgres(t *testing.T) {
	conn := startPostgres(t)

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, conn.RunMigrations(""))
		m, err := postgres.NewMigrator(conn, "")
		require.NoError(t, err)
		version, dirty, err := m.Status()
		require.NoError(t, err)
		assert.False(t, dirty)
		assert.EqualValues(t, 2, version)
	})

	t.Run("draft lifecycle", func(t *testing.T) { testDraftLifecycle(t, conn) })
	t.Run("alert dedup", func(t *testing.T) { testAlertDedup(t, conn) })
	t.Run("sweep records alerts once", func(t *testing.T) { testSweep(t, conn) })
}

func testDraftLifecycle(t *testing.T, conn *postgres.Connection) {
	ctx := context.Background()
	repo := repositories.NewPostgresDraftRepo(conn, logging.NewNopLogger())
	now := time.Now().UTC().Truncate(time.Microsecond)

	d := aircraft.NewDraft("acme", 42, aircraft.DefaultMaxDepth, now)
	_, err := d.Editor.AddSubpart(aircraft.Path{0})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, d))

	got, err := repo.Get(ctx, "acme", 42, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, 2, aircraft.Count(got.Editor.Parts))

	_, err = repo.Get(ctx, "other", 42, d.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDraftNotFound))

	got.Editor.AddPart()
	require.NoError(t, repo.Update(ctx, got))
	assert.Equal(t, 2, got.Version)

	stale := *d
	err = repo.Update(ctx, &stale)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConflict))

	n, err := repo.DeleteStale(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, repo.Delete(ctx, "acme", 42, d.ID))
	err = repo.Delete(ctx, "acme", 42, d.ID)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDraftNotFound))
}

func testAlertDedup(t *testing.T, conn *postgres.Connection) {
	ctx := context.Background()
	repo := repositories.NewPostgresAlertRepo(conn, logging.NewNopLogger())
	a := quarantine.Alert{
		Tenant:     "dedup",
		ArticleID:  7,
		PartNumber: "PN-7",
		State:      quarantine.BandWarning,
		EntryDate:  "2026-01-01",
		Days:       32,
		Remaining:  8,
		RaisedAt:   time.Now().UTC(),
	}
	created, err := repo.Record(ctx, a)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Record(ctx, a)
	require.NoError(t, err)
	assert.False(t, created)

	a.State = quarantine.BandExpired
	a.RaisedAt = a.RaisedAt.Add(time.Minute)
	created, err = repo.Record(ctx, a)
	require.NoError(t, err)
	assert.True(t, created)

	recent, err := repo.ListRecent(ctx, "dedup", 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, quarantine.BandExpired, recent[0].State)
}

func article(id int64, pn, entry string) quarantine.Article {
	return quarantine.Article{
		ID:         id,
		PartNumber: pn,
		Serial:     "SN-" + pn,
		Quarantine: []quarantine.Record{{Reason: "inspection", EntryDate: entry}},
	}
}

type staticSource map[string][]quarantine.Article

func (s staticSource) ListQuarantined(_ context.Context, tenant string) ([]quarantine.Article, error) {
	return s[tenant], nil
}

func testSweep(t *testing.T, conn *postgres.Connection) {
	ctx := context.Background()
	log := logging.NewNopLogger()
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)

	mr := miniredis.RunT(t)
	rc := redis.NewClientFromUniversal(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), config.RedisConfig{KeyPrefix: "it:"}, log)

	source := staticSource{
		"sweep": {
			article(1, "OK-1", "2026-02-10"),
			article(2, "WARN-2", "2026-01-17"),
			article(3, "EXP-3", "2025-12-01"),
			article(4, "BAD-4", "not-a-date"),
		},
	}
	svc, err := quarantineapp.NewService(quarantineapp.Deps{
		Source: source,
		Cache:  redis.NewRedisCache(rc, log),
		Locks:  redis.NewLockFactory(rc, log),
		Alerts: repositories.NewPostgresAlertRepo(conn, log),
		Logger: log,
	}, quarantineapp.Options{
		Location: time.UTC,
		Now:      func() time.Time { return now },
	})
	require.NoError(t, err)

	report, err := svc.Sweep(ctx, []string{"sweep"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.NewAlerts)
	assert.Empty(t, report.Failed)

	report, err = svc.Sweep(ctx, []string{"sweep"})
	require.NoError(t, err)
	assert.Zero(t, report.NewAlerts)

	alerts, err := svc.RecentAlerts(ctx, "sweep", 10)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
}

//Personal.AI order the ending
