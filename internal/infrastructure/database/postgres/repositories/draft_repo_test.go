package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/suite"
	"github.com/turtacn/AeroOps/internal/domain/aircraft"
	"github.com/turtacn/AeroOps/internal/infrastructure/database/postgres"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/AeroOps/pkg/errors"
)

var draftColumns = []string{"id", "tenant", "aircraft_id", "editor", "version", "created_at", "updated_at"}

type DraftRepoTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	db   *sql.DB
	repo aircraft.DraftRepository
	now  time.Time
}

func (s *DraftRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.Require().NoError(err)
	conn := postgres.NewConnectionWithDB(s.db, logging.NewNopLogger())
	s.repo = NewPostgresDraftRepo(conn, logging.NewNopLogger())
	s.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func (s *DraftRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func (s *DraftRepoTestSuite) editorJSON(e *aircraft.Editor) []byte {
	b, err := json.Marshal(e)
	s.Require().NoError(err)
	return b
}

func (s *DraftRepoTestSuite) TestCreate_Success() {
	d := aircraft.NewDraft("acme", 9, 0, s.now)
	s.mock.ExpectExec("INSERT INTO aircraft_drafts").
		WithArgs(d.ID, "acme", int64(9), sqlmock.AnyArg(), 1, s.now, s.now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.Create(context.Background(), d))
}

func (s *DraftRepoTestSuite) TestCreate_Duplicate() {
	d := aircraft.NewDraft("acme", 9, 0, s.now)
	s.mock.ExpectExec("INSERT INTO aircraft_drafts").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := s.repo.Create(context.Background(), d)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeConflict))
}

func (s *DraftRepoTestSuite) TestGet_Found() {
	e := aircraft.NewEditor(0)
	_, err := e.AddSubpart(aircraft.Path{0})
	s.Require().NoError(err)

	s.mock.ExpectQuery("SELECT id, tenant, aircraft_id, editor, version, created_at, updated_at FROM aircraft_drafts").
		WithArgs("d-1", "acme", int64(9)).
		WillReturnRows(sqlmock.NewRows(draftColumns).AddRow("d-1", "acme", int64(9), s.editorJSON(e), 3, s.now, s.now))

	d, err := s.repo.Get(context.Background(), "acme", 9, "d-1")
	s.Require().NoError(err)
	s.Equal(3, d.Version)
	s.Require().Len(d.Editor.Parts, 1)
	s.Len(d.Editor.Parts[0].SubParts, 1)
	s.True(d.Editor.IsExpanded(aircraft.Path{0}))
}

func (s *DraftRepoTestSuite) TestGet_NotFound() {
	s.mock.ExpectQuery("SELECT .* FROM aircraft_drafts").
		WithArgs("missing", "acme", int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.repo.Get(context.Background(), "acme", 9, "missing")
	s.True(apperrors.IsCode(err, apperrors.ErrCodeDraftNotFound))
}

func (s *DraftRepoTestSuite) TestGet_CorruptEditor() {
	s.mock.ExpectQuery("SELECT .* FROM aircraft_drafts").
		WillReturnRows(sqlmock.NewRows(draftColumns).AddRow("d-1", "acme", int64(9), []byte("{"), 1, s.now, s.now))

	_, err := s.repo.Get(context.Background(), "acme", 9, "d-1")
	s.True(apperrors.IsCode(err, apperrors.ErrCodeSerialization))
}

func (s *DraftRepoTestSuite) TestUpdate_BumpsVersion() {
	d := aircraft.NewDraft("acme", 9, 0, s.now)
	d.Version = 2
	s.mock.ExpectExec("UPDATE aircraft_drafts").
		WithArgs(d.ID, "acme", int64(9), sqlmock.AnyArg(), sqlmock.AnyArg(), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.Require().NoError(s.repo.Update(context.Background(), d))
	s.Equal(3, d.Version)
}

func (s *DraftRepoTestSuite) TestUpdate_StaleVersion() {
	d := aircraft.NewDraft("acme", 9, 0, s.now)
	s.mock.ExpectExec("UPDATE aircraft_drafts").WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectQuery("SELECT .* FROM aircraft_drafts").
		WillReturnRows(sqlmock.NewRows(draftColumns).AddRow(d.ID, "acme", int64(9), s.editorJSON(d.Editor), 2, s.now, s.now))

	err := s.repo.Update(context.Background(), d)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeConflict))
	s.Equal(1, d.Version)
}

func (s *DraftRepoTestSuite) TestUpdate_Gone() {
	d := aircraft.NewDraft("acme", 9, 0, s.now)
	s.mock.ExpectExec("UPDATE aircraft_drafts").WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectQuery("SELECT .* FROM aircraft_drafts").WillReturnError(sql.ErrNoRows)

	err := s.repo.Update(context.Background(), d)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeDraftNotFound))
}

func (s *DraftRepoTestSuite) TestDelete() {
	s.mock.ExpectExec("DELETE FROM aircraft_drafts WHERE id").
		WithArgs("d-1", "acme", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.NoError(s.repo.Delete(context.Background(), "acme", 9, "d-1"))

	s.mock.ExpectExec("DELETE FROM aircraft_drafts WHERE id").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := s.repo.Delete(context.Background(), "acme", 9, "d-1")
	s.True(apperrors.IsCode(err, apperrors.ErrCodeDraftNotFound))
}

func (s *DraftRepoTestSuite) TestDeleteStale() {
	cutoff := s.now.Add(-72 * time.Hour)
	s.mock.ExpectExec("DELETE FROM aircraft_drafts WHERE updated_at").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := s.repo.DeleteStale(context.Background(), cutoff)
	s.NoError(err)
	s.Equal(int64(4), n)
}

func (s *DraftRepoTestSuite) TestDatabaseError() {
	s.mock.ExpectExec("DELETE FROM aircraft_drafts WHERE updated_at").WillReturnError(errors.New("conn reset"))
	_, err := s.repo.DeleteStale(context.Background(), s.now)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeDatabaseError))
}

func (s *DraftRepoTestSuite) TestRowsAffectedError() {
	ctx := context.Background()
	d := aircraft.NewDraft("acme", 9, 0, s.now)
	d.Version = 2
	bad := sqlmock.NewErrorResult(errors.New("driver cannot count rows"))

	s.mock.ExpectExec("UPDATE aircraft_drafts").WillReturnResult(bad)
	s.True(apperrors.IsCode(s.repo.Update(ctx, d), apperrors.ErrCodeDatabaseError))
	s.Equal(2, d.Version)

	s.mock.ExpectExec("DELETE FROM aircraft_drafts WHERE id").WillReturnResult(bad)
	s.True(apperrors.IsCode(s.repo.Delete(ctx, "acme", 9, "d-1"), apperrors.ErrCodeDatabaseError))

	s.mock.ExpectExec("DELETE FROM aircraft_drafts WHERE updated_at").WillReturnResult(bad)
	n, err := s.repo.DeleteStale(ctx, s.now)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeDatabaseError))
	s.Zero(n)
}

func TestDraftRepoTestSuite(t *testing.T) {
	suite.Run(t, new(DraftRepoTestSuite))
}

//Personal.AI order the ending
