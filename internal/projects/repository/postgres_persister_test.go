package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPostgresPersister(t *testing.T) (*PostgresPersister, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return NewPostgresPersister(db), mock, db
}

func TestPostgresPersister_EnsureSchema(t *testing.T) {
	persister, mock, db := setupPostgresPersister(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS voc_projects`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, persister.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPersister_Save(t *testing.T) {
	persister, mock, db := setupPostgresPersister(t)
	defer db.Close()
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("replaces the table in one transaction", func(t *testing.T) {
		projects := []domain.Project{
			project("a", "A", 0, domain.StatusDraft, now),
			project("b", "B", 100, domain.StatusCompleted, now),
		}

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM voc_projects`).WillReturnResult(sqlmock.NewResult(0, 3))
		prep := mock.ExpectPrepare(`INSERT INTO voc_projects`)
		prep.ExpectExec().
			WithArgs("a", "A", "", sqlmock.AnyArg(), "draft", []byte("[]"), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		prep.ExpectExec().
			WithArgs("b", "B", "", sqlmock.AnyArg(), "completed", []byte("[]"), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		require.NoError(t, persister.Save(ctx, projects))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty collection only clears", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM voc_projects`).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		require.NoError(t, persister.Save(ctx, nil))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on insert failure", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM voc_projects`).WillReturnResult(sqlmock.NewResult(0, 0))
		prep := mock.ExpectPrepare(`INSERT INTO voc_projects`)
		prep.ExpectExec().WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := persister.Save(ctx, []domain.Project{project("a", "A", 0, domain.StatusDraft, now)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresPersister_Load(t *testing.T) {
	persister, mock, db := setupPostgresPersister(t)
	defer db.Close()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("scans rows and steps", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name, description, progress, status, completed_steps`).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "name", "description", "progress", "status", "completed_steps", "created_at", "updated_at",
			}).
				AddRow("a", "A", "first", 0, "draft", []byte("[]"), now, now).
				AddRow("b", "B", "", 40, "active", []byte(`["objectives","questions"]`), now, now.Add(time.Hour)))

		got, err := persister.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "first", got[0].Description)
		assert.Equal(t, domain.StatusActive, got[1].Status)
		assert.Equal(t, 40, got[1].Progress)
		assert.Equal(t, []domain.Step{domain.StepObjectives, domain.StepQuestions}, got[1].CompletedSteps)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns query errors", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name`).WillReturnError(errors.New("connection reset"))

		_, err := persister.Load(context.Background())
		assert.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
