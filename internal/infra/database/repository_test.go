package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestProposalMarkViewedOnlyFirstTime(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewProposalRepository(db)

	viewed := `(?s)UPDATE proposals\s+SET viewed_at = NOW\(\).*WHERE token = \$1 AND viewed_at IS NULL`
	mock.ExpectExec(viewed).WithArgs("tok-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(viewed).WithArgs("tok-1").WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.MarkViewed(context.Background(), "tok-1")
	require.NoError(t, err)
	second, err := repo.MarkViewed(context.Background(), "tok-1")
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalAccept(t *testing.T) {
	accept := `(?s)UPDATE proposals\s+SET status = 'accepted'.*WHERE id = \$1 AND status <> 'accepted'\s+RETURNING lead_id`
	exists := `SELECT EXISTS \(SELECT 1 FROM proposals WHERE id = \$1\)`

	t.Run("ya aceptada", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(accept).WithArgs("p-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"lead_id"}))
		mock.ExpectQuery(exists).WithArgs("p-1").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err = NewProposalRepository(db).Accept(context.Background(), "p-1", "sig", "Ana",
			entity.NewActivity("", nil, entity.ActivityProposalAccepted, "aceptada"))

		assert.ErrorIs(t, err, entity.ErrProposalAlreadyAccepted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no existe", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(accept).WithArgs("p-9", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"lead_id"}))
		mock.ExpectQuery(exists).WithArgs("p-9").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		err = NewProposalRepository(db).Accept(context.Background(), "p-9", "", "Ana",
			entity.NewActivity("", nil, entity.ActivityProposalAccepted, "aceptada"))

		assert.ErrorIs(t, err, entity.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("primera aceptación marca el lead ganado", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(accept).WithArgs("p-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"lead_id"}).AddRow("lead-1"))
		mock.ExpectExec(`UPDATE leads SET status = \$2`).WithArgs("lead-1", entity.LeadStatusWon).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO activities`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		activity := entity.NewActivity("", nil, entity.ActivityProposalAccepted, "aceptada")
		err = NewProposalRepository(db).Accept(context.Background(), "p-1", "sig", "Ana", activity)

		require.NoError(t, err)
		assert.Equal(t, "lead-1", activity.LeadID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConvertToLeadRejectsProcessedProspect(t *testing.T) {
	mock, repo, done := newHunterMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT processed FROM hunter_prospects WHERE id = \$1 AND user_id = \$2 FOR UPDATE`).
		WithArgs("pr-1", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"processed"}).AddRow(true))
	mock.ExpectRollback()

	lead := &entity.Lead{ID: "lead-1", Name: "Clínica Sol"}
	err := repo.ConvertToLead(context.Background(), "u-1", "pr-1", lead,
		entity.NewActivity("lead-1", nil, entity.ActivityLeadCreated, "Lead Hunter"))

	// Sin INSERT esperado: cualquier escritura haría fallar las expectativas.
	assert.ErrorIs(t, err, entity.ErrProspectAlreadyProcessed)
}

func TestConvertToLeadUnknownProspect(t *testing.T) {
	mock, repo, done := newHunterMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT processed FROM hunter_prospects`).
		WithArgs("pr-x", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"processed"}))
	mock.ExpectRollback()

	err := repo.ConvertToLead(context.Background(), "u-1", "pr-x", &entity.Lead{ID: "lead-1"},
		entity.NewActivity("lead-1", nil, entity.ActivityLeadCreated, "Lead Hunter"))

	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestConsumeQuotaOnlyBelowLimit(t *testing.T) {
	mock, repo, done := newHunterMock(t)
	defer done()

	consume := `(?s)UPDATE users SET hunter_prospects_today = hunter_prospects_today \+ 1\s+` +
		`WHERE id = \$1 AND hunter_prospects_today < hunter_daily_limit`
	mock.ExpectExec(consume).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(consume).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.ConsumeQuota(context.Background(), "u-1"))
	assert.ErrorIs(t, repo.ConsumeQuota(context.Background(), "u-1"), entity.ErrQuotaExceeded)
}

func newHunterMock(t *testing.T) (sqlmock.Sqlmock, *HunterRepository, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return mock, NewHunterRepository(db), func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	}
}
