package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectfe/connectfe-api/internal/model"
)

var campaignCols = []string{
	"id", "church_id", "title", "description", "goal_cents", "raised_cents",
	"donor_count", "end_date", "status", "created_at", "updated_at",
}

var (
	qCampaignForUpdate = regexp.QuoteMeta("FROM campaigns WHERE id = ? FOR UPDATE")
	qInsertDonation    = regexp.QuoteMeta("INSERT INTO donations")
	qDonationCreatedAt = regexp.QuoteMeta("SELECT created_at FROM donations WHERE id = ?")
	qUpdateCampaign    = regexp.QuoteMeta("UPDATE campaigns SET raised_cents = ?, donor_count = ?, status = ?")
)

func newCampaignRepo(t *testing.T) (*CampaignRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewCampaignRepo(db), mock
}

func campaignRow(raised, goal uint64, status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(campaignCols).AddRow(
		1, 9, "Roof repair", nil, goal, raised, 3, nil, status, now, now,
	)
}

func TestDonateIncrementsTotals(t *testing.T) {
	repo, mock := newCampaignRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qCampaignForUpdate).
		WillReturnRows(campaignRow(10000, 50000, model.CampaignActive))
	mock.ExpectExec(qInsertDonation).
		WithArgs(uint64(1), uint64(42), uint64(2500)).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(qDonationCreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectExec(qUpdateCampaign).
		WithArgs(uint64(12500), uint32(4), model.CampaignActive, uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, d, err := repo.Donate(context.Background(), 1, 42, 2500)
	require.NoError(t, err)
	assert.Equal(t, uint64(12500), c.RaisedCents, "raised only ever grows")
	assert.Equal(t, uint32(4), c.DonorCount)
	assert.Equal(t, model.CampaignActive, c.Status)
	assert.Equal(t, uint64(7), d.ID)
	assert.Equal(t, uint64(2500), d.AmountCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonateCompletesAtGoal(t *testing.T) {
	repo, mock := newCampaignRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qCampaignForUpdate).
		WillReturnRows(campaignRow(49000, 50000, model.CampaignActive))
	mock.ExpectExec(qInsertDonation).WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectQuery(qDonationCreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectExec(qUpdateCampaign).
		WithArgs(uint64(51000), uint32(4), model.CampaignCompleted, uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, _, err := repo.Donate(context.Background(), 1, 42, 2000)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignCompleted, c.Status, "flips exactly when raised >= goal")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonateRejectsCompletedCampaign(t *testing.T) {
	repo, mock := newCampaignRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qCampaignForUpdate).
		WillReturnRows(campaignRow(50000, 50000, model.CampaignCompleted))
	mock.ExpectRollback()

	_, _, err := repo.Donate(context.Background(), 1, 42, 100)
	assert.ErrorIs(t, err, ErrCampaignClosed)
	assert.NoError(t, mock.ExpectationsWereMet(), "no donation row may be written")
}

func TestDonateUnknownCampaign(t *testing.T) {
	repo, mock := newCampaignRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(qCampaignForUpdate).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, _, err := repo.Donate(context.Background(), 99, 42, 100)
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}
