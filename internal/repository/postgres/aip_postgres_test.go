package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
	"github.com/Open-AIP/OpenAIP-sub005/internal/repository"
)

var aipTestColumns = []string{"id", "fiscal_year", "barangay_id", "city_id", "municipality_id", "status", "status_updated_at", "submitted_at", "published_at", "created_by", "created_at"}

func TestAipPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAipPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	aip := &model.Aip{
		ID:              "aip-1",
		FiscalYear:      2026,
		OwnerScope:      model.ScopeRef{Kind: model.ScopeCity, ID: "city-1"},
		Status:          model.StatusDraft,
		StatusUpdatedAt: now,
		CreatedBy:       "user-1",
		CreatedAt:       now,
	}

	rows := sqlmock.NewRows(aipTestColumns).
		AddRow(aip.ID, aip.FiscalYear, nil, "city-1", nil, aip.Status, now, nil, nil, aip.CreatedBy, now)

	mock.ExpectQuery("INSERT INTO aips").
		WithArgs(aip.ID, aip.FiscalYear, nil, "city-1", nil, aip.Status, now, aip.CreatedBy, now).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, aip)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, aip.ID, result.ID)
	assert.Equal(t, model.ScopeCity, result.OwnerScope.Kind)
	assert.Equal(t, "city-1", result.OwnerScope.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAipPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAipPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now().UTC()
		rows := sqlmock.NewRows(aipTestColumns).
			AddRow("aip-1", 2026, "brgy-1", nil, nil, model.StatusPendingReview, now, now, nil, "user-1", now)

		mock.ExpectQuery("SELECT (.+) FROM aips WHERE id = ?").
			WithArgs("aip-1").
			WillReturnRows(rows)

		aip, err := repo.FindByID(ctx, "aip-1")

		assert.NoError(t, err)
		assert.NotNil(t, aip)
		assert.Equal(t, model.ScopeBarangay, aip.OwnerScope.Kind)
		assert.NotNil(t, aip.SubmittedAt)
		assert.Nil(t, aip.PublishedAt)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM aips WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		aip, err := repo.FindByID(ctx, "missing")

		assert.Error(t, err)
		assert.Nil(t, aip)
	})
}

func TestAipPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAipPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM aips").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	now := time.Now().UTC()
	rows := sqlmock.NewRows(aipTestColumns).
		AddRow("aip-1", 2026, nil, nil, "muni-1", model.StatusPublished, now, now, now, "user-1", now)

	mock.ExpectQuery("SELECT (.+) FROM aips ORDER BY").
		WithArgs(10, 0).
		WillReturnRows(rows)

	res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, model.ScopeMunicipality, res.Items[0].OwnerScope.Kind)
}

func TestAipPostgres_UpdateStatusIf(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAipPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("row updated", func(t *testing.T) {
		mock.ExpectExec("UPDATE aips").
			WithArgs("aip-1", model.StatusUnderReview, now, false, false, model.StatusPendingReview, model.StatusForRevision).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.UpdateStatusIf(ctx, repository.StatusUpdate{
			AipID: "aip-1",
			From:  []model.AipStatus{model.StatusPendingReview, model.StatusForRevision},
			To:    model.StatusUnderReview,
			Now:   now,
		})

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("lost race", func(t *testing.T) {
		mock.ExpectExec("UPDATE aips").
			WithArgs("aip-1", model.StatusPublished, now, false, true, model.StatusUnderReview).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.UpdateStatusIf(ctx, repository.StatusUpdate{
			AipID:          "aip-1",
			From:           []model.AipStatus{model.StatusUnderReview},
			To:             model.StatusPublished,
			Now:            now,
			SetPublishedAt: true,
		})

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
