package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
	"github.com/Open-AIP/OpenAIP-sub005/internal/repository"
)

var feedbackTestColumns = []string{"id", "target_type", "aip_id", "project_id", "parent_feedback_id", "kind", "body", "author_id", "is_public", "created_at", "updated_at"}

func TestFeedbackPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFeedbackPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	aipID := "aip-1"
	authorID := "user-1"
	item := &model.FeedbackItem{
		ID:             "fb-1",
		FeedbackTarget: model.FeedbackTarget{Type: model.TargetAip, AipID: &aipID},
		Kind:           model.KindQuestion,
		Body:           "where is the drainage line item?",
		AuthorID:       &authorID,
		IsPublic:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	rows := sqlmock.NewRows(feedbackTestColumns).
		AddRow(item.ID, item.Type, aipID, nil, nil, item.Kind, item.Body, authorID, true, now, now)

	mock.ExpectQuery("INSERT INTO feedback").
		WithArgs(item.ID, item.Type, &aipID, nil, nil, item.Kind, item.Body, &authorID, true, now, now).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, item)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, item.ID, result.ID)
	assert.NotNil(t, result.AipID)
	assert.Nil(t, result.ProjectID)
	assert.Nil(t, result.ParentFeedbackID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackPostgres_ListThread(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFeedbackPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(feedbackTestColumns).
		AddRow("fb-1", model.TargetAip, "aip-1", nil, nil, model.KindQuestion, "root", "user-1", true, now, now).
		AddRow("fb-2", model.TargetAip, "aip-1", nil, "fb-1", model.KindLguNote, "reply", "official-1", true, now.Add(time.Minute), now.Add(time.Minute))

	mock.ExpectQuery("WITH RECURSIVE thread AS").
		WithArgs("fb-1").
		WillReturnRows(rows)

	items, err := repo.ListThread(ctx, "fb-1")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "fb-1", items[0].ID)
	assert.NotNil(t, items[1].ParentFeedbackID)
	assert.Equal(t, "fb-1", *items[1].ParentFeedbackID)
}

func TestFeedbackPostgres_ListByTarget(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFeedbackPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("aip target", func(t *testing.T) {
		aipID := "aip-1"
		rows := sqlmock.NewRows(feedbackTestColumns).
			AddRow("fb-1", model.TargetAip, aipID, nil, nil, model.KindConcern, "late start", "user-1", true, now, now)

		mock.ExpectQuery("SELECT (.+) FROM feedback WHERE target_type = 'aip' AND aip_id = ?").
			WithArgs(&aipID).
			WillReturnRows(rows)

		items, err := repo.ListByTarget(ctx, model.FeedbackTarget{Type: model.TargetAip, AipID: &aipID})

		assert.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("project target", func(t *testing.T) {
		projectID := "proj-1"
		rows := sqlmock.NewRows(feedbackTestColumns).
			AddRow("fb-2", model.TargetProject, nil, projectID, nil, model.KindCommend, "good work", "user-2", true, now, now)

		mock.ExpectQuery("SELECT (.+) FROM feedback WHERE target_type = 'project' AND project_id = ?").
			WithArgs(&projectID).
			WillReturnRows(rows)

		items, err := repo.ListByTarget(ctx, model.FeedbackTarget{Type: model.TargetProject, ProjectID: &projectID})

		assert.NoError(t, err)
		assert.Len(t, items, 1)
		assert.NotNil(t, items[0].ProjectID)
	})
}

func TestFeedbackPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFeedbackPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	hidden := false
	rows := sqlmock.NewRows(feedbackTestColumns).
		AddRow("fb-1", model.TargetAip, "aip-1", nil, nil, model.KindQuestion, "original", "user-1", false, now, now)

	mock.ExpectQuery("UPDATE feedback").
		WithArgs("fb-1", nil, nil, &hidden, sqlmock.AnyArg()).
		WillReturnRows(rows)

	result, err := repo.Update(ctx, "fb-1", repository.FeedbackPatch{IsPublic: &hidden})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.False(t, result.IsPublic)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackPostgres_DeleteByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFeedbackPostgres(db)
	ctx := context.Background()

	t.Run("deletes subtree", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM feedback WHERE id IN").
			WithArgs("fb-1", "fb-2", "fb-3").
			WillReturnResult(sqlmock.NewResult(0, 3))

		n, err := repo.DeleteByIDs(ctx, []string{"fb-1", "fb-2", "fb-3"})

		assert.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("empty id set is a no-op", func(t *testing.T) {
		n, err := repo.DeleteByIDs(ctx, nil)

		assert.NoError(t, err)
		assert.Zero(t, n)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
