package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
	"github.com/Open-AIP/OpenAIP-sub005/internal/repository"
)

// FeedbackPostgres is a PostgreSQL implementation of
// repository.FeedbackRepository.
type FeedbackPostgres struct {
	db *sql.DB
}

// NewFeedbackPostgres creates a new FeedbackPostgres repository.
func NewFeedbackPostgres(db *sql.DB) *FeedbackPostgres {
	return &FeedbackPostgres{db: db}
}

var _ repository.FeedbackRepository = (*FeedbackPostgres)(nil)

const feedbackColumns = `id, target_type, aip_id, project_id, parent_feedback_id, kind, body, author_id, is_public, created_at, updated_at`

func scanFeedbackItem(row interface{ Scan(dest ...any) error }) (*model.FeedbackItem, error) {
	var (
		f                  model.FeedbackItem
		aipID, projectID   sql.NullString
		parentID, authorID sql.NullString
	)
	if err := row.Scan(
		&f.ID,
		&f.Type,
		&aipID,
		&projectID,
		&parentID,
		&f.Kind,
		&f.Body,
		&authorID,
		&f.IsPublic,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if aipID.Valid {
		s := aipID.String
		f.AipID = &s
	}
	if projectID.Valid {
		s := projectID.String
		f.ProjectID = &s
	}
	if parentID.Valid {
		s := parentID.String
		f.ParentFeedbackID = &s
	}
	if authorID.Valid {
		s := authorID.String
		f.AuthorID = &s
	}
	return &f, nil
}

func (r *FeedbackPostgres) queryItems(ctx context.Context, q string, args ...any) ([]model.FeedbackItem, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.FeedbackItem, 0)
	for rows.Next() {
		f, err := scanFeedbackItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts a new feedback row and returns the stored record.
func (r *FeedbackPostgres) Create(ctx context.Context, item *model.FeedbackItem) (*model.FeedbackItem, error) {
	const q = `
		INSERT INTO feedback (id, target_type, aip_id, project_id, parent_feedback_id, kind, body, author_id, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + feedbackColumns
	row := r.db.QueryRowContext(ctx, q,
		item.ID,
		item.Type,
		item.AipID,
		item.ProjectID,
		item.ParentFeedbackID,
		item.Kind,
		item.Body,
		item.AuthorID,
		item.IsPublic,
		item.CreatedAt,
		item.UpdatedAt,
	)
	return scanFeedbackItem(row)
}

// FindByID fetches a single feedback item by its ID.
func (r *FeedbackPostgres) FindByID(ctx context.Context, id string) (*model.FeedbackItem, error) {
	const q = `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = $1`
	return scanFeedbackItem(r.db.QueryRowContext(ctx, q, id))
}

// ListChildren returns the direct replies of an item, oldest first.
func (r *FeedbackPostgres) ListChildren(ctx context.Context, parentID string) ([]model.FeedbackItem, error) {
	const q = `
		SELECT ` + feedbackColumns + `
		FROM feedback
		WHERE parent_feedback_id = $1
		ORDER BY created_at ASC, id ASC
	`
	return r.queryItems(ctx, q, parentID)
}

// ListThread returns the root plus every transitive descendant, oldest first.
// Ancestors of a row are immutable once written, so the recursive walk needs
// no locking against concurrent inserts elsewhere in the store.
func (r *FeedbackPostgres) ListThread(ctx context.Context, rootID string) ([]model.FeedbackItem, error) {
	const q = `
		WITH RECURSIVE thread AS (
			SELECT ` + feedbackColumns + ` FROM feedback WHERE id = $1
			UNION ALL
			SELECT f.id, f.target_type, f.aip_id, f.project_id, f.parent_feedback_id, f.kind, f.body, f.author_id, f.is_public, f.created_at, f.updated_at
			FROM feedback f
			JOIN thread t ON f.parent_feedback_id = t.id
		)
		SELECT ` + feedbackColumns + ` FROM thread
		ORDER BY created_at ASC, id ASC
	`
	return r.queryItems(ctx, q, rootID)
}

// ListByTarget returns all items addressed to a target, oldest first.
func (r *FeedbackPostgres) ListByTarget(ctx context.Context, target model.FeedbackTarget) ([]model.FeedbackItem, error) {
	if target.Type == model.TargetAip {
		const q = `
			SELECT ` + feedbackColumns + `
			FROM feedback
			WHERE target_type = 'aip' AND aip_id = $1
			ORDER BY created_at ASC, id ASC
		`
		return r.queryItems(ctx, q, target.AipID)
	}
	const q = `
		SELECT ` + feedbackColumns + `
		FROM feedback
		WHERE target_type = 'project' AND project_id = $1
		ORDER BY created_at ASC, id ASC
	`
	return r.queryItems(ctx, q, target.ProjectID)
}

// Update applies a moderation patch; nil fields keep the stored value.
func (r *FeedbackPostgres) Update(ctx context.Context, id string, patch repository.FeedbackPatch) (*model.FeedbackItem, error) {
	const q = `
		UPDATE feedback
		SET body = COALESCE($2, body),
		    kind = COALESCE($3, kind),
		    is_public = COALESCE($4, is_public),
		    updated_at = $5
		WHERE id = $1
		RETURNING ` + feedbackColumns
	row := r.db.QueryRowContext(ctx, q, id, patch.Body, patch.Kind, patch.IsPublic, time.Now().UTC())
	return scanFeedbackItem(row)
}

// DeleteByIDs removes the given rows and returns how many were deleted.
func (r *FeedbackPostgres) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	q := fmt.Sprintf(`DELETE FROM feedback WHERE id IN (%s)`, strings.Join(placeholders, ", "))
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
