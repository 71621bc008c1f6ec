package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
	"github.com/Open-AIP/OpenAIP-sub005/internal/repository"
)

// ReviewLedgerPostgres is a PostgreSQL implementation of
// repository.ReviewLedger. Rows are insert-only; the seq column is a
// bigserial so concurrent appends with equal timestamps still order strictly.
type ReviewLedgerPostgres struct {
	db *sql.DB
}

// NewReviewLedgerPostgres creates a new ReviewLedgerPostgres repository.
func NewReviewLedgerPostgres(db *sql.DB) *ReviewLedgerPostgres {
	return &ReviewLedgerPostgres{db: db}
}

var _ repository.ReviewLedger = (*ReviewLedgerPostgres)(nil)

const reviewColumns = `id, aip_id, seq, action, note, reviewer_id, created_at`

func scanReviewEntry(row interface{ Scan(dest ...any) error }) (*model.ReviewEntry, error) {
	var (
		e    model.ReviewEntry
		note sql.NullString
	)
	if err := row.Scan(
		&e.ID,
		&e.AipID,
		&e.Seq,
		&e.Action,
		&note,
		&e.ReviewerID,
		&e.CreatedAt,
	); err != nil {
		return nil, err
	}
	if note.Valid {
		s := note.String
		e.Note = &s
	}
	return &e, nil
}

// Append inserts a new ledger entry and returns it with the store-assigned seq.
func (r *ReviewLedgerPostgres) Append(ctx context.Context, entry *model.ReviewEntry) (*model.ReviewEntry, error) {
	const q = `
		INSERT INTO aip_reviews (id, aip_id, action, note, reviewer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + reviewColumns
	row := r.db.QueryRowContext(ctx, q,
		entry.ID,
		entry.AipID,
		entry.Action,
		entry.Note,
		entry.ReviewerID,
		entry.CreatedAt,
	)
	return scanReviewEntry(row)
}

// ListByAip returns all entries for a document, newest first.
func (r *ReviewLedgerPostgres) ListByAip(ctx context.Context, aipID string) ([]model.ReviewEntry, error) {
	const q = `
		SELECT ` + reviewColumns + `
		FROM aip_reviews
		WHERE aip_id = $1
		ORDER BY created_at DESC, seq DESC
	`
	rows, err := r.db.QueryContext(ctx, q, aipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.ReviewEntry, 0)
	for rows.Next() {
		e, err := scanReviewEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Latest returns the most recent entry for a document, or nil when none exist.
func (r *ReviewLedgerPostgres) Latest(ctx context.Context, aipID string) (*model.ReviewEntry, error) {
	const q = `
		SELECT ` + reviewColumns + `
		FROM aip_reviews
		WHERE aip_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT 1
	`
	e, err := scanReviewEntry(r.db.QueryRowContext(ctx, q, aipID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}
