package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
	"github.com/Open-AIP/OpenAIP-sub005/internal/repository"
)

// AipPostgres is a PostgreSQL implementation of repository.AipRepository.
// It uses database/sql with parameterized queries and contains no business
// logic. The owner scope tagged union maps to three nullable columns with a
// CHECK constraint enforcing exactly one (see migration).
type AipPostgres struct {
	db *sql.DB
}

// NewAipPostgres creates a new AipPostgres repository.
func NewAipPostgres(db *sql.DB) *AipPostgres {
	return &AipPostgres{db: db}
}

var _ repository.AipRepository = (*AipPostgres)(nil)

const aipColumns = `id, fiscal_year, barangay_id, city_id, municipality_id, status, status_updated_at, submitted_at, published_at, created_by, created_at`

func scanAip(row interface{ Scan(dest ...any) error }) (*model.Aip, error) {
	var (
		a                model.Aip
		brgy, city, muni sql.NullString
		submitted        sql.NullTime
		published        sql.NullTime
	)
	if err := row.Scan(
		&a.ID,
		&a.FiscalYear,
		&brgy,
		&city,
		&muni,
		&a.Status,
		&a.StatusUpdatedAt,
		&submitted,
		&published,
		&a.CreatedBy,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	switch {
	case brgy.Valid:
		a.OwnerScope = model.ScopeRef{Kind: model.ScopeBarangay, ID: brgy.String}
	case city.Valid:
		a.OwnerScope = model.ScopeRef{Kind: model.ScopeCity, ID: city.String}
	case muni.Valid:
		a.OwnerScope = model.ScopeRef{Kind: model.ScopeMunicipality, ID: muni.String}
	}
	if submitted.Valid {
		t := submitted.Time
		a.SubmittedAt = &t
	}
	if published.Valid {
		t := published.Time
		a.PublishedAt = &t
	}
	return &a, nil
}

func scopeColumns(scope model.ScopeRef) (brgy, city, muni *string) {
	switch scope.Kind {
	case model.ScopeBarangay:
		brgy = &scope.ID
	case model.ScopeCity:
		city = &scope.ID
	case model.ScopeMunicipality:
		muni = &scope.ID
	}
	return brgy, city, muni
}

// Create inserts a new document row and returns the stored record.
func (r *AipPostgres) Create(ctx context.Context, aip *model.Aip) (*model.Aip, error) {
	const q = `
		INSERT INTO aips (id, fiscal_year, barangay_id, city_id, municipality_id, status, status_updated_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + aipColumns
	brgy, city, muni := scopeColumns(aip.OwnerScope)
	row := r.db.QueryRowContext(ctx, q,
		aip.ID,
		aip.FiscalYear,
		brgy,
		city,
		muni,
		aip.Status,
		aip.StatusUpdatedAt,
		aip.CreatedBy,
		aip.CreatedAt,
	)
	return scanAip(row)
}

// FindByID fetches a single document by its ID.
func (r *AipPostgres) FindByID(ctx context.Context, id string) (*model.Aip, error) {
	const q = `SELECT ` + aipColumns + ` FROM aips WHERE id = $1`
	return scanAip(r.db.QueryRowContext(ctx, q, id))
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *AipPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Aip], error) {
	const qCount = `SELECT COUNT(*) FROM aips`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + aipColumns + `
		FROM aips
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Aip, 0)
	for rows.Next() {
		a, err := scanAip(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Aip]{Items: items, Total: total}, nil
}

// UpdateStatusIf performs a single conditional UPDATE. Zero affected rows
// means the stored status was no longer one of u.From; the caller decides
// whether that is a conflict.
func (r *AipPostgres) UpdateStatusIf(ctx context.Context, u repository.StatusUpdate) (bool, error) {
	args := []any{u.AipID, u.To, u.Now, u.SetSubmittedAt, u.SetPublishedAt}
	placeholders := make([]string, 0, len(u.From))
	for _, st := range u.From {
		args = append(args, st)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	q := fmt.Sprintf(`
		UPDATE aips
		SET status = $2,
		    status_updated_at = $3,
		    submitted_at = CASE WHEN $4 THEN $3 ELSE submitted_at END,
		    published_at = CASE WHEN $5 THEN $3 ELSE published_at END
		WHERE id = $1 AND status IN (%s)
	`, strings.Join(placeholders, ", "))

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
