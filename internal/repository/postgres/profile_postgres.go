package postgres

import (
	"context"
	"database/sql"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
	"github.com/Open-AIP/OpenAIP-sub005/internal/repository"
)

// ProfilePostgres is a PostgreSQL implementation of
// repository.ProfileRepository.
type ProfilePostgres struct {
	db *sql.DB
}

// NewProfilePostgres creates a new ProfilePostgres repository.
func NewProfilePostgres(db *sql.DB) *ProfilePostgres {
	return &ProfilePostgres{db: db}
}

var _ repository.ProfileRepository = (*ProfilePostgres)(nil)

// FindByID fetches a single profile by user id.
func (r *ProfilePostgres) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	const q = `
		SELECT id, full_name, role, barangay_id, city_id, municipality_id
		FROM profiles
		WHERE id = $1
	`
	var (
		p                model.Profile
		name             sql.NullString
		brgy, city, muni sql.NullString
	)
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &name, &p.Role, &brgy, &city, &muni); err != nil {
		return nil, err
	}
	p.FullName = name.String
	switch {
	case brgy.Valid:
		p.Scope = model.ScopeRef{Kind: model.ScopeBarangay, ID: brgy.String}
	case city.Valid:
		p.Scope = model.ScopeRef{Kind: model.ScopeCity, ID: city.String}
	case muni.Valid:
		p.Scope = model.ScopeRef{Kind: model.ScopeMunicipality, ID: muni.String}
	}
	return &p, nil
}
