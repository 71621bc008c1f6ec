package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
)

func TestProfilePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProfilePostgres(db)
	ctx := context.Background()

	t.Run("official with scope", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "full_name", "role", "barangay_id", "city_id", "municipality_id"}).
			AddRow("user-1", "Juan Dela Cruz", model.RoleCityOfficial, nil, "city-1", nil)

		mock.ExpectQuery("SELECT (.+) FROM profiles WHERE id = ?").
			WithArgs("user-1").
			WillReturnRows(rows)

		p, err := repo.FindByID(ctx, "user-1")

		assert.NoError(t, err)
		assert.NotNil(t, p)
		assert.Equal(t, model.RoleCityOfficial, p.Role)
		assert.Equal(t, model.ScopeCity, p.Scope.Kind)
		assert.Equal(t, "city-1", p.Scope.ID)
	})

	t.Run("citizen without scope", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "full_name", "role", "barangay_id", "city_id", "municipality_id"}).
			AddRow("user-2", nil, model.RoleCitizen, nil, nil, nil)

		mock.ExpectQuery("SELECT (.+) FROM profiles WHERE id = ?").
			WithArgs("user-2").
			WillReturnRows(rows)

		p, err := repo.FindByID(ctx, "user-2")

		assert.NoError(t, err)
		assert.True(t, p.Scope.IsZero())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM profiles WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByID(ctx, "missing")

		assert.Error(t, err)
		assert.Nil(t, p)
	})
}
