package repository

import (
	"context"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
)

// ProfileRepository is the read-only role directory.
type ProfileRepository interface {
	// FindByID returns the profile for a user id.
	FindByID(ctx context.Context, id string) (*model.Profile, error)
}
