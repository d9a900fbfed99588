package handlers

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"opto-backend/internal/models"
	"opto-backend/internal/store"
)

// UserDirectory is the slice of the user store the HTTP handlers need.
// *store.UserStore satisfies it; tests substitute an in-memory fake.
type UserDirectory interface {
	// GetByEmail returns the raw record including the password hash; it is
	// only for the login flow.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, nu store.NewUser, defaults store.CreateDefaults) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch store.ProfilePatch) (*models.User, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, url string) (*models.User, error)
	UpdateCover(ctx context.Context, id uuid.UUID, url string) (*models.User, error)
}

// normalizeEmail lower-cases and trims an email so lookups and the unique
// constraint are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
