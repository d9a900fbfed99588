package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Verification is one password-reset code issued to a user
type Verification struct {
	ID        int64
	UserID    uuid.UUID
	Email     string
	Code      string
	Used      bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// CreateVerification stores a fresh reset code with its expiry
func (s *UserStore) CreateVerification(ctx context.Context, userID uuid.UUID, email, code string, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO auth_verifications (user_id, email, code, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		userID, email, code, expiresAt)
	return err
}

// ActiveVerification returns the most recent unused, unexpired code for a
// user, or ErrNotFound.
func (s *UserStore) ActiveVerification(ctx context.Context, userID uuid.UUID) (*Verification, error) {
	var v Verification
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, email, code, used, expires_at, created_at
		 FROM auth_verifications
		 WHERE user_id = $1 AND used = FALSE AND expires_at > NOW()
		 ORDER BY created_at DESC LIMIT 1`,
		userID).Scan(&v.ID, &v.UserID, &v.Email, &v.Code, &v.Used, &v.ExpiresAt, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ConsumeVerification marks a matching active code as used. Returns
// ErrNotFound when no unused, unexpired code matches.
func (s *UserStore) ConsumeVerification(ctx context.Context, userID uuid.UUID, code string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE auth_verifications SET used = TRUE
		 WHERE user_id = $1 AND code = $2 AND used = FALSE AND expires_at > NOW()`,
		userID, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
