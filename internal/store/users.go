// Package store holds the durable state of the application: the users table
// in Postgres and the flat-file transaction list.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"opto-backend/internal/models"
)

var (
	// ErrNotFound indicates the referenced record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail indicates the email is already registered
	ErrDuplicateEmail = errors.New("email already registered")
)

// pgUniqueViolation is the Postgres error code for a unique constraint
// violation.
const pgUniqueViolation = "23505"

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	cover_photo_url TEXT NOT NULL DEFAULT '',
	interests TEXT NOT NULL DEFAULT '[]',
	score INTEGER NOT NULL DEFAULT 51,
	streak INTEGER NOT NULL DEFAULT 0,
	is_online BOOLEAN NOT NULL DEFAULT FALSE,
	location TEXT NOT NULL DEFAULT '',
	occupation TEXT NOT NULL DEFAULT '',
	financial_goals TEXT NOT NULL DEFAULT '[]',
	joined_date DATE NOT NULL DEFAULT CURRENT_DATE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS auth_verifications (
	id BIGSERIAL PRIMARY KEY,
	user_id UUID NOT NULL,
	email TEXT NOT NULL,
	code TEXT NOT NULL,
	used BOOLEAN NOT NULL DEFAULT FALSE,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

const userColumns = `id, email, password_hash, name, display_name, bio, avatar_url,
	cover_photo_url, interests, score, streak, is_online, location, occupation,
	financial_goals, joined_date, created_at, updated_at`

// CreateDefaults are the gamification starting values for a new account.
type CreateDefaults struct {
	Score  int
	Streak int
}

// DefaultAccount is the starting state every signup gets.
var DefaultAccount = CreateDefaults{Score: 51, Streak: 0}

// NewUser carries the caller-supplied fields for account creation. The
// password is already hashed by the time it reaches the store.
type NewUser struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
}

// ProfilePatch is the set of optionally-updated profile fields. Nil pointers
// keep the stored value.
type ProfilePatch struct {
	Name           *string
	DisplayName    *string
	Bio            *string
	Interests      *[]string
	Location       *string
	Occupation     *string
	FinancialGoals *[]string
}

// UserStore is the durable directory of accounts, backed by a single
// Postgres table. Every mutation touches exactly one row in one statement,
// so no transactions or application-level locking are needed.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a UserStore on top of an existing pool
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Migrate creates the tables if they do not exist yet
func (s *UserStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, usersSchema); err != nil {
		return fmt.Errorf("migrate users schema: %w", err)
	}
	return nil
}

// Ping reports database connectivity
func (s *UserStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// GetByEmail looks up a user by its stored, already-normalized email. The
// returned record still carries the password hash; it exists solely for the
// login flow.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// GetByID returns a sanitized user record
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.getByIDRaw(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Sanitize()
	return user, nil
}

func (s *UserStore) getByIDRaw(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// List returns all users, newest first, sanitized
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		user.Sanitize()
		users = append(users, *user)
	}
	return users, rows.Err()
}

// Create inserts a new account with the given defaults. A duplicate email is
// reported through the unique constraint, not a prior read, so there is no
// check-then-act race.
func (s *UserStore) Create(ctx context.Context, nu NewUser, defaults CreateDefaults) (*models.User, error) {
	now := time.Now()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, display_name, bio,
		 avatar_url, cover_photo_url, interests, score, streak, is_online,
		 location, occupation, financial_goals, joined_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, '', '', '', '[]', $6, $7, FALSE, '', '', '[]', $8, $9, $9)`,
		nu.ID, nu.Email, nu.PasswordHash, nu.Name, nu.Name,
		defaults.Score, defaults.Streak, now, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return s.GetByID(ctx, nu.ID)
}

// UpdateProfile merges the provided fields over the existing row and
// refreshes updated_at. Returns ErrNotFound if the id does not exist.
func (s *UserStore) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*models.User, error) {
	existing, err := s.getByIDRaw(ctx, id)
	if err != nil {
		return nil, err
	}

	name := coalesce(patch.Name, existing.Name)
	displayName := coalesce(patch.DisplayName, existing.DisplayName)
	bio := coalesce(patch.Bio, existing.Bio)
	location := coalesce(patch.Location, existing.Location)
	occupation := coalesce(patch.Occupation, existing.Occupation)

	interests := existing.Interests
	if patch.Interests != nil {
		interests = *patch.Interests
	}
	goals := existing.FinancialGoals
	if patch.FinancialGoals != nil {
		goals = *patch.FinancialGoals
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE users SET name = $2, display_name = $3, bio = $4, interests = $5,
		 location = $6, occupation = $7, financial_goals = $8, updated_at = NOW()
		 WHERE id = $1`,
		id, name, displayName, bio, encodeStringList(interests),
		location, occupation, encodeStringList(goals))
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// UpdateAvatar stores a new avatar URL and refreshes updated_at
func (s *UserStore) UpdateAvatar(ctx context.Context, id uuid.UUID, url string) (*models.User, error) {
	return s.updateSingleURL(ctx, id, "avatar_url", url)
}

// UpdateCover stores a new cover photo URL and refreshes updated_at
func (s *UserStore) UpdateCover(ctx context.Context, id uuid.UUID, url string) (*models.User, error) {
	return s.updateSingleURL(ctx, id, "cover_photo_url", url)
}

func (s *UserStore) updateSingleURL(ctx context.Context, id uuid.UUID, column, url string) (*models.User, error) {
	// column is one of two compile-time constants, never user input
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET `+column+` = $2, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// UpdatePassword replaces the stored password hash
func (s *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an account. Returns true iff a row was removed.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// rowScanner covers pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var interests, goals string

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name,
		&user.DisplayName, &user.Bio, &user.AvatarURL, &user.CoverPhotoURL,
		&interests, &user.Score, &user.Streak, &user.IsOnline, &user.Location,
		&user.Occupation, &goals, &user.JoinedDate, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	user.Interests = decodeStringList(interests)
	user.FinancialGoals = decodeStringList(goals)
	return &user, nil
}

// decodeStringList deserializes a stored JSON array. Malformed data decodes
// to an empty list rather than failing the read.
func decodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func encodeStringList(list []string) string {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func coalesce(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
