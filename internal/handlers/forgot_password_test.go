package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opto-backend/internal/auth"
	"opto-backend/internal/config"
	"opto-backend/internal/dto"
	"opto-backend/internal/models"
	"opto-backend/internal/store"
	"opto-backend/internal/utils"
)

// fakeResetStore is an in-memory ResetDirectory for the password-reset flow.
type fakeResetStore struct {
	user        *models.User
	active      *store.Verification
	activeErr   error
	createdCode string
	updatedHash string
}

func (f *fakeResetStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.user != nil && f.user.Email == email {
		cp := *f.user
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeResetStore) ActiveVerification(_ context.Context, _ uuid.UUID) (*store.Verification, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	if f.active != nil {
		return f.active, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeResetStore) CreateVerification(_ context.Context, userID uuid.UUID, email, code string, expiresAt time.Time) error {
	f.createdCode = code
	f.active = &store.Verification{UserID: userID, Email: email, Code: code, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeResetStore) ConsumeVerification(_ context.Context, userID uuid.UUID, code string) error {
	if f.active == nil || f.active.UserID != userID || f.active.Code != code || f.active.Used {
		return store.ErrNotFound
	}
	f.active.Used = true
	return nil
}

func (f *fakeResetStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	if f.user == nil || f.user.ID != id {
		return store.ErrNotFound
	}
	f.updatedHash = passwordHash
	return nil
}

var _ ResetDirectory = (*fakeResetStore)(nil)

func newResetHandler(fake *fakeResetStore) *ForgotPasswordHandler {
	// unconfigured email service logs the code instead of sending
	return NewForgotPasswordHandler(fake, utils.NewEmailService(&config.EmailConfig{}), testJWTConfig())
}

func resetTestUser() *models.User {
	return &models.User{ID: uuid.New(), Email: "alice@example.com", Name: "Alice"}
}

func TestForgotPasswordIssuesCode(t *testing.T) {
	fake := &fakeResetStore{user: resetTestUser()}
	h := newResetHandler(fake)

	rec := postJSON(t, h.ForgotPassword, "/api/auth/forgot-password", dto.ForgotPasswordRequest{
		Email: "  Alice@Example.com ",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, fake.createdCode, 6)
}

func TestForgotPasswordActiveCodeRateLimited(t *testing.T) {
	user := resetTestUser()
	fake := &fakeResetStore{
		user: user,
		active: &store.Verification{
			UserID: user.ID, Code: "123456", ExpiresAt: time.Now().Add(2 * time.Minute),
		},
	}
	h := newResetHandler(fake)

	rec := postJSON(t, h.ForgotPassword, "/api/auth/forgot-password", dto.ForgotPasswordRequest{
		Email: "alice@example.com",
	})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Empty(t, fake.createdCode)
}

func TestForgotPasswordStorageError(t *testing.T) {
	fake := &fakeResetStore{
		user:      resetTestUser(),
		activeErr: errors.New("connection refused"),
	}
	h := newResetHandler(fake)

	rec := postJSON(t, h.ForgotPassword, "/api/auth/forgot-password", dto.ForgotPasswordRequest{
		Email: "alice@example.com",
	})

	// a failed active-code lookup is a 500, not a license to mint a new code
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, fake.createdCode)
}

func TestPasswordResetFlow(t *testing.T) {
	fake := &fakeResetStore{user: resetTestUser()}
	h := newResetHandler(fake)

	rec := postJSON(t, h.ForgotPassword, "/api/auth/forgot-password", dto.ForgotPasswordRequest{
		Email: "alice@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h.VerifyResetCode, "/api/auth/verify-reset-code", dto.VerifyResetCodeRequest{
		Email: "alice@example.com", Code: fake.createdCode,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var verified dto.VerifyResetCodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verified))
	require.NotEmpty(t, verified.ResetToken)

	// the code is one-shot
	rec = postJSON(t, h.VerifyResetCode, "/api/auth/verify-reset-code", dto.VerifyResetCodeRequest{
		Email: "alice@example.com", Code: fake.createdCode,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(t, h.ResetPassword, "/api/auth/reset-password", dto.ResetPasswordRequest{
		ResetToken: verified.ResetToken, NewPassword: "newsecret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, fake.updatedHash)
	assert.True(t, auth.CheckPassword("newsecret123", fake.updatedHash))
}

func TestGenerateVerificationCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := generateVerificationCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9')
		}
		seen[code] = true
	}
	// 50 draws from a million values should essentially never all collide
	assert.Greater(t, len(seen), 1)
}

func TestResetPasswordValidation(t *testing.T) {
	// validation happens before any store access, so a nil store is fine
	h := NewForgotPasswordHandler(nil, utils.NewEmailService(&config.EmailConfig{}), testJWTConfig())

	rec := postJSON(t, h.ResetPassword, "/api/auth/reset-password", dto.ResetPasswordRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.ResetPassword, "/api/auth/reset-password", dto.ResetPasswordRequest{
		ResetToken: "some-token", NewPassword: "12345",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.ResetPassword, "/api/auth/reset-password", dto.ResetPasswordRequest{
		ResetToken: "garbage", NewPassword: "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResetPasswordRejectsSessionToken(t *testing.T) {
	cfg := testJWTConfig()
	h := NewForgotPasswordHandler(nil, utils.NewEmailService(&config.EmailConfig{}), cfg)

	id := seedUser(t, newFakeDirectory(), "alice@example.com", "Alice")
	session, err := auth.IssueSessionToken(id, cfg)
	require.NoError(t, err)

	rec := postJSON(t, h.ResetPassword, "/api/auth/reset-password", dto.ResetPasswordRequest{
		ResetToken: session, NewPassword: "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
