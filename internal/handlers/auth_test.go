package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opto-backend/internal/auth"
	"opto-backend/internal/dto"
	"opto-backend/internal/middleware"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeAuthResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.AuthResponse {
	t.Helper()
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSignup(t *testing.T) {
	h := NewAuthHandler(newFakeDirectory(), testJWTConfig())

	rec := postJSON(t, h.Signup, "/api/auth/signup", dto.SignupRequest{
		Email: "Alice@Example.com", Password: "secret123", Name: "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeAuthResponse(t, rec)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "Alice", resp.User.Name)
	assert.Equal(t, "Alice", resp.User.DisplayName)
	assert.Equal(t, 51, resp.User.Score)
	assert.Equal(t, 0, resp.User.Streak)
	assert.Equal(t, 1, resp.User.Level)
	assert.Equal(t, "Getting Started", resp.User.LevelName)
	assert.Equal(t, []string{}, resp.User.Interests)

	// the returned token resolves back to the new account
	userID, err := auth.VerifySessionToken(resp.Token, testJWTConfig())
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID.String())
}

func TestSignupValidation(t *testing.T) {
	h := NewAuthHandler(newFakeDirectory(), testJWTConfig())

	tests := []struct {
		name string
		req  dto.SignupRequest
	}{
		{"missing email", dto.SignupRequest{Password: "secret123", Name: "Alice"}},
		{"missing password", dto.SignupRequest{Email: "a@b.c", Name: "Alice"}},
		{"missing name", dto.SignupRequest{Email: "a@b.c", Password: "secret123"}},
		{"short password", dto.SignupRequest{Email: "a@b.c", Password: "12345", Name: "Alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.Signup, "/api/auth/signup", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSignupDuplicateEmailCaseInsensitive(t *testing.T) {
	h := NewAuthHandler(newFakeDirectory(), testJWTConfig())

	rec := postJSON(t, h.Signup, "/api/auth/signup", dto.SignupRequest{
		Email: "alice@example.com", Password: "secret123", Name: "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h.Signup, "/api/auth/signup", dto.SignupRequest{
		Email: "ALICE@example.com", Password: "other-password", Name: "Mallory",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin(t *testing.T) {
	dir := newFakeDirectory()
	h := NewAuthHandler(dir, testJWTConfig())

	rec := postJSON(t, h.Signup, "/api/auth/signup", dto.SignupRequest{
		Email: "alice@example.com", Password: "secret123", Name: "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h.Login, "/api/auth/login", dto.LoginRequest{
		Email: "  ALICE@example.com ", Password: "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeAuthResponse(t, rec)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestLoginUniformFailure(t *testing.T) {
	dir := newFakeDirectory()
	h := NewAuthHandler(dir, testJWTConfig())

	rec := postJSON(t, h.Signup, "/api/auth/signup", dto.SignupRequest{
		Email: "alice@example.com", Password: "secret123", Name: "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := postJSON(t, h.Login, "/api/auth/login", dto.LoginRequest{
		Email: "alice@example.com", Password: "wrong-password",
	})
	unknownEmail := postJSON(t, h.Login, "/api/auth/login", dto.LoginRequest{
		Email: "nobody@example.com", Password: "secret123",
	})

	// same status and same body; the response never reveals which part of
	// the credentials was wrong
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestMe(t *testing.T) {
	cfg := testJWTConfig()
	dir := newFakeDirectory()
	h := NewAuthHandler(dir, cfg)

	rec := postJSON(t, h.Signup, "/api/auth/signup", dto.SignupRequest{
		Email: "alice@example.com", Password: "secret123", Name: "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	token := decodeAuthResponse(t, rec).Token

	guarded := middleware.AuthMiddleware(h.Me, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meRec := httptest.NewRecorder()
	guarded(meRec, req)

	require.Equal(t, http.StatusOK, meRec.Code)
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(meRec.Body.Bytes(), &me))
	assert.Equal(t, "alice@example.com", me.Email)

	// garbage token
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	badRec := httptest.NewRecorder()
	guarded(badRec, req)
	assert.Equal(t, http.StatusUnauthorized, badRec.Code)
}

func TestMeDeletedAccount(t *testing.T) {
	cfg := testJWTConfig()
	dir := newFakeDirectory()
	h := NewAuthHandler(dir, cfg)

	rec := postJSON(t, h.Signup, "/api/auth/signup", dto.SignupRequest{
		Email: "alice@example.com", Password: "secret123", Name: "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	token := decodeAuthResponse(t, rec).Token

	// delete the account out from under the still-valid token
	for id := range dir.users {
		delete(dir.users, id)
	}

	guarded := middleware.AuthMiddleware(h.Me, cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meRec := httptest.NewRecorder()
	guarded(meRec, req)

	assert.Equal(t, http.StatusNotFound, meRec.Code)
}
