package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"opto-backend/internal/auth"
	"opto-backend/internal/config"
	"opto-backend/internal/dto"
	"opto-backend/internal/store"
	"opto-backend/internal/utils"
)

// GoogleUserInfo is the subset of the Google profile this flow needs
type GoogleUserInfo struct {
	ID       string
	Email    string
	Name     string
	Picture  string
	Verified bool
}

// GoogleAuthHandler handles Google OAuth sign-in
type GoogleAuthHandler struct {
	users        UserDirectory
	oauth2Config *oauth2.Config
	jwt          *config.JWTConfig
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance
func NewGoogleAuthHandler(users UserDirectory, cfg *config.GoogleOAuthConfig, jwt *config.JWTConfig) *GoogleAuthHandler {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &GoogleAuthHandler{
		users:        users,
		oauth2Config: oauth2Config,
		jwt:          jwt,
	}
}

// Login initiates the Google OAuth flow
// @Summary Google OAuth login
// @Description Return the Google authorization URL to redirect the user to
// @Tags authentication
// @Produce json
// @Success 200 {object} map[string]string "Google OAuth URL"
// @Router /api/auth/google/login [get]
func (h *GoogleAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	// State parameter for CSRF protection
	state := uuid.New().String()
	authURL := h.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)

	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{
		"auth_url": authURL,
		"state":    state,
	})
}

// Callback handles the Google OAuth redirect
// @Summary Google OAuth callback
// @Description Exchange the authorization code, upsert the account, and return a session token
// @Tags authentication
// @Produce json
// @Param code query string true "Authorization code from Google"
// @Param state query string false "State parameter for CSRF protection"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Missing authorization code"
// @Failure 401 {object} dto.ErrorResponse "Invalid authorization code"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/google/callback [get]
func (h *GoogleAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing authorization code", "Authorization code is required")
		return
	}

	token, err := h.oauth2Config.Exchange(r.Context(), code)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authorization code", "Could not exchange authorization code")
		return
	}

	userInfo, err := h.getGoogleUserInfo(r, token.AccessToken)
	if err != nil {
		log.Printf("google-auth: userinfo: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get user info", "Could not load Google profile")
		return
	}

	email := normalizeEmail(userInfo.Email)
	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("google-auth: lookup: %v", err)
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Lookup failed", "Could not process login")
			return
		}

		// First Google sign-in: create the account with an unguessable
		// password so it can only be used through OAuth until reset.
		randomPassword, err := randomSecret()
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create user", "Could not create account")
			return
		}
		passwordHash, err := auth.HashPassword(randomPassword)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create user", "Could not create account")
			return
		}

		user, err = h.users.Create(r.Context(), store.NewUser{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: passwordHash,
			Name:         userInfo.Name,
		}, store.DefaultAccount)
		if err != nil {
			log.Printf("google-auth: create: %v", err)
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create user", "Could not create account")
			return
		}

		if userInfo.Picture != "" {
			if updated, err := h.users.UpdateAvatar(r.Context(), user.ID, userInfo.Picture); err == nil {
				user = updated
			}
		}
	}

	sessionToken, err := auth.IssueSessionToken(user.ID, h.jwt)
	if err != nil {
		log.Printf("google-auth: issue token: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to generate token", "Could not create session")
		return
	}

	user.Sanitize()
	utils.WriteJSONResponse(w, http.StatusOK, dto.AuthResponse{
		Token: sessionToken,
		User:  dto.NewUserResponse(user),
	})
}

// getGoogleUserInfo fetches user information from Google
func (h *GoogleAuthHandler) getGoogleUserInfo(r *http.Request, accessToken string) (*GoogleUserInfo, error) {
	service, err := googleOAuth2.NewService(r.Context(), option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
	})))
	if err != nil {
		return nil, err
	}

	userInfo, err := service.Userinfo.Get().Do()
	if err != nil {
		return nil, err
	}

	verified := false
	if userInfo.VerifiedEmail != nil {
		verified = *userInfo.VerifiedEmail
	}

	return &GoogleUserInfo{
		ID:       userInfo.Id,
		Email:    userInfo.Email,
		Name:     userInfo.Name,
		Picture:  userInfo.Picture,
		Verified: verified,
	}, nil
}

// randomSecret returns a high-entropy string unusable as a typed password
func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
