package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"opto-backend/internal/auth"
	"opto-backend/internal/config"
	"opto-backend/internal/dto"
	"opto-backend/internal/middleware"
	"opto-backend/internal/store"
	"opto-backend/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	users UserDirectory
	jwt   *config.JWTConfig
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(users UserDirectory, jwt *config.JWTConfig) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

// Signup handles account creation
// @Summary Create a new account
// @Description Register with email, password and name, returning a session token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Signup payload"
// @Success 201 {object} dto.AuthResponse "Account created"
// @Failure 400 {object} dto.ErrorResponse "Missing fields or short password"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	// Validate required fields
	if req.Email == "" || req.Password == "" || req.Name == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Email, password, and name are required")
		return
	}
	if len(req.Password) < 6 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Password too short", "Password must be at least 6 characters")
		return
	}

	email := normalizeEmail(req.Email)

	// Hash password
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to hash password", "Could not process password")
		return
	}

	// Create user; the unique constraint reports a duplicate email
	user, err := h.users.Create(r.Context(), store.NewUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         req.Name,
	}, store.DefaultAccount)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			utils.WriteErrorResponse(w, http.StatusConflict, "Email taken", "An account with this email already exists")
			return
		}
		log.Printf("signup: create user: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create account", "Could not create account")
		return
	}

	token, err := auth.IssueSessionToken(user.ID, h.jwt)
	if err != nil {
		log.Printf("signup: issue token: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to generate token", "Could not create session")
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.AuthResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	})
}

// Login handles user login
// @Summary Login
// @Description Authenticate with email and password, returning a session token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if req.Email == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Email and password are required")
		return
	}

	// Unknown email and wrong password produce the same response; never
	// reveal which one it was.
	user, err := h.users.GetByEmail(r.Context(), normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect")
			return
		}
		log.Printf("login: lookup user: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Login failed", "Could not process login")
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect")
		return
	}

	token, err := auth.IssueSessionToken(user.ID, h.jwt)
	if err != nil {
		log.Printf("login: issue token: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to generate token", "Could not create session")
		return
	}

	user.Sanitize()
	utils.WriteJSONResponse(w, http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	})
}

// Me returns the current authenticated user
// @Summary Get current user
// @Description Resolve the bearer token to its account
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse "Current user"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Account no longer exists"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Deleted after the token was issued
			utils.WriteErrorResponse(w, http.StatusNotFound, "User not found", "This account no longer exists")
			return
		}
		log.Printf("me: lookup user: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Lookup failed", "Could not load account")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewUserResponse(user))
}
