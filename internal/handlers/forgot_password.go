package handlers

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"time"

	"github.com/google/uuid"

	"opto-backend/internal/auth"
	"opto-backend/internal/config"
	"opto-backend/internal/dto"
	"opto-backend/internal/models"
	"opto-backend/internal/store"
	"opto-backend/internal/utils"
)

// codeTTL is how long a verification code stays valid.
const codeTTL = 3 * time.Minute

// ResetDirectory is the slice of the user store the password-reset flow
// needs. *store.UserStore satisfies it; tests substitute an in-memory fake.
type ResetDirectory interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ActiveVerification(ctx context.Context, userID uuid.UUID) (*store.Verification, error)
	CreateVerification(ctx context.Context, userID uuid.UUID, email, code string, expiresAt time.Time) error
	ConsumeVerification(ctx context.Context, userID uuid.UUID, code string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// ForgotPasswordHandler handles the email-code password reset flow
type ForgotPasswordHandler struct {
	users ResetDirectory
	email *utils.EmailService
	jwt   *config.JWTConfig
}

// NewForgotPasswordHandler creates a new ForgotPasswordHandler instance
func NewForgotPasswordHandler(users ResetDirectory, email *utils.EmailService, jwt *config.JWTConfig) *ForgotPasswordHandler {
	return &ForgotPasswordHandler{users: users, email: email, jwt: jwt}
}

// ForgotPassword sends a verification code to the user's email
// @Summary Request password reset
// @Description Send a 6-digit verification code to the account's email
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Email address"
// @Success 200 {object} dto.ForgotPasswordResponse "Verification code sent"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "No account with this email"
// @Failure 429 {object} dto.ErrorResponse "A code was sent recently"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/forgot-password [post]
func (h *ForgotPasswordHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Email == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required field", "Email is required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "User not found", "No account found with this email")
			return
		}
		log.Printf("forgot-password: lookup: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Lookup failed", "Could not process request")
		return
	}

	// One active code at a time; reject repeat requests until it expires
	v, err := h.users.ActiveVerification(r.Context(), user.ID)
	if err == nil {
		remaining := time.Until(v.ExpiresAt)
		utils.WriteErrorResponse(w, http.StatusTooManyRequests, "Code already sent",
			fmt.Sprintf("Please wait %d seconds before requesting a new code", int(remaining.Seconds())))
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Printf("forgot-password: check active code: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Lookup failed", "Could not process request")
		return
	}

	code, err := generateVerificationCode(6)
	if err != nil {
		log.Printf("forgot-password: generate code: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to generate code", "Could not process request")
		return
	}

	if err := h.users.CreateVerification(r.Context(), user.ID, user.Email, code, time.Now().Add(codeTTL)); err != nil {
		log.Printf("forgot-password: store code: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to store verification code", "Could not process request")
		return
	}

	if err := h.email.SendVerificationCode(user.Email, code); err != nil {
		log.Printf("forgot-password: send email: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to send email", "Could not send verification code")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.ForgotPasswordResponse{
		Message: "Verification code sent to your email",
	})
}

// VerifyResetCode exchanges a valid code for a short-lived reset token
// @Summary Verify reset code
// @Description Exchange the emailed 6-digit code for a reset token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.VerifyResetCodeRequest true "Email and code"
// @Success 200 {object} dto.VerifyResetCodeResponse "Reset token"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired code"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/verify-reset-code [post]
func (h *ForgotPasswordHandler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyResetCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Email == "" || req.Code == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Email and code are required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), normalizeEmail(req.Email))
	if err != nil {
		// Same response as a wrong code; don't reveal whether the email exists
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid code", "The code is invalid or has expired")
		return
	}

	if err := h.users.ConsumeVerification(r.Context(), user.ID, req.Code); err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid code", "The code is invalid or has expired")
		return
	}

	resetToken, err := auth.IssueResetToken(user.ID, user.Email, req.Code, h.jwt)
	if err != nil {
		log.Printf("verify-reset-code: issue token: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to generate token", "Could not process request")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.VerifyResetCodeResponse{
		ResetToken: resetToken,
		Message:    "Code verified. Use the reset token to set a new password.",
	})
}

// ResetPassword sets a new password using a reset token
// @Summary Reset password
// @Description Set a new password with a reset token from code verification
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} dto.ResetPasswordResponse "Password changed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired reset token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/reset-password [post]
func (h *ForgotPasswordHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.ResetToken == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required field", "Reset token is required")
		return
	}
	if len(req.NewPassword) < 6 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Password too short", "Password must be at least 6 characters")
		return
	}

	claims, err := auth.VerifyResetToken(req.ResetToken, h.jwt)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid token", "The reset token is invalid or has expired")
		return
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to hash password", "Could not process password")
		return
	}

	if err := h.users.UpdatePassword(r.Context(), claims.UserID, passwordHash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "User not found", "This account no longer exists")
			return
		}
		log.Printf("reset-password: update: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Update failed", "Could not update password")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.ResetPasswordResponse{
		Message: "Password updated. You can now log in with your new password.",
	})
}

// generateVerificationCode returns n cryptographically random digits
func generateVerificationCode(n int) (string, error) {
	code := make([]byte, n)
	for i := range code {
		digit, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code[i] = byte('0' + digit.Int64())
	}
	return string(code), nil
}
