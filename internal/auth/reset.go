package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"opto-backend/internal/config"
)

// resetSubject distinguishes reset tokens from session tokens so one can
// never be presented in place of the other.
const resetSubject = "password_reset"

// ResetClaims represents the claims in the short-lived password-reset JWT
type ResetClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Code   string    `json:"code"`
	jwt.RegisteredClaims
}

// IssueResetToken signs a short-lived token handed out after a verification
// code is confirmed. It is only accepted by the reset-password endpoint.
func IssueResetToken(userID uuid.UUID, email, code string, cfg *config.JWTConfig) (string, error) {
	now := time.Now()
	claims := ResetClaims{
		UserID: userID,
		Email:  email,
		Code:   code,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   resetSubject,
			Issuer:    "opto",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.ResetTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// VerifyResetToken validates a reset token and returns its claims. Every
// failure, including a session token presented here, maps to
// ErrInvalidToken.
func VerifyResetToken(tokenString string, cfg *config.JWTConfig) (*ResetClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid || claims.Subject != resetSubject {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
