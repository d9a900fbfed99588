package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"opto-backend/internal/config"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// signing method, malformed structure, or expiry. Callers must not be able
// to tell the cases apart.
var ErrInvalidToken = errors.New("invalid or expired token")

// SessionClaims represents the claims in the session JWT
type SessionClaims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// IssueSessionToken signs a stateless session token for the given user.
// Validity is purely a function of signature and expiry; nothing is stored
// server-side and there is no revocation list.
func IssueSessionToken(userID uuid.UUID, cfg *config.JWTConfig) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.SessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// VerifySessionToken validates a session token and returns the user id it
// was issued for. Every failure maps to ErrInvalidToken.
func VerifySessionToken(tokenString string, cfg *config.JWTConfig) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	// A reset token also carries a user_id claim; the subject tells the two
	// token kinds apart.
	if claims.Subject != claims.UserID.String() {
		return uuid.Nil, ErrInvalidToken
	}

	return claims.UserID, nil
}
