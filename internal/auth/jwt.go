package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims. User tokens carry the user's id and
// email with Admin false; the admin token carries the configured admin mail
// with Admin true and no user id.
type Claims struct {
	UserID int64  `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Admin  bool   `json:"admin"`
	jwt.RegisteredClaims
}

// TokenExpiry is the token lifetime.
const TokenExpiry = time.Hour

// GenerateUserToken creates a signed token for a registered user.
func GenerateUserToken(secret string, userID int64, email string) (string, error) {
	return generate(secret, Claims{UserID: userID, Email: email})
}

// GenerateAdminToken creates a signed token for the admin identity.
func GenerateAdminToken(secret, mail string) (string, error) {
	return generate(secret, Claims{Email: mail, Admin: true})
}

func generate(secret string, claims Claims) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExpiry)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims. Malformed,
// expired or mis-signed tokens return an error, never a partial identity.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
