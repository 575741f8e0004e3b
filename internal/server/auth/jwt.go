// Package auth issues and verifies the bearer tokens handed out on
// registration and login. Tokens are HS256 JWTs carrying the account email;
// no expiry claim is set, a token stays valid until the next login
// overwrites it in the store.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/textping/accountd/internal/common"
)

// Claims includes the registered claims plus the account email the token
// was issued for.
type Claims struct {
	jwt.RegisteredClaims
	Email string
}

// GenerateToken signs a token binding the given email with the process-wide
// secret. The issued-at claim makes each login mint a fresh token; there is
// still no expiry claim.
func GenerateToken(email string, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   "accountd",
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetEmailFromToken parses and verifies a token string and returns the email
// claim. Malformed or tampered tokens yield common.ErrInvalidToken.
func GetEmailFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Email, nil
}
