// Package auth issues and verifies access tokens and hashes user passwords.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the registered claims plus the authenticated user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"userId"`
}

// Identity is the authenticated caller resolved from a verified token.
type Identity struct {
	UserID int64
}

// TokenService signs and verifies HS256 access tokens. It is stateless:
// a token stays valid until it expires.
type TokenService struct {
	secretKey []byte
	validity  time.Duration
	now       func() time.Time
}

func NewTokenService(secretKey []byte, validity time.Duration) *TokenService {
	return &TokenService{secretKey: secretKey, validity: validity, now: time.Now}
}

// Issue returns a signed token for userID expiring after the configured validity.
func (s *TokenService) Issue(userID int64) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify returns the user id embedded in tokenString. Expired tokens yield
// common.ErrTokenExpired, everything else that fails yields common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID <= 0 {
		return 0, common.ErrInvalidToken
	}

	return claims.UserID, nil
}
