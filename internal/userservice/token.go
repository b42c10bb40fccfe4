package userservice

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("token invalid")
	ErrNoIdentity   = errors.New("token carries no user id")
)

// Claims is the signed token payload. Tokens carry no expiry: a token stays
// valid for as long as the shared secret does.
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"id"`
	jwt.RegisteredClaims
}

func signToken(secret []byte, username, userID string) (string, error) {
	claims := Claims{
		Username: username,
		UserID:   userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccessToken checks the token signature against the shared secret and
// returns the embedded identity. A well-signed token without a user id is
// rejected separately so callers can respond with the right status.
func (s *UserService) VerifyAccessToken(token string) (*Identity, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}

	if claims.UserID == "" {
		return nil, ErrNoIdentity
	}

	return &Identity{ID: claims.UserID, Username: claims.Username}, nil
}
