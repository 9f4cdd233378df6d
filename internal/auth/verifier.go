package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"fintrack/internal/core"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, expired token, or claims missing the caller's email.
var ErrInvalidToken = errors.New("invalid token")

// Verifier turns a bearer token into the caller's identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (core.Identity, error)
}

// JWTVerifier validates HMAC-signed tokens carrying email and name claims.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (core.Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return core.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return core.Identity{}, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return core.Identity{}, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}
	name, _ := claims["name"].(string)

	return core.Identity{Email: email, Name: name}, nil
}
