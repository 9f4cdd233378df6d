package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestVerifyValidToken(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "alice@example.com",
		"name":  "Alice",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	id, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Email != "alice@example.com" {
		t.Errorf("email = %q, want alice@example.com", id.Email)
	}
	if id.Name != "Alice" {
		t.Errorf("name = %q, want Alice", id.Name)
	}
}

func TestVerifyNameOptional(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "bob@example.com",
	})

	id, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Name != "" {
		t.Errorf("name = %q, want empty", id.Name)
	}
}

func TestVerifyFailures(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	tests := []struct {
		name  string
		token string
	}{
		{
			"expired",
			signTokenHelper(t, testSecret, jwt.MapClaims{
				"email": "alice@example.com",
				"exp":   time.Now().Add(-time.Hour).Unix(),
			}),
		},
		{
			"wrong secret",
			signTokenHelper(t, "other-secret", jwt.MapClaims{
				"email": "alice@example.com",
			}),
		},
		{
			"missing email",
			signTokenHelper(t, testSecret, jwt.MapClaims{
				"name": "Alice",
			}),
		},
		{"garbage", "not.a.token"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestVerifyRejectsUnexpectedAlgorithm(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, testSecret, jwt.SigningMethodHS512, jwt.MapClaims{
		"email": "alice@example.com",
	})

	if _, err := v.Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func signTokenHelper(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	return signToken(t, secret, jwt.SigningMethodHS256, claims)
}
