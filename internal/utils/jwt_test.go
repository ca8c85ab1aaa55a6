package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestVerifyToken(t *testing.T) {
	secret := "test-secret"

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		if _, err := VerifyToken(req, secret); err != ErrMissingAuthHeader {
			t.Fatalf("expected ErrMissingAuthHeader, got %v", err)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Token abc")
		if _, err := VerifyToken(req, secret); err != ErrMissingAuthHeader {
			t.Fatalf("expected ErrMissingAuthHeader, got %v", err)
		}
	})

	t.Run("invalid signing method", func(t *testing.T) {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("failed to generate key: %v", err)
		}
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"sub": "1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString(key)
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		if _, err := VerifyToken(req, secret); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		signed, _, err := IssueToken(secret, 7, "kai", -time.Minute)
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		if _, err := VerifyTokenString(signed, secret); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("invalid claims type", func(t *testing.T) {
		orig := parseJWT
		defer func() { parseJWT = orig }()

		parseJWT = func(tokenStr string, keyFunc jwt.Keyfunc) (*jwt.Token, error) {
			token := jwt.New(jwt.SigningMethodHS256)
			token.Claims = &jwt.RegisteredClaims{}
			token.Valid = true
			if _, err := keyFunc(token); err != nil {
				return nil, err
			}
			return token, nil
		}

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer fake")
		if _, err := VerifyToken(req, secret); err != ErrInvalidClaims {
			t.Fatalf("expected ErrInvalidClaims, got %v", err)
		}
	})

	t.Run("issued token round trip", func(t *testing.T) {
		signed, expiresAt, err := IssueToken(secret, 42, "kai", time.Hour)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		if time.Until(expiresAt) <= 0 {
			t.Fatalf("expected future expiry, got %v", expiresAt)
		}
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		claims, err := VerifyToken(req, secret)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		id, err := UserIDFromClaims(claims)
		if err != nil || id != 42 {
			t.Fatalf("expected user 42, got %d (%v)", id, err)
		}
		if claims["username"] != "kai" {
			t.Fatalf("expected username claim, got %v", claims["username"])
		}
	})
}

func TestUserIDFromClaims(t *testing.T) {
	tests := []struct {
		name    string
		claims  jwt.MapClaims
		want    uint
		wantErr bool
	}{
		{name: "string sub", claims: jwt.MapClaims{"sub": "12"}, want: 12},
		{name: "float64 sub", claims: jwt.MapClaims{"sub": float64(42)}, want: 42},
		{name: "missing sub", claims: jwt.MapClaims{}, wantErr: true},
		{name: "invalid type", claims: jwt.MapClaims{"sub": true}, wantErr: true},
		{name: "non numeric", claims: jwt.MapClaims{"sub": "abc"}, wantErr: true},
		{name: "zero", claims: jwt.MapClaims{"sub": "0"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := UserIDFromClaims(tc.claims)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got id %d", got)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("UserIDFromClaims = %d, %v; want %d", got, err, tc.want)
			}
		})
	}
}
