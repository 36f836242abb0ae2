package middleware

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestIdentityFromHeader(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		header := "Bearer " + signToken(t, jwt.MapClaims{
			"uid":   "abc123",
			"email": "Buyer@Example.COM",
		})

		uid, email, err := identityFromHeader(header, testSecret)
		if err != nil {
			t.Fatal(err)
		}
		if uid != "abc123" {
			t.Errorf("uid: got %q", uid)
		}
		if email != "buyer@example.com" {
			t.Errorf("email should be lowercased: got %q", email)
		}
	})

	t.Run("sub fallback for uid", func(t *testing.T) {
		header := "Bearer " + signToken(t, jwt.MapClaims{
			"sub":   "sub-456",
			"email": "x@y.com",
		})

		uid, _, err := identityFromHeader(header, testSecret)
		if err != nil {
			t.Fatal(err)
		}
		if uid != "sub-456" {
			t.Errorf("got %q", uid)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		if _, _, err := identityFromHeader("", testSecret); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		for _, header := range []string{"Bearer", "Token abc", "abc"} {
			if _, _, err := identityFromHeader(header, testSecret); err == nil {
				t.Errorf("%q: expected error", header)
			}
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		header := "Bearer " + signToken(t, jwt.MapClaims{"uid": "a", "email": "x@y.com"})
		if _, _, err := identityFromHeader(header, "other-secret"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("missing claims", func(t *testing.T) {
		noUID := "Bearer " + signToken(t, jwt.MapClaims{"email": "x@y.com"})
		if _, _, err := identityFromHeader(noUID, testSecret); err == nil {
			t.Error("missing uid should fail")
		}

		noEmail := "Bearer " + signToken(t, jwt.MapClaims{"uid": "a"})
		if _, _, err := identityFromHeader(noEmail, testSecret); err == nil {
			t.Error("missing email should fail")
		}
	})
}
