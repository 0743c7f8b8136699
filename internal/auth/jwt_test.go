package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gatherly/eventchat/internal/domain"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("test-secret", "eventchat")
	want := domain.Identity{ID: "u1", DisplayName: "Alice"}

	token, err := v.Issue(want, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	got, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if got != want {
		t.Errorf("Verify() = %+v, want %+v", got, want)
	}
}

func TestVerifier_RejectsWrongSecret(t *testing.T) {
	issuer := NewVerifier("secret-a", "eventchat")
	verifier := NewVerifier("secret-b", "eventchat")

	token, err := issuer.Issue(domain.Identity{ID: "u1", DisplayName: "Alice"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifier_RejectsExpiredToken(t *testing.T) {
	v := NewVerifier("test-secret", "eventchat")

	token, err := v.Issue(domain.Identity{ID: "u1", DisplayName: "Alice"}, -time.Minute)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := v.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestVerifier_RejectsGarbage(t *testing.T) {
	v := NewVerifier("test-secret", "eventchat")

	for _, credential := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := v.Verify(credential); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", credential, err)
		}
	}
}

func TestVerifier_RejectsIncompleteClaims(t *testing.T) {
	secret := []byte("test-secret")
	v := NewVerifier("test-secret", "eventchat")

	tests := []struct {
		name   string
		claims Claims
	}{
		{name: "missing name", claims: Claims{UserID: "u1"}},
		{name: "missing id", claims: Claims{Name: "Alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims)
			signed, err := token.SignedString(secret)
			if err != nil {
				t.Fatalf("SignedString() error: %v", err)
			}
			if _, err := v.Verify(signed); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
