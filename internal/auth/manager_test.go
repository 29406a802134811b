package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/storage"
)

// signedToken builds a syntactically valid JWT. The manager never verifies
// signatures, so any signing key works here.
func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func validToken(t *testing.T) string {
	return signedToken(t, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
}

func TestLoginPersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemory(), slog.Default())
	events := m.Subscribe()
	token := validToken(t)

	if err := m.Login(ctx, token); err != nil {
		t.Fatal(err)
	}

	if !m.IsAuthenticated() {
		t.Fatal("not authenticated after login")
	}
	got, err := m.Token(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != token {
		t.Fatalf("stored token mismatch")
	}
	select {
	case ev := <-events:
		if ev != Login {
			t.Fatalf("event = %v, want Login", ev)
		}
	default:
		t.Fatal("no login event published")
	}
}

func TestLoginRejectsBadTokens(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		token string
	}{
		{"malformed", "not.a.jwt"},
		{"expired", signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewManager(storage.NewMemory(), slog.Default())

			if err := m.Login(ctx, tc.token); err == nil {
				t.Fatal("expected error")
			}
			if m.IsAuthenticated() {
				t.Fatal("authenticated after rejected login")
			}
			if _, err := m.Token(ctx); err != ErrNoToken {
				t.Fatalf("token error = %v, want ErrNoToken", err)
			}
		})
	}
}

func TestLogoutClearsSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemory(), slog.Default())
	if err := m.Login(ctx, validToken(t)); err != nil {
		t.Fatal(err)
	}
	events := m.Subscribe()

	if err := m.Logout(ctx); err != nil {
		t.Fatal(err)
	}

	if m.IsAuthenticated() {
		t.Fatal("still authenticated after logout")
	}
	if _, err := m.Token(ctx); err != ErrNoToken {
		t.Fatalf("token error = %v, want ErrNoToken", err)
	}
	select {
	case ev := <-events:
		if ev != Logout {
			t.Fatalf("event = %v, want Logout", ev)
		}
	default:
		t.Fatal("no logout event published")
	}
}

func TestLoadRestoresSession(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token restores", func(t *testing.T) {
		kv := storage.NewMemory()
		if err := kv.Set(ctx, tokenKey, []byte(validToken(t))); err != nil {
			t.Fatal(err)
		}
		m := NewManager(kv, slog.Default())

		if err := m.Load(ctx); err != nil {
			t.Fatal(err)
		}
		if !m.IsAuthenticated() {
			t.Fatal("session not restored")
		}
	})

	t.Run("no token stays unauthenticated", func(t *testing.T) {
		m := NewManager(storage.NewMemory(), slog.Default())

		if err := m.Load(ctx); err != nil {
			t.Fatal(err)
		}
		if m.IsAuthenticated() {
			t.Fatal("authenticated with no token")
		}
	})

	t.Run("expired token is dropped from storage", func(t *testing.T) {
		kv := storage.NewMemory()
		expired := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()})
		if err := kv.Set(ctx, tokenKey, []byte(expired)); err != nil {
			t.Fatal(err)
		}
		m := NewManager(kv, slog.Default())

		if err := m.Load(ctx); err != nil {
			t.Fatal(err)
		}
		if m.IsAuthenticated() {
			t.Fatal("authenticated with expired token")
		}
		if _, err := kv.Get(ctx, tokenKey); err != storage.ErrNotFound {
			t.Fatalf("stale token not deleted, err = %v", err)
		}
	})

	t.Run("garbage token is dropped from storage", func(t *testing.T) {
		kv := storage.NewMemory()
		if err := kv.Set(ctx, tokenKey, []byte("garbage")); err != nil {
			t.Fatal(err)
		}
		m := NewManager(kv, slog.Default())

		if err := m.Load(ctx); err != nil {
			t.Fatal(err)
		}
		if m.IsAuthenticated() {
			t.Fatal("authenticated with garbage token")
		}
		if _, err := kv.Get(ctx, tokenKey); err != storage.ErrNotFound {
			t.Fatalf("stale token not deleted, err = %v", err)
		}
	})
}

func TestTokenWithoutExpiryNeverExpires(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemory(), slog.Default())
	token := signedToken(t, jwt.MapClaims{"sub": "42"})

	if err := m.Login(ctx, token); err != nil {
		t.Fatal(err)
	}
	if !m.IsAuthenticated() {
		t.Fatal("expiry-free token rejected")
	}
}
