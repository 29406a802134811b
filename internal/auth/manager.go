package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AyushChauhan9389/AnimeXschool-app/internal/storage"
)

// Event marks an authentication transition. Subscribers (the cart sync
// engine) react to the transition itself, not the steady state.
type Event int

const (
	Login Event = iota
	Logout
)

const tokenKey = "auth-token"

var ErrNoToken = errors.New("auth: no token stored")

// Manager holds the client's authentication state, persists the session
// token and fans out login/logout transitions to subscribers.
type Manager struct {
	mu            sync.Mutex
	authenticated bool
	subs          []chan Event

	kv  storage.KV
	log *slog.Logger
}

func NewManager(kv storage.KV, log *slog.Logger) *Manager {
	return &Manager{kv: kv, log: log}
}

// Load restores the session from the persisted token. An absent, malformed
// or expired token leaves the manager unauthenticated; no event is
// published since this runs before any subscriber is live.
func (m *Manager) Load(ctx context.Context) error {
	token, err := m.kv.Get(ctx, tokenKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load auth token: %w", err)
	}

	if err := checkToken(string(token), time.Now()); err != nil {
		m.log.Warn("stored token rejected", slog.Any("err", err))
		if err := m.kv.Delete(ctx, tokenKey); err != nil {
			m.log.Warn("failed to remove stale token", slog.Any("err", err))
		}
		return nil
	}

	m.mu.Lock()
	m.authenticated = true
	m.mu.Unlock()
	return nil
}

// Login persists the token and publishes a Login event. Publishing happens
// after the state flip so subscribers reading IsAuthenticated see true.
func (m *Manager) Login(ctx context.Context, token string) error {
	if err := checkToken(token, time.Now()); err != nil {
		return err
	}
	if err := m.kv.Set(ctx, tokenKey, []byte(token)); err != nil {
		return fmt.Errorf("failed to persist auth token: %w", err)
	}

	m.mu.Lock()
	m.authenticated = true
	subs := append([]chan Event(nil), m.subs...)
	m.mu.Unlock()

	m.publish(subs, Login)
	return nil
}

// Logout removes the token and publishes a Logout event. The local state is
// cleared even when the token removal fails; the session must not survive.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.kv.Delete(ctx, tokenKey)

	m.mu.Lock()
	m.authenticated = false
	subs := append([]chan Event(nil), m.subs...)
	m.mu.Unlock()

	m.publish(subs, Logout)

	if err != nil {
		return fmt.Errorf("failed to remove auth token: %w", err)
	}
	return nil
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

// Token returns the persisted session token for request signing.
func (m *Manager) Token(ctx context.Context) (string, error) {
	token, err := m.kv.Get(ctx, tokenKey)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// Subscribe returns a channel of auth transitions. Slow subscribers drop
// events rather than block the publisher.
func (m *Manager) Subscribe() <-chan Event {
	ch := make(chan Event, 8)

	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()

	return ch
}

func (m *Manager) publish(subs []chan Event, ev Event) {
	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			m.log.Warn("auth event dropped, subscriber not draining")
		}
	}
}

// checkToken rejects malformed or expired JWTs. The signature is not
// verified here: the client has no signing secret, the server remains the
// authority; this only avoids restoring a session the server would refuse.
func checkToken(token string, now time.Time) error {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("malformed token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil && now.After(exp.Time) {
		return errors.New("token expired")
	}
	return nil
}
