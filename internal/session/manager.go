package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pageza/proteinpal/internal/models"
	"github.com/pageza/proteinpal/internal/tracker"
	"github.com/pageza/proteinpal/internal/types"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrExpired        = errors.New("session expired")
	ErrRejected       = errors.New("token rejected by tracker")
)

// UserFetcher verifies a token by loading the user it belongs to.
type UserFetcher interface {
	Me(ctx context.Context, token string) (*types.User, error)
}

// State is an authenticated session as the rest of the server sees it.
type State struct {
	ID        uuid.UUID
	Token     string
	User      *types.User
	ExpiresAt time.Time
}

// Manager owns session lifecycle: Login stores a token, Restore brings a
// stored one back after a restart, Logout tears both store and cache down.
type Manager struct {
	store Store
	users UserFetcher
	ttl   time.Duration
	now   func() time.Time

	mu    sync.RWMutex
	cache map[uuid.UUID]*State
}

// NewManager creates a Manager. ttl caps how long a session lives even
// when the token would last longer.
func NewManager(store Store, users UserFetcher, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		users: users,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[uuid.UUID]*State),
	}
}

// Login verifies a freshly issued tracker token and stores it.
func (m *Manager) Login(ctx context.Context, token string) (*State, error) {
	claims, err := parseClaims(token)
	if err != nil {
		return nil, err
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	if claims.ExpiresAt != nil {
		if !claims.ExpiresAt.After(now) {
			return nil, ErrExpired
		}
		if claims.ExpiresAt.Before(expiresAt) {
			expiresAt = claims.ExpiresAt.Time
		}
	}

	user, err := m.verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if sub, err := claims.UserID(); err == nil && sub != user.ID {
		log.Printf("[SessionManager] token subject %d does not match user %d", sub, user.ID)
		return nil, ErrRejected
	}

	sess := &models.Session{
		ID:        uuid.New(),
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	state := &State{ID: sess.ID, Token: token, User: user, ExpiresAt: expiresAt}
	m.put(state)
	log.Printf("[SessionManager] user %d logged in, session %s", user.ID, sess.ID)
	return state, nil
}

// Restore resolves a session ID, from cache when possible, otherwise from
// the durable store with a verification round trip.
func (m *Manager) Restore(ctx context.Context, id uuid.UUID) (*State, error) {
	if state, ok := m.cached(id); ok {
		if m.now().Before(state.ExpiresAt) {
			return state, nil
		}
		m.forget(ctx, id)
		return nil, ErrExpired
	}

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.revive(ctx, sess)
}

// RestoreLatest brings back the newest unexpired stored session.
func (m *Manager) RestoreLatest(ctx context.Context) (*State, error) {
	sess, err := m.store.Latest(ctx, m.now())
	if err != nil {
		return nil, err
	}
	if state, ok := m.cached(sess.ID); ok {
		return state, nil
	}
	return m.revive(ctx, sess)
}

// Logout removes the session from both store and cache.
func (m *Manager) Logout(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	delete(m.cache, id)
	m.mu.Unlock()
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("[SessionManager] session %s logged out", id)
	return nil
}

// UpdateUser replaces the cached user, e.g. after goals changed upstream.
func (m *Manager) UpdateUser(id uuid.UUID, user *types.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.cache[id]; ok {
		next := *state
		next.User = user
		m.cache[id] = &next
	}
}

// Purge drops expired sessions from the store.
func (m *Manager) Purge(ctx context.Context) (int64, error) {
	n, err := m.store.DeleteExpired(ctx, m.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("[SessionManager] purged %d expired sessions", n)
	}
	return n, nil
}

func (m *Manager) revive(ctx context.Context, sess *models.Session) (*State, error) {
	if sess.Expired(m.now()) {
		m.forget(ctx, sess.ID)
		return nil, ErrExpired
	}

	user, err := m.verify(ctx, sess.Token)
	if err != nil {
		if errors.Is(err, ErrRejected) {
			m.forget(ctx, sess.ID)
		}
		return nil, err
	}

	state := &State{ID: sess.ID, Token: sess.Token, User: user, ExpiresAt: sess.ExpiresAt}
	m.put(state)
	return state, nil
}

func (m *Manager) verify(ctx context.Context, token string) (*types.User, error) {
	user, err := m.users.Me(ctx, token)
	if err != nil {
		if tracker.IsUnauthorized(err) {
			return nil, fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	return user, nil
}

func (m *Manager) forget(ctx context.Context, id uuid.UUID) {
	m.mu.Lock()
	delete(m.cache, id)
	m.mu.Unlock()
	if err := m.store.Delete(ctx, id); err != nil {
		log.Printf("[SessionManager] failed to drop session %s: %v", id, err)
	}
}

func (m *Manager) cached(id uuid.UUID) (*State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.cache[id]
	return state, ok
}

func (m *Manager) put(state *State) {
	m.mu.Lock()
	m.cache[state.ID] = state
	m.mu.Unlock()
}

// parseClaims reads exp and sub without checking the signature. Signatures
// are checked by the tracker on every call.
func parseClaims(token string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}
