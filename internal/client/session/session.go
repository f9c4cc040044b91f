// Package session holds the process-wide authentication state: the
// credential and principal pair, mirrored to persistent storage and
// observable by subscribers.
package session

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/client/storage"
	"github.com/dmitrijs2005/gophadmin/internal/clock"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

var ErrIncompleteSession = errors.New("credential and principal must both be present")

// Store is the persistence the session mirrors itself into.
type Store interface {
	Set(ctx context.Context, key storage.Key, value any) bool
	Load(ctx context.Context, key storage.Key, dst any) bool
	Has(ctx context.Context, key storage.Key) bool
	Remove(ctx context.Context, key storage.Key)
}

type Session struct {
	mu    sync.RWMutex
	state Snapshot

	// notifyMu keeps subscriber calls in mutation order without holding mu.
	notifyMu sync.Mutex
	subsMu   sync.Mutex
	subs     map[int]func(Snapshot)
	nextSub  int

	store Store
	clock clock.Clock
	log   logging.Logger
}

type Option func(*Session)

func WithClock(c clock.Clock) Option {
	return func(s *Session) { s.clock = c }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New creates the session and rehydrates it from store. No network call is
// made; a stored pair is trusted as is unless its expiry has passed.
func New(ctx context.Context, store Store, opts ...Option) *Session {
	s := &Session{
		store: store,
		subs:  make(map[int]func(Snapshot)),
		clock: clock.Real(),
		log:   logging.Discard(),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("component", "session")
	s.rehydrate(ctx)
	return s
}

func (s *Session) rehydrate(ctx context.Context) {
	token, hasToken := storage.Get[string](ctx, s.store, storage.KeyAuthToken)
	hasToken = hasToken && token != ""
	// JSON null decodes cleanly into a zero principal.
	principal, hasUser := storage.Get[models.Principal](ctx, s.store, storage.KeyUserData)
	hasUser = hasUser && principal.ID != ""

	switch {
	case !hasToken && !hasUser:
		s.purgeStale(ctx)
		return
	case hasToken != hasUser:
		s.log.Warn(ctx, "discarding half-stored session", "has_token", hasToken, "has_user", hasUser)
		s.purge(ctx)
		return
	}

	cred := &models.Credential{Token: token}
	expiresAt, ok := storage.Get[time.Time](ctx, s.store, storage.KeyAuthTokenExpiresAt)
	if ok {
		cred.ExpiresAt = &expiresAt
	}
	if cred.Expired(s.clock.Now()) {
		s.log.Info(ctx, "stored credential expired", "expires_at", expiresAt)
		s.purge(ctx)
		return
	}

	principal.Normalize()
	s.state = Snapshot{Credential: cred, Principal: &principal}
	s.log.Info(ctx, "session restored", "user", principal.ID)
}

// purgeStale removes leftovers that failed to decode so they do not linger.
func (s *Session) purgeStale(ctx context.Context) {
	if s.store.Has(ctx, storage.KeyAuthToken) || s.store.Has(ctx, storage.KeyUserData) {
		s.log.Warn(ctx, "discarding unreadable session data")
		s.purge(ctx)
	}
}

func (s *Session) purge(ctx context.Context) {
	s.store.Remove(ctx, storage.KeyAuthToken)
	s.store.Remove(ctx, storage.KeyAuthTokenExpiresAt)
	s.store.Remove(ctx, storage.KeyUserData)
}

// Establish replaces the session with a new pair, persists it and notifies
// subscribers. The principal's roles are de-duplicated.
func (s *Session) Establish(ctx context.Context, cred models.Credential, principal models.Principal) error {
	if cred.Token == "" || principal.ID == "" {
		return ErrIncompleteSession
	}

	next := Snapshot{Credential: cred.Clone(), Principal: principal.Clone()}
	next.Principal.Normalize()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.store.Set(ctx, storage.KeyAuthToken, next.Credential.Token)
	if next.Credential.ExpiresAt != nil {
		s.store.Set(ctx, storage.KeyAuthTokenExpiresAt, next.Credential.ExpiresAt.UTC())
	} else {
		s.store.Remove(ctx, storage.KeyAuthTokenExpiresAt)
	}
	s.store.Set(ctx, storage.KeyUserData, next.Principal)

	s.log.Info(ctx, "session established", "user", next.Principal.ID, "roles", next.Principal.Roles)
	s.publish(next)
	return nil
}

// Clear drops both halves, removes them from storage and notifies
// subscribers. Clearing an empty session still notifies.
func (s *Session) Clear(ctx context.Context) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	wasAuthenticated := s.state.IsAuthenticated()
	s.state = Snapshot{}
	s.mu.Unlock()

	s.purge(ctx)

	if wasAuthenticated {
		s.log.Info(ctx, "session cleared")
	}
	s.publish(Snapshot{})
}

// Snapshot returns a deep copy of the current pair.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token()
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated()
}

func (s *Session) HasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.HasRole(role)
}

func (s *Session) HasAnyRole(roles ...string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.HasAnyRole(roles...)
}

func (s *Session) CanAccessPath(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CanAccessPath(path)
}

// Subscribe registers fn for every future change. fn runs synchronously on
// the mutating goroutine and must not call Establish or Clear. The returned
// func unsubscribes; calling it twice is harmless.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Session) publish(snap Snapshot) {
	s.subsMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	fns := make([]func(Snapshot), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(snap.clone())
	}
}
