// Package bootstrap builds the signed-in user identity once at startup:
// session lookup, then profile lookup, then publish. The identity is also
// kept in a persistence blob so a restart can show the last known user
// before the fresh fetch lands.
package bootstrap

import (
	"context"
	"sync"

	"ikigai/internal/model"
	pkgerrors "ikigai/pkg/errors"
)

// Session is the minimal authenticated-session view the store needs.
type Session struct {
	UserID string
	Email  string
}

// SessionProvider resolves the current session, if any. A nil session
// with a nil error means "not signed in".
type SessionProvider interface {
	CurrentSession(ctx context.Context) (*Session, error)
}

// ProfileProvider resolves the profile backing a session's user. A nil
// profile with a nil error is treated the same as a not-found error.
type ProfileProvider interface {
	ProfileByUserID(ctx context.Context, userID string) (*model.Profile, error)
}

// Persistence stores the published identity between runs. Load returns
// ok=false when nothing usable is stored (missing, or a version the
// current build does not read).
type Persistence interface {
	Load(ctx context.Context) (user *model.User, ok bool, err error)
	Save(ctx context.Context, user *model.User) error
	Clear(ctx context.Context) error
}

// Store holds the published user identity. Reads are concurrent-safe;
// Initialize runs its fetch sequence at most once per Store.
type Store struct {
	sessions SessionProvider
	profiles ProfileProvider
	persist  Persistence

	mu      sync.RWMutex
	user    *model.User
	loading bool
	errMsg  string

	initOnce sync.Once
}

// NewStore restores the persisted identity synchronously, so User()
// answers with the last known identity before Initialize has run.
func NewStore(ctx context.Context, sessions SessionProvider, profiles ProfileProvider, persist Persistence) *Store {
	s := &Store{
		sessions: sessions,
		profiles: profiles,
		persist:  persist,
	}
	if persist != nil {
		if u, ok, err := persist.Load(ctx); err == nil && ok {
			s.user = u
		}
	}
	return s
}

// Initialize runs the session-then-profile fetch sequence. Only the
// first call does work; later calls return immediately with the stored
// outcome. The fetch outcome always wins over the restored identity:
// no session or any fetch failure ends with a nil user, a failure also
// records its error string. The profile-less-but-authenticated state is
// a soft failure, never auto-repaired.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		s.setLoading(true)
		defer s.setLoading(false)

		sess, err := s.sessions.CurrentSession(ctx)
		if err != nil {
			s.dropUser(ctx, err.Error())
			return
		}
		if sess == nil {
			s.dropUser(ctx, "")
			return
		}

		profile, err := s.profiles.ProfileByUserID(ctx, sess.UserID)
		if err != nil {
			s.dropUser(ctx, err.Error())
			return
		}
		if profile == nil {
			s.dropUser(ctx, pkgerrors.ProfileNotFound.Error())
			return
		}

		s.publish(ctx, &model.User{
			ID:    profile.UserID,
			Type:  profile.Persona,
			Name:  profile.Name,
			Email: profile.Email,
		})
	})
}

// SetUser publishes an identity directly, e.g. right after sign-in,
// bypassing the fetch sequence.
func (s *Store) SetUser(ctx context.Context, u *model.User) {
	s.publish(ctx, u)
}

// ClearUser drops the published identity and its persisted copy.
func (s *Store) ClearUser(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.errMsg = ""
	s.mu.Unlock()

	if s.persist != nil {
		_ = s.persist.Clear(ctx)
	}
}

// publish stores the fresh identity; the fetched value always wins over
// whatever was restored from persistence.
func (s *Store) publish(ctx context.Context, u *model.User) {
	s.mu.Lock()
	s.user = u
	s.errMsg = ""
	s.mu.Unlock()

	if s.persist != nil && u != nil {
		_ = s.persist.Save(ctx, u)
	}
}

// dropUser nulls the identity and its persisted copy, recording msg as
// the failure string when non-empty.
func (s *Store) dropUser(ctx context.Context, msg string) {
	s.mu.Lock()
	s.user = nil
	s.errMsg = msg
	s.mu.Unlock()

	if s.persist != nil {
		_ = s.persist.Clear(ctx)
	}
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// User returns the published identity, nil when signed out.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading reports whether the initialize sequence is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err is the recorded message from a failed initialize, empty otherwise.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}
