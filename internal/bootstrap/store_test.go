package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ikigai/internal/model"
)

type fakeSessions struct {
	session *Session
	err     error
	calls   int
}

func (f *fakeSessions) CurrentSession(context.Context) (*Session, error) {
	f.calls++
	return f.session, f.err
}

type fakeProfiles struct {
	profile *model.Profile
	err     error
	calls   int
}

func (f *fakeProfiles) ProfileByUserID(_ context.Context, userID string) (*model.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type fakePersist struct {
	stored *model.User
	saves  int
	clears int
}

func (f *fakePersist) Load(context.Context) (*model.User, bool, error) {
	if f.stored == nil {
		return nil, false, nil
	}
	return f.stored, true, nil
}

func (f *fakePersist) Save(_ context.Context, u *model.User) error {
	f.saves++
	f.stored = u
	return nil
}

func (f *fakePersist) Clear(context.Context) error {
	f.clears++
	f.stored = nil
	return nil
}

func TestStore_InitializePublishesFromProfile(t *testing.T) {
	sessions := &fakeSessions{session: &Session{UserID: "u-1", Email: "hanako@example.com"}}
	profiles := &fakeProfiles{profile: &model.Profile{
		UserID:  "u-1",
		Persona: model.PersonaElder,
		Name:    "Hanako Sato",
		Email:   "hanako@example.com",
	}}
	persist := &fakePersist{}

	s := NewStore(context.Background(), sessions, profiles, persist)
	assert.Nil(t, s.User())

	s.Initialize(context.Background())

	u := s.User()
	require.NotNil(t, u)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, model.PersonaElder, u.Type)
	assert.Equal(t, "Hanako Sato", u.Name)
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())
	assert.Equal(t, 1, persist.saves)
}

func TestStore_InitializeRunsOnce(t *testing.T) {
	sessions := &fakeSessions{session: &Session{UserID: "u-1"}}
	profiles := &fakeProfiles{profile: &model.Profile{UserID: "u-1", Persona: model.PersonaElder}}

	s := NewStore(context.Background(), sessions, profiles, nil)
	s.Initialize(context.Background())
	s.Initialize(context.Background())
	s.Initialize(context.Background())

	assert.Equal(t, 1, sessions.calls)
	assert.Equal(t, 1, profiles.calls)
}

func TestStore_NoSessionEndsAnonymous(t *testing.T) {
	persist := &fakePersist{stored: &model.User{ID: "u-9", Type: model.PersonaVolunteer, Name: "Ken"}}
	sessions := &fakeSessions{session: nil}

	s := NewStore(context.Background(), sessions, &fakeProfiles{}, persist)
	// the restored identity shows until initialize settles
	require.NotNil(t, s.User())
	assert.Equal(t, "u-9", s.User().ID)

	s.Initialize(context.Background())

	assert.Nil(t, s.User())
	assert.Empty(t, s.Err())
	assert.False(t, s.Loading())
	assert.Equal(t, 1, persist.clears)
}

func TestStore_SessionErrorEndsAnonymousWithError(t *testing.T) {
	persist := &fakePersist{stored: &model.User{ID: "u-9"}}
	sessions := &fakeSessions{err: errors.New("session backend unavailable")}

	s := NewStore(context.Background(), sessions, &fakeProfiles{}, persist)
	s.Initialize(context.Background())

	assert.Nil(t, s.User())
	assert.Equal(t, "session backend unavailable", s.Err())
	assert.False(t, s.Loading())
}

func TestStore_ProfileErrorEndsAnonymousWithError(t *testing.T) {
	sessions := &fakeSessions{session: &Session{UserID: "u-1"}}
	profiles := &fakeProfiles{err: errors.New("profile not found")}

	s := NewStore(context.Background(), sessions, profiles, nil)
	s.Initialize(context.Background())

	assert.Nil(t, s.User())
	assert.Equal(t, "profile not found", s.Err())
	assert.False(t, s.Loading())
}

func TestStore_NilProfileEndsAnonymousWithError(t *testing.T) {
	persist := &fakePersist{stored: &model.User{ID: "u-1"}}
	sessions := &fakeSessions{session: &Session{UserID: "u-1"}}

	// a provider answering (nil, nil) instead of a not-found error
	s := NewStore(context.Background(), sessions, &fakeProfiles{}, persist)
	s.Initialize(context.Background())

	assert.Nil(t, s.User())
	assert.NotEmpty(t, s.Err())
	assert.False(t, s.Loading())
	assert.Equal(t, 1, persist.clears)
}

func TestStore_FetchedValueWinsOverRestored(t *testing.T) {
	persist := &fakePersist{stored: &model.User{ID: "u-1", Name: "Stale Name", Type: model.PersonaElder}}
	sessions := &fakeSessions{session: &Session{UserID: "u-1"}}
	profiles := &fakeProfiles{profile: &model.Profile{
		UserID:  "u-1",
		Persona: model.PersonaElder,
		Name:    "Fresh Name",
		Email:   "fresh@example.com",
	}}

	s := NewStore(context.Background(), sessions, profiles, persist)
	assert.Equal(t, "Stale Name", s.User().Name)

	s.Initialize(context.Background())

	assert.Equal(t, "Fresh Name", s.User().Name)
	assert.Equal(t, "Fresh Name", persist.stored.Name)
}

func TestStore_SetAndClearUser(t *testing.T) {
	persist := &fakePersist{}
	s := NewStore(context.Background(), &fakeSessions{}, &fakeProfiles{}, persist)

	s.SetUser(context.Background(), &model.User{ID: "u-2", Type: model.PersonaVolunteer})
	require.NotNil(t, s.User())
	assert.Equal(t, 1, persist.saves)

	s.ClearUser(context.Background())
	assert.Nil(t, s.User())
	assert.Equal(t, 1, persist.clears)
	assert.Nil(t, persist.stored)
}
