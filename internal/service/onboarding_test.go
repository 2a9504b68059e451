package service

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ikigai/internal/model"
	"ikigai/internal/onboarding"
	pkgerrors "ikigai/pkg/errors"
	"ikigai/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	os.Exit(m.Run())
}

type memFlowStore struct {
	mu    sync.Mutex
	flows map[string]onboarding.Snapshot
	loads int
}

func newMemFlowStore() *memFlowStore {
	return &memFlowStore{flows: make(map[string]onboarding.Snapshot)}
}

func (m *memFlowStore) Load(_ context.Context, flowID string) (onboarding.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	snap, ok := m.flows[flowID]
	if !ok {
		return snap, pkgerrors.OnboardingFlowNotFound
	}
	return snap, nil
}

func (m *memFlowStore) Save(_ context.Context, flowID string, snap onboarding.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flows[flowID] = snap
	return nil
}

type memFlowLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	stuck    bool // refuse every claim, simulates a holder that never lets go
	acquires int
	releases int
}

func newMemFlowLocker() *memFlowLocker {
	return &memFlowLocker{held: make(map[string]bool)}
}

func (m *memFlowLocker) TryLock(_ context.Context, name string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stuck || m.held[name] {
		return false, nil
	}
	m.held[name] = true
	m.acquires++
	return true, nil
}

func (m *memFlowLocker) Unlock(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, name)
	m.releases++
	return nil
}

func newTestOnboardingService() (*OnboardingService, *memFlowStore, *memFlowLocker) {
	store := newMemFlowStore()
	locker := newMemFlowLocker()
	return &OnboardingService{flows: store, locks: locker}, store, locker
}

func TestOnboardingService_TransitionTakesAndReleasesFlowLock(t *testing.T) {
	svc, _, locker := newTestOnboardingService()

	state, err := svc.StartFlow(context.Background())
	require.NoError(t, err)

	state, err = svc.SelectPersona(context.Background(), state.FlowID, model.PersonaElder)
	require.NoError(t, err)
	assert.Equal(t, string(model.PersonaElder), state.Persona)

	assert.Equal(t, 1, locker.acquires)
	assert.Equal(t, 1, locker.releases)
	assert.Empty(t, locker.held)
}

func TestOnboardingService_HeldFlowLockRejectsTransition(t *testing.T) {
	svc, store, locker := newTestOnboardingService()

	state, err := svc.StartFlow(context.Background())
	require.NoError(t, err)
	loadsBefore := store.loads

	locker.stuck = true
	_, err = svc.SelectPersona(context.Background(), state.FlowID, model.PersonaElder)

	assert.ErrorIs(t, err, pkgerrors.OnboardingFlowBusy)
	// the snapshot is never read without the lock
	assert.Equal(t, loadsBefore, store.loads)
}

func TestOnboardingService_ConcurrentTransitionsSerialize(t *testing.T) {
	svc, store, _ := newTestOnboardingService()

	// seed a flow past registration, where two plain advances are legal
	orch := onboarding.New(nil)
	require.NoError(t, orch.SelectPersona(model.PersonaElder))
	orch.FillRegistration(onboarding.RegistrationForm{
		Name:            "Hanako Sato",
		Email:           "hanako@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	fieldErrs, err := orch.SubmitRegistration()
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	startIndex := orch.StepIndex()

	flowID := "flow-race"
	require.NoError(t, store.Save(context.Background(), flowID, orch.Snapshot()))

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Next(context.Background(), flowID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// both advances land, neither overwrites the other
	state, err := svc.GetFlow(context.Background(), flowID)
	require.NoError(t, err)
	assert.Equal(t, startIndex+2, state.StepIndex)
}
