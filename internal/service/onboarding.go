package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ikigai/config"
	"ikigai/internal/cache"
	"ikigai/internal/model"
	"ikigai/internal/model/dto"
	"ikigai/internal/onboarding"
	pkgerrors "ikigai/pkg/errors"
	"ikigai/pkg/logger"
)

var (
	onboardingService *OnboardingService
	onboardingOnce    sync.Once
)

func Onboarding() *OnboardingService {
	onboardingOnce.Do(func() {
		onboardingService = &OnboardingService{
			flows: redisFlowStore{},
			locks: redisFlowLocker{},
		}
	})
	return onboardingService
}

// flowStore persists flow snapshots between requests.
type flowStore interface {
	Load(ctx context.Context, flowID string) (onboarding.Snapshot, error)
	Save(ctx context.Context, flowID string, snap onboarding.Snapshot) error
}

// flowLocker serializes writers of one flow across server instances.
type flowLocker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, name string) error
}

type redisFlowStore struct{}

func (redisFlowStore) Load(ctx context.Context, flowID string) (onboarding.Snapshot, error) {
	return cache.GetFlow(ctx, flowID)
}

func (redisFlowStore) Save(ctx context.Context, flowID string, snap onboarding.Snapshot) error {
	return cache.SaveFlow(ctx, flowID, snap)
}

type redisFlowLocker struct{}

func (redisFlowLocker) TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return cache.TryLock(ctx, name, ttl)
}

func (redisFlowLocker) Unlock(ctx context.Context, name string) error {
	return cache.Unlock(ctx, name)
}

// OnboardingService drives server-held onboarding flows. The flow state
// lives in Redis between requests; each operation takes the flow's lock,
// restores the snapshot, applies one transition and stores it back.
type OnboardingService struct {
	flows flowStore
	locks flowLocker
}

// StartFlow opens a new flow at persona selection.
func (s *OnboardingService) StartFlow(ctx context.Context) (*dto.FlowStateData, error) {
	flowID := uuid.NewString()

	orch := onboarding.New(nil, onboarding.WithClosePolicy(closePolicy()))
	if err := s.flows.Save(ctx, flowID, orch.Snapshot()); err != nil {
		return nil, fmt.Errorf("failed to save flow: %w", err)
	}

	logger.Logger.Info("Onboarding flow started", zap.String("flow_id", flowID))
	return flowState(flowID, orch, nil), nil
}

// GetFlow returns the current state without transitioning.
func (s *OnboardingService) GetFlow(ctx context.Context, flowID string) (*dto.FlowStateData, error) {
	orch, err := s.restore(ctx, flowID)
	if err != nil {
		return nil, err
	}
	return flowState(flowID, orch, nil), nil
}

// SelectPersona picks the chain and lands on its first step.
func (s *OnboardingService) SelectPersona(ctx context.Context, flowID string, persona model.Persona) (*dto.FlowStateData, error) {
	return s.transition(ctx, flowID, func(orch *onboarding.Orchestrator) error {
		return orch.SelectPersona(persona)
	})
}

// Next advances one step. On the terminal step this signs the drafted
// user up and attaches the issued session to the returned state.
func (s *OnboardingService) Next(ctx context.Context, flowID string) (*dto.FlowStateData, error) {
	return s.transition(ctx, flowID, func(orch *onboarding.Orchestrator) error {
		return orch.Next()
	})
}

// Back steps backwards where the chain offers it.
func (s *OnboardingService) Back(ctx context.Context, flowID string) (*dto.FlowStateData, error) {
	return s.transition(ctx, flowID, func(orch *onboarding.Orchestrator) error {
		return orch.Back()
	})
}

// UpdateRegistration stores the form fields, clearing the errors of the
// fields that changed.
func (s *OnboardingService) UpdateRegistration(ctx context.Context, flowID string, req dto.RegistrationRequest) (*dto.FlowStateData, error) {
	return s.transition(ctx, flowID, func(orch *onboarding.Orchestrator) error {
		prev := orch.Form()
		if req.Name != prev.Name {
			orch.EditRegistration(onboarding.FieldName, req.Name)
		}
		if req.Email != prev.Email {
			orch.EditRegistration(onboarding.FieldEmail, req.Email)
		}
		if req.Password != prev.Password {
			orch.EditRegistration(onboarding.FieldPassword, req.Password)
		}
		if req.ConfirmPassword != prev.ConfirmPassword {
			orch.EditRegistration(onboarding.FieldConfirmPassword, req.ConfirmPassword)
		}
		return nil
	})
}

// SubmitRegistration validates the stored form and advances on success.
func (s *OnboardingService) SubmitRegistration(ctx context.Context, flowID string) (*dto.FlowStateData, error) {
	return s.transition(ctx, flowID, func(orch *onboarding.Orchestrator) error {
		_, err := orch.SubmitRegistration()
		return err
	})
}

// Close applies the configured close behavior. Under the default policy
// this attempts a completion as elder with whatever draft exists.
func (s *OnboardingService) Close(ctx context.Context, flowID string) (*dto.FlowStateData, error) {
	return s.transition(ctx, flowID, func(orch *onboarding.Orchestrator) error {
		return orch.Close()
	})
}

// ClearError dismisses the flow-level error from a failed completion.
func (s *OnboardingService) ClearError(ctx context.Context, flowID string) (*dto.FlowStateData, error) {
	return s.transition(ctx, flowID, func(orch *onboarding.Orchestrator) error {
		orch.ClearErr()
		return nil
	})
}

const (
	flowLockTTL     = 10 * time.Second
	flowLockRetries = 50
	flowLockBackoff = 20 * time.Millisecond
)

// transition locks the flow, restores it, applies op, persists the new
// state and reports it. The completion callback runs inside op when the
// transition reaches the end of the chain; without the lock two racing
// requests would both read the pre-completion snapshot and fire it twice.
func (s *OnboardingService) transition(
	ctx context.Context,
	flowID string,
	op func(*onboarding.Orchestrator) error,
) (*dto.FlowStateData, error) {
	if err := s.lockFlow(ctx, flowID); err != nil {
		return nil, err
	}
	defer s.unlockFlow(ctx, flowID)

	snap, err := s.flows.Load(ctx, flowID)
	if err != nil {
		return nil, err
	}

	var session *dto.AuthSessionData
	orch := onboarding.Resume(snap, func(persona model.Persona, draft onboarding.RegistrationDraft) error {
		data, signUpErr := Auth().SignUp(ctx, persona, draft)
		if signUpErr != nil {
			return signUpErr
		}
		session = data
		return nil
	})

	if err := op(orch); err != nil {
		return nil, err
	}

	if err := s.flows.Save(ctx, flowID, orch.Snapshot()); err != nil {
		return nil, fmt.Errorf("failed to save flow: %w", err)
	}

	if orch.Completed() {
		logger.Logger.Info("Onboarding flow completed",
			zap.String("flow_id", flowID),
			zap.String("step", string(orch.Step())),
		)
	}

	return flowState(flowID, orch, session), nil
}

func (s *OnboardingService) restore(ctx context.Context, flowID string) (*onboarding.Orchestrator, error) {
	snap, err := s.flows.Load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	return onboarding.Resume(snap, nil), nil
}

// lockFlow claims the per-flow write lock, waiting briefly for a racing
// request to finish. OnboardingFlowBusy after the retry budget.
func (s *OnboardingService) lockFlow(ctx context.Context, flowID string) error {
	name := flowLockName(flowID)
	for i := 0; i < flowLockRetries; i++ {
		ok, err := s.locks.TryLock(ctx, name, flowLockTTL)
		if err != nil {
			return fmt.Errorf("failed to lock flow: %w", err)
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(flowLockBackoff):
		}
	}
	return pkgerrors.OnboardingFlowBusy
}

func (s *OnboardingService) unlockFlow(ctx context.Context, flowID string) {
	if err := s.locks.Unlock(ctx, flowLockName(flowID)); err != nil {
		logger.Logger.Warn("Failed to unlock flow",
			zap.String("flow_id", flowID),
			zap.Error(err),
		)
	}
}

func flowLockName(flowID string) string {
	return "onboarding:flow:" + flowID
}

func closePolicy() onboarding.ClosePolicy {
	if config.Cfg.OnboardingCloseCancels {
		return onboarding.ClosePolicyCancel
	}
	return onboarding.ClosePolicyCompleteAsElder
}

func flowState(flowID string, orch *onboarding.Orchestrator, session *dto.AuthSessionData) *dto.FlowStateData {
	state := &dto.FlowStateData{
		FlowID:      flowID,
		Step:        string(orch.Step()),
		StepIndex:   orch.StepIndex(),
		Progress:    orch.Progress(),
		CanGoBack:   orch.CanGoBack(),
		Completed:   orch.Completed(),
		Cancelled:   orch.Cancelled(),
		FieldErrors: orch.FieldErrors(),
		Error:       orch.Err(),
		Session:     session,
	}
	if persona, ok := orch.Persona(); ok {
		state.Persona = string(persona)
		state.ChainLength = onboarding.ChainLength(persona)
	}
	return state
}
