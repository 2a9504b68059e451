package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"ikigai/internal/bootstrap"
	"ikigai/internal/cache"
	"ikigai/internal/model"
	"ikigai/internal/model/dto"
	"ikigai/internal/onboarding"
	"ikigai/internal/queue"
	"ikigai/internal/repository"
	pkgerrors "ikigai/pkg/errors"
	"ikigai/pkg/logger"
	"ikigai/pkg/snowflake"
	"ikigai/pkg/token"
	"ikigai/utils"
)

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = &AuthService{}
	})
	return authService
}

type AuthService struct{}

// SignUp creates the credentials row and its profile from a completed
// onboarding draft. The profile insert has no transaction with the auth
// row (separate concerns, mirrored writes), so a failed profile insert
// compensates by hard-deleting the auth row to free the email again.
func (s *AuthService) SignUp(
	ctx context.Context,
	persona model.Persona,
	draft onboarding.RegistrationDraft,
) (*dto.AuthSessionData, error) {
	if fieldErrs := onboarding.ValidateRegistration(onboarding.RegistrationForm{
		Name:            draft.Name,
		Email:           draft.Email,
		Password:        draft.Password,
		ConfirmPassword: draft.Password,
	}); len(fieldErrs) > 0 {
		return nil, pkgerrors.OnboardingDraftInvalid
	}
	if !model.ValidPersona(persona) {
		return nil, pkgerrors.PersonaInvalid
	}

	email := utils.NormalizeEmail(draft.Email)

	existing, err := repository.GetAuthUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	if existing != nil {
		return nil, pkgerrors.EmailAlreadyRegistered
	}

	hash, err := utils.HashPassword(draft.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := snowflake.NextID(snowflake.GeneratorTypeUser)
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}
	publicID := fmt.Sprintf("%d", id)

	user := &model.AuthUser{
		PublicID:     publicID,
		Email:        email,
		PasswordHash: hash,
		Name:         draft.Name,
		Persona:      persona,
	}
	if err := repository.CreateAuthUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	profile := &model.Profile{
		UserID:  publicID,
		Persona: persona,
		Name:    draft.Name,
		Email:   email,
	}
	if err := repository.CreateProfile(ctx, profile); err != nil {
		logger.Logger.Error("Profile insert failed, compensating auth user",
			zap.String("user_id", publicID),
			zap.Error(err),
		)
		if delErr := repository.DeleteAuthUser(ctx, publicID); delErr != nil {
			logger.Logger.Error("Compensation delete failed, orphaned auth user",
				zap.String("user_id", publicID),
				zap.Error(delErr),
			)
		}
		return nil, pkgerrors.RegistrationFailed
	}

	logger.Logger.Info("New user registered",
		zap.String("user_id", publicID),
		zap.String("persona", string(persona)),
	)

	if err := queue.PublishWelcomeNotification(model.WelcomeMessage{
		UserID:       publicID,
		Persona:      persona,
		Name:         draft.Name,
		Email:        email,
		RegisteredAt: time.Now().UTC(),
	}); err != nil {
		// the welcome is best-effort, registration already succeeded
		logger.Logger.Warn("Failed to enqueue welcome notification",
			zap.String("user_id", publicID),
			zap.Error(err),
		)
	}

	session, err := s.issueSession(ctx, user, true)
	if err != nil {
		return nil, err
	}

	s.persistIdentity(ctx, user)
	return session, nil
}

// SignInWithPassword verifies credentials and issues a token pair.
func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string) (*dto.AuthSessionData, error) {
	user, err := repository.GetAuthUserByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, password) {
		return nil, pkgerrors.InvalidCredentials
	}

	session, err := s.issueSession(ctx, user, false)
	if err != nil {
		return nil, err
	}

	s.persistIdentity(ctx, user)
	return session, nil
}

// SignOut drops the refresh token and the persisted identity.
func (s *AuthService) SignOut(ctx context.Context, userID string) error {
	if err := cache.DeleteRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	if err := (cache.IdentityStore{UserID: userID}).Clear(ctx); err != nil {
		logger.Logger.Warn("Failed to clear persisted identity",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
	return nil
}

// RefreshToken rotates the token pair. The presented refresh token must
// match the one stored in Redis; rotation invalidates it.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthSessionData, error) {
	userID, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, pkgerrors.AuthTokenInvalid
	}
	if !cache.ValidateRefreshTokenExists(ctx, userID, refreshToken) {
		return nil, pkgerrors.AuthTokenInvalid
	}

	user, err := repository.GetAuthUserByPublicID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if user == nil {
		return nil, pkgerrors.ErrUserNotFound
	}

	return s.issueSession(ctx, user, false)
}

// BootstrapSession runs the startup identity sequence for a signed-in
// user: session check, profile fetch, publish. A missing profile is a
// soft failure reported in the payload, not an HTTP error.
func (s *AuthService) BootstrapSession(ctx context.Context, userID string) (*dto.SessionData, error) {
	store := bootstrap.NewStore(ctx,
		sessionProvider{userID: userID},
		profileProvider{},
		cache.IdentityStore{UserID: userID},
	)
	store.Initialize(ctx)

	if msg := store.Err(); msg != "" {
		return &dto.SessionData{Error: msg}, nil
	}

	u := store.User()
	if u == nil {
		return &dto.SessionData{}, nil
	}
	return &dto.SessionData{
		User: &dto.AuthUserSnapshot{
			ID:      u.ID,
			Persona: string(u.Type),
			Name:    u.Name,
			Email:   u.Email,
		},
	}, nil
}

func (s *AuthService) issueSession(ctx context.Context, user *model.AuthUser, isNew bool) (*dto.AuthSessionData, error) {
	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(user.PublicID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := cache.SetRefreshToken(ctx, user.PublicID, refreshToken); err != nil {
		// tokens are already issued, a failed cache write only breaks refresh
		logger.Logger.Warn("Failed to store refresh token in Redis",
			zap.String("user_id", user.PublicID),
			zap.Error(err),
		)
	}

	return &dto.AuthSessionData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		User: dto.AuthUserSnapshot{
			ID:        user.PublicID,
			Persona:   string(user.Persona),
			Name:      user.Name,
			Email:     user.Email,
			IsNewUser: isNew,
		},
	}, nil
}

func (s *AuthService) persistIdentity(ctx context.Context, user *model.AuthUser) {
	store := cache.IdentityStore{UserID: user.PublicID}
	if err := store.Save(ctx, &model.User{
		ID:    user.PublicID,
		Type:  user.Persona,
		Name:  user.Name,
		Email: user.Email,
	}); err != nil {
		logger.Logger.Warn("Failed to persist identity",
			zap.String("user_id", user.PublicID),
			zap.Error(err),
		)
	}
}

// sessionProvider treats a live refresh token as the signed-in session.
type sessionProvider struct {
	userID string
}

func (p sessionProvider) CurrentSession(ctx context.Context) (*bootstrap.Session, error) {
	if p.userID == "" {
		return nil, nil
	}
	if _, err := cache.GetRefreshToken(ctx, p.userID); err != nil {
		// no stored refresh token means no live session
		return nil, nil
	}
	return &bootstrap.Session{UserID: p.userID}, nil
}

type profileProvider struct{}

func (profileProvider) ProfileByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := repository.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, pkgerrors.ProfileNotFound
	}
	return profile, nil
}
