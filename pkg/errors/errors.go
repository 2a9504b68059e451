package errors

import "errors"

// Definition carries a business error code and its default message.
type Definition struct {
	Code    string
	Message string
}

func (d Definition) Error() string {
	return d.Message
}

// auth errors
var (
	Unauthorized           = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidCredentials     = Definition{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}
	EmailAlreadyRegistered = Definition{Code: "EMAIL_ALREADY_REGISTERED", Message: "Email already registered"}
	SessionNotFound        = Definition{Code: "SESSION_NOT_FOUND", Message: "No active session"}
	AuthTokenInvalid       = Definition{Code: "AUTH_TOKEN_INVALID", Message: "Auth token invalid"}
	InvalidUserID          = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	TooManyRequests        = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests"}
)

// user / profile errors
var (
	ErrUserNotFound    = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
	ProfileNotFound    = Definition{Code: "PROFILE_NOT_FOUND", Message: "Profile row missing for authenticated user"}
	PersonaInvalid     = Definition{Code: "PERSONA_INVALID", Message: "Persona must be elder or volunteer"}
	RegistrationFailed = Definition{Code: "REGISTRATION_FAILED", Message: "User registration failed"}
)

// onboarding flow errors
var (
	OnboardingFlowNotFound    = Definition{Code: "ONBOARDING_FLOW_NOT_FOUND", Message: "Onboarding flow not found or expired"}
	OnboardingStepInvalid     = Definition{Code: "ONBOARDING_STEP_INVALID", Message: "Onboarding step invalid"}
	OnboardingPersonaUnset    = Definition{Code: "ONBOARDING_PERSONA_UNSET", Message: "Persona must be selected first"}
	OnboardingDraftInvalid    = Definition{Code: "ONBOARDING_DRAFT_INVALID", Message: "Registration draft invalid"}
	OnboardingAlreadyDone     = Definition{Code: "ONBOARDING_ALREADY_DONE", Message: "Onboarding flow already completed"}
	OnboardingBackUnavailable = Definition{Code: "ONBOARDING_BACK_UNAVAILABLE", Message: "Back is not available on this step"}
	OnboardingFlowBusy        = Definition{Code: "ONBOARDING_FLOW_BUSY", Message: "Another update to this flow is in progress"}
)

// goal errors
var (
	GoalNotFound      = Definition{Code: "GOAL_NOT_FOUND", Message: "Goal not found"}
	GoalAlreadyDone   = Definition{Code: "GOAL_ALREADY_DONE", Message: "Goal already completed"}
	GoalLimitReached  = Definition{Code: "GOAL_LIMIT_REACHED", Message: "Goal limit reached"}
	GoalTitleRequired = Definition{Code: "GOAL_TITLE_REQUIRED", Message: "Goal title required"}
)

// internal sentinel errors, wrapped with %w at call sites
var (
	ErrTokenGeneratorNotInitialized = errors.New("token generator is not initialized")
	ErrUnexpectedSigningMethod      = errors.New("unexpected signing method")
	ErrInvalidToken                 = errors.New("invalid token")
	ErrInvalidTokenClaims           = errors.New("invalid token claims")
	ErrInvalidTokenType             = errors.New("invalid token type")
	ErrUserIDNotFound               = errors.New("user id not found in token claims")
)

// Lookup provides error-code lookup for the response layer.
var Lookup = map[string]Definition{
	Unauthorized.Code:              Unauthorized,
	InvalidCredentials.Code:        InvalidCredentials,
	EmailAlreadyRegistered.Code:    EmailAlreadyRegistered,
	SessionNotFound.Code:           SessionNotFound,
	AuthTokenInvalid.Code:          AuthTokenInvalid,
	InvalidUserID.Code:             InvalidUserID,
	TooManyRequests.Code:           TooManyRequests,
	ErrUserNotFound.Code:           ErrUserNotFound,
	ProfileNotFound.Code:           ProfileNotFound,
	PersonaInvalid.Code:            PersonaInvalid,
	RegistrationFailed.Code:        RegistrationFailed,
	OnboardingFlowNotFound.Code:    OnboardingFlowNotFound,
	OnboardingStepInvalid.Code:     OnboardingStepInvalid,
	OnboardingPersonaUnset.Code:    OnboardingPersonaUnset,
	OnboardingDraftInvalid.Code:    OnboardingDraftInvalid,
	OnboardingAlreadyDone.Code:     OnboardingAlreadyDone,
	OnboardingBackUnavailable.Code: OnboardingBackUnavailable,
	OnboardingFlowBusy.Code:        OnboardingFlowBusy,
	GoalNotFound.Code:              GoalNotFound,
	GoalAlreadyDone.Code:           GoalAlreadyDone,
	GoalLimitReached.Code:          GoalLimitReached,
	GoalTitleRequired.Code:         GoalTitleRequired,
}

// SkipMessageError tells a queue consumer to ack and drop a message
// instead of requeueing it, e.g. a duplicate delivery.
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return "skip message: " + e.Reason
}

// Get returns the Definition for a code, or a generic one when unknown.
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
