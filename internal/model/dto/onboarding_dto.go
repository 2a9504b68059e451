package dto

// ========== Onboarding DTOs ==========

// SelectPersonaRequest picks the chain at step 0.
type SelectPersonaRequest struct {
	Persona string `json:"persona" binding:"required"`
}

// RegistrationRequest is the registration step form.
type RegistrationRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// FlowStateData describes an onboarding flow to the client after every
// transition.
type FlowStateData struct {
	FlowID      string            `json:"flow_id"`
	Persona     string            `json:"persona,omitempty"`
	Step        string            `json:"step"`
	StepIndex   int               `json:"step_index"`
	ChainLength int               `json:"chain_length,omitempty"`
	Progress    float64           `json:"progress"`
	CanGoBack   bool              `json:"can_go_back"`
	Completed   bool              `json:"completed"`
	Cancelled   bool              `json:"cancelled"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Error       string            `json:"error,omitempty"`

	// set once the terminal step completed registration
	Session *AuthSessionData `json:"session,omitempty"`
}
