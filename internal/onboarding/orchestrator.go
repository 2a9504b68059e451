package onboarding

import (
	"ikigai/internal/model"
	pkgerrors "ikigai/pkg/errors"
)

// CompleteFunc is the terminal callback. The caller owns account creation;
// a returned error is surfaced to the user and leaves the flow resumable.
type CompleteFunc func(persona model.Persona, draft RegistrationDraft) error

// CancelFunc is invoked instead of CompleteFunc when the close affordance
// is used under ClosePolicyCancel.
type CancelFunc func()

// ClosePolicy decides what the close affordance does.
type ClosePolicy int

const (
	// ClosePolicyCompleteAsElder reproduces the historical behavior:
	// closing synthesizes a completion with the elder persona and an
	// empty draft, from any step, never signalling a distinct cancel.
	ClosePolicyCompleteAsElder ClosePolicy = iota

	// ClosePolicyCancel ends the flow with a distinct cancelled outcome.
	ClosePolicyCancel
)

// phase tags the orchestrator state. A chain index only exists while in
// phaseChain, so the cursor can never outrun the active persona's chain.
type phase int

const (
	phasePersonaSelection phase = iota
	phaseChain
	phaseCompleted
	phaseCancelled
)

// Orchestrator walks a user through the persona-specific step chain,
// collects the registration draft and fires the completion callback
// exactly once. It is a plain state machine: single-owner, no locking.
type Orchestrator struct {
	phase       phase
	persona     model.Persona
	index       int // chain index, valid only in phaseChain
	form        RegistrationForm
	draft       RegistrationDraft
	fieldErrors map[string]string
	errMsg      string
	policy      ClosePolicy
	onComplete  CompleteFunc
	onCancel    CancelFunc
}

type Option func(*Orchestrator)

func WithClosePolicy(p ClosePolicy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

func WithOnCancel(fn CancelFunc) Option {
	return func(o *Orchestrator) { o.onCancel = fn }
}

// New starts a flow at persona selection.
func New(onComplete CompleteFunc, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		phase:       phasePersonaSelection,
		fieldErrors: make(map[string]string),
		onComplete:  onComplete,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SelectPersona sets the chain at step 0 and advances to its first step.
func (o *Orchestrator) SelectPersona(p model.Persona) error {
	if o.phase != phasePersonaSelection {
		return pkgerrors.OnboardingStepInvalid
	}
	if !model.ValidPersona(p) {
		return pkgerrors.PersonaInvalid
	}

	o.persona = p
	o.phase = phaseChain
	o.index = 0
	return nil
}

// Next advances one step. On the terminal step it fires the completion
// callback instead; a callback error keeps the flow on the terminal step
// with the draft intact so the user can resubmit.
func (o *Orchestrator) Next() error {
	switch o.phase {
	case phasePersonaSelection:
		return pkgerrors.OnboardingPersonaUnset
	case phaseCompleted, phaseCancelled:
		return pkgerrors.OnboardingAlreadyDone
	}

	chain := Chain(o.persona)
	if chain[o.index] == StepRegistration {
		// registration advances through SubmitRegistration only
		return pkgerrors.OnboardingStepInvalid
	}

	if o.index == len(chain)-1 {
		return o.complete(o.persona, o.draft)
	}

	o.index++
	return nil
}

// Back steps backwards where the chain offers it.
func (o *Orchestrator) Back() error {
	if o.phase != phaseChain {
		return pkgerrors.OnboardingStepInvalid
	}
	if o.index == 0 || !backAllowed(o.persona, Chain(o.persona)[o.index]) {
		return pkgerrors.OnboardingBackUnavailable
	}

	o.index--
	return nil
}

// EditRegistration updates one form field and clears that field's error,
// mirroring the per-field clearing of the original form.
func (o *Orchestrator) EditRegistration(field, value string) {
	switch field {
	case FieldName:
		o.form.Name = value
	case FieldEmail:
		o.form.Email = value
	case FieldPassword:
		o.form.Password = value
	case FieldConfirmPassword:
		o.form.ConfirmPassword = value
	default:
		return
	}
	delete(o.fieldErrors, field)
}

// FillRegistration replaces the whole form, clearing all field errors.
func (o *Orchestrator) FillRegistration(form RegistrationForm) {
	o.form = form
	o.fieldErrors = make(map[string]string)
}

// SubmitRegistration validates the stored form. With a clean form the
// draft is captured and the flow advances; otherwise the field errors are
// recorded and the cursor does not move.
func (o *Orchestrator) SubmitRegistration() (map[string]string, error) {
	if o.phase != phaseChain || Chain(o.persona)[o.index] != StepRegistration {
		return nil, pkgerrors.OnboardingStepInvalid
	}

	errs := ValidateRegistration(o.form)
	o.fieldErrors = errs
	if len(errs) > 0 {
		return errs, nil
	}

	o.draft = RegistrationDraft{
		Email:    o.form.Email,
		Password: o.form.Password,
		Name:     o.form.Name,
	}
	o.index++
	return nil, nil
}

// Close is available from every state. Under the default policy it
// synthesizes a completion with the elder persona and an empty draft,
// faithfully including the asymmetry that closing never reports a
// distinct cancelled outcome.
func (o *Orchestrator) Close() error {
	if o.phase == phaseCompleted || o.phase == phaseCancelled {
		return pkgerrors.OnboardingAlreadyDone
	}

	if o.policy == ClosePolicyCancel {
		o.phase = phaseCancelled
		if o.onCancel != nil {
			o.onCancel()
		}
		return nil
	}

	return o.complete(model.PersonaElder, RegistrationDraft{})
}

func (o *Orchestrator) complete(p model.Persona, draft RegistrationDraft) error {
	var err error
	if o.onComplete != nil {
		err = o.onComplete(p, draft)
	}
	if err != nil {
		o.errMsg = err.Error()
		return nil
	}

	o.errMsg = ""
	o.persona = p
	o.phase = phaseCompleted
	return nil
}

// ===== observers =====

// Step names the current screen.
func (o *Orchestrator) Step() Step {
	switch o.phase {
	case phasePersonaSelection:
		return StepPersonaSelection
	case phaseChain:
		return Chain(o.persona)[o.index]
	default:
		return Chain(o.persona)[len(Chain(o.persona))-1]
	}
}

// StepIndex is the 0-based position within the active chain; -1 before a
// persona is chosen.
func (o *Orchestrator) StepIndex() int {
	if o.phase == phasePersonaSelection {
		return -1
	}
	if o.phase == phaseChain {
		return o.index
	}
	return len(Chain(o.persona)) - 1
}

// Persona returns the selected persona and whether one is set. A flow
// cancelled before selection has none.
func (o *Orchestrator) Persona() (model.Persona, bool) {
	return o.persona, o.persona != ""
}

// Progress is the completion fraction against the active chain's real
// length, not the historical constant denominator.
func (o *Orchestrator) Progress() float64 {
	switch o.phase {
	case phasePersonaSelection:
		return 0
	case phaseChain:
		return float64(o.index+1) / float64(len(Chain(o.persona)))
	default:
		return 1
	}
}

func (o *Orchestrator) Completed() bool { return o.phase == phaseCompleted }
func (o *Orchestrator) Cancelled() bool { return o.phase == phaseCancelled }

// CanGoBack reports whether the current step offers a back affordance.
func (o *Orchestrator) CanGoBack() bool {
	return o.phase == phaseChain && o.index > 0 && backAllowed(o.persona, Chain(o.persona)[o.index])
}

// FieldErrors is the registration error mapping from the last submit.
func (o *Orchestrator) FieldErrors() map[string]string { return o.fieldErrors }

// Form exposes the current registration form, errors cleared or not.
func (o *Orchestrator) Form() RegistrationForm { return o.form }

// Draft exposes the captured registration draft.
func (o *Orchestrator) Draft() RegistrationDraft { return o.draft }

// Err is the dismissable flow-level error from the completion callback.
func (o *Orchestrator) Err() string { return o.errMsg }

// ClearErr dismisses the flow-level error.
func (o *Orchestrator) ClearErr() { o.errMsg = "" }

// ===== persistence =====

// Snapshot is the serializable flow state. Callbacks are not part of it;
// Resume attaches fresh ones.
type Snapshot struct {
	Phase       int               `json:"phase"`
	Persona     string            `json:"persona,omitempty"`
	Index       int               `json:"index"`
	Form        RegistrationForm  `json:"form"`
	Draft       RegistrationDraft `json:"draft"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Error       string            `json:"error,omitempty"`
	Policy      int               `json:"policy"`
}

func (o *Orchestrator) Snapshot() Snapshot {
	return Snapshot{
		Phase:       int(o.phase),
		Persona:     string(o.persona),
		Index:       o.index,
		Form:        o.form,
		Draft:       o.draft,
		FieldErrors: o.fieldErrors,
		Error:       o.errMsg,
		Policy:      int(o.policy),
	}
}

// Resume rebuilds an orchestrator from a snapshot with fresh callbacks.
func Resume(snap Snapshot, onComplete CompleteFunc, opts ...Option) *Orchestrator {
	o := New(onComplete, opts...)
	o.phase = phase(snap.Phase)
	o.persona = model.Persona(snap.Persona)
	o.index = snap.Index
	o.form = snap.Form
	o.draft = snap.Draft
	o.errMsg = snap.Error
	o.policy = ClosePolicy(snap.Policy)
	if snap.FieldErrors != nil {
		o.fieldErrors = snap.FieldErrors
	}

	// clamp a snapshot that somehow outran its chain
	if o.phase == phaseChain {
		if max := len(Chain(o.persona)) - 1; o.index > max {
			o.index = max
		}
		if o.index < 0 {
			o.index = 0
		}
	}

	return o
}
