package onboarding

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ikigai/internal/model"
)

// walk advances through the chain, submitting a valid registration when
// the cursor reaches the registration step.
func walk(t *testing.T, o *Orchestrator, steps int) {
	t.Helper()
	for i := 0; i < steps; i++ {
		if o.Step() == StepRegistration {
			o.FillRegistration(validForm())
			fieldErrs, err := o.SubmitRegistration()
			require.NoError(t, err)
			require.Empty(t, fieldErrs)
			continue
		}
		require.NoError(t, o.Next())
	}
}

func TestOrchestrator_ElderChainOrder(t *testing.T) {
	o := New(nil)
	assert.Equal(t, StepPersonaSelection, o.Step())
	assert.Equal(t, -1, o.StepIndex())

	require.NoError(t, o.SelectPersona(model.PersonaElder))

	want := []Step{
		StepIntroduction,
		StepRegistration,
		StepProfileSetup,
		StepGardenIntro,
		StepFirstGoal,
		StepHomeTutorial,
		StepFeatureTour,
		StepAccessibilityTutorial,
		StepCompletion,
	}
	for i, s := range want {
		assert.Equal(t, s, o.Step())
		assert.Equal(t, i, o.StepIndex())
		if i < len(want)-1 {
			walk(t, o, 1)
		}
	}
	assert.False(t, o.Completed())
}

func TestOrchestrator_VolunteerChainOrder(t *testing.T) {
	o := New(nil)
	require.NoError(t, o.SelectPersona(model.PersonaVolunteer))

	want := []Step{
		StepVolunteerIntro,
		StepRegistration,
		StepVolunteerProfile,
		StepVolunteerTraining,
		StepVolunteerGuidelines,
		StepDashboardIntro,
	}
	for i, s := range want {
		assert.Equal(t, s, o.Step())
		if i < len(want)-1 {
			walk(t, o, 1)
		}
	}
}

func TestOrchestrator_NextBeforePersona(t *testing.T) {
	o := New(nil)
	assert.Error(t, o.Next())
	assert.Equal(t, StepPersonaSelection, o.Step())
}

func TestOrchestrator_SelectPersonaInvalid(t *testing.T) {
	o := New(nil)
	assert.Error(t, o.SelectPersona("admin"))
	assert.Equal(t, StepPersonaSelection, o.Step())
}

func TestOrchestrator_BackOnlyWhereOffered(t *testing.T) {
	o := New(nil)
	require.NoError(t, o.SelectPersona(model.PersonaElder))

	// introduction is step 0
	assert.False(t, o.CanGoBack())
	assert.Error(t, o.Back())

	walk(t, o, 1) // registration
	assert.Equal(t, StepRegistration, o.Step())
	assert.True(t, o.CanGoBack())
	require.NoError(t, o.Back())
	assert.Equal(t, StepIntroduction, o.Step())

	// profile_setup offers no back affordance for elders
	walk(t, o, 2)
	assert.Equal(t, StepProfileSetup, o.Step())
	assert.False(t, o.CanGoBack())
	assert.Error(t, o.Back())
}

func TestOrchestrator_VolunteerBackChain(t *testing.T) {
	o := New(nil)
	require.NoError(t, o.SelectPersona(model.PersonaVolunteer))

	walk(t, o, 3)
	assert.Equal(t, StepVolunteerTraining, o.Step())
	assert.True(t, o.CanGoBack())
	require.NoError(t, o.Back())
	assert.Equal(t, StepVolunteerProfile, o.Step())
	require.NoError(t, o.Back())
	assert.Equal(t, StepRegistration, o.Step())
}

func TestOrchestrator_RegistrationGate(t *testing.T) {
	o := New(nil)
	require.NoError(t, o.SelectPersona(model.PersonaElder))
	walk(t, o, 1)
	require.Equal(t, StepRegistration, o.Step())

	// plain Next must not skip the registration step
	assert.Error(t, o.Next())
	assert.Equal(t, StepRegistration, o.Step())

	// invalid submit records field errors and holds position
	o.FillRegistration(RegistrationForm{Email: "not-an-email"})
	fieldErrs, err := o.SubmitRegistration()
	require.NoError(t, err)
	assert.Equal(t, StepRegistration, o.Step())
	assert.Contains(t, fieldErrs, FieldName)
	assert.Equal(t, "invalid email format", fieldErrs[FieldEmail])
	assert.Contains(t, fieldErrs, FieldPassword)

	// editing a field clears only that field's error
	o.EditRegistration(FieldEmail, "hanako@example.com")
	assert.NotContains(t, o.FieldErrors(), FieldEmail)
	assert.Contains(t, o.FieldErrors(), FieldName)

	o.EditRegistration(FieldName, "Hanako Sato")
	o.EditRegistration(FieldPassword, "password123")
	o.EditRegistration(FieldConfirmPassword, "password123")

	fieldErrs, err = o.SubmitRegistration()
	require.NoError(t, err)
	assert.Empty(t, fieldErrs)
	assert.Equal(t, StepProfileSetup, o.Step())
	assert.Equal(t, "hanako@example.com", o.Draft().Email)
	assert.Equal(t, "Hanako Sato", o.Draft().Name)
}

func TestOrchestrator_SubmitOutsideRegistration(t *testing.T) {
	o := New(nil)
	require.NoError(t, o.SelectPersona(model.PersonaElder))

	_, err := o.SubmitRegistration()
	assert.Error(t, err)
}

func TestOrchestrator_CompletionFiresOnceWithDraft(t *testing.T) {
	var calls int
	var gotPersona model.Persona
	var gotDraft RegistrationDraft

	o := New(func(p model.Persona, d RegistrationDraft) error {
		calls++
		gotPersona = p
		gotDraft = d
		return nil
	})
	require.NoError(t, o.SelectPersona(model.PersonaElder))
	walk(t, o, len(elderChain)-1)
	require.Equal(t, StepCompletion, o.Step())
	assert.Equal(t, 0, calls)

	require.NoError(t, o.Next())
	assert.True(t, o.Completed())
	assert.Equal(t, 1, calls)
	assert.Equal(t, model.PersonaElder, gotPersona)
	assert.Equal(t, "hanako@example.com", gotDraft.Email)
	assert.Equal(t, "password123", gotDraft.Password)

	// the flow is terminal, nothing fires twice
	assert.Error(t, o.Next())
	assert.Error(t, o.Close())
	assert.Equal(t, 1, calls)
	assert.InDelta(t, 1.0, o.Progress(), 1e-9)
}

func TestOrchestrator_CompletionCallbackError(t *testing.T) {
	var calls int
	o := New(func(model.Persona, RegistrationDraft) error {
		calls++
		return errors.New("email already registered")
	})
	require.NoError(t, o.SelectPersona(model.PersonaVolunteer))
	walk(t, o, len(volunteerChain)-1)
	require.Equal(t, StepDashboardIntro, o.Step())

	require.NoError(t, o.Next())
	assert.False(t, o.Completed())
	assert.Equal(t, StepDashboardIntro, o.Step())
	assert.Equal(t, "email already registered", o.Err())
	// draft survives for a retry
	assert.Equal(t, "hanako@example.com", o.Draft().Email)

	o.ClearErr()
	assert.Empty(t, o.Err())

	require.NoError(t, o.Next())
	assert.Equal(t, 2, calls)
}

func TestOrchestrator_CloseCompletesAsElder(t *testing.T) {
	var gotPersona model.Persona
	var gotDraft RegistrationDraft
	o := New(func(p model.Persona, d RegistrationDraft) error {
		gotPersona = p
		gotDraft = d
		return nil
	})

	// close is reachable even before a persona is chosen
	require.NoError(t, o.Close())
	assert.True(t, o.Completed())
	assert.False(t, o.Cancelled())
	assert.Equal(t, model.PersonaElder, gotPersona)
	assert.Equal(t, RegistrationDraft{}, gotDraft)
}

func TestOrchestrator_CloseMidVolunteerChainStillElder(t *testing.T) {
	var gotPersona model.Persona
	o := New(func(p model.Persona, _ RegistrationDraft) error {
		gotPersona = p
		return nil
	})
	require.NoError(t, o.SelectPersona(model.PersonaVolunteer))
	walk(t, o, 3)

	require.NoError(t, o.Close())
	assert.True(t, o.Completed())
	assert.Equal(t, model.PersonaElder, gotPersona)
}

func TestOrchestrator_ClosePolicyCancel(t *testing.T) {
	var completed, cancelled int
	o := New(
		func(model.Persona, RegistrationDraft) error { completed++; return nil },
		WithClosePolicy(ClosePolicyCancel),
		WithOnCancel(func() { cancelled++ }),
	)
	require.NoError(t, o.SelectPersona(model.PersonaElder))
	walk(t, o, 2)

	require.NoError(t, o.Close())
	assert.True(t, o.Cancelled())
	assert.False(t, o.Completed())
	assert.Equal(t, 0, completed)
	assert.Equal(t, 1, cancelled)

	assert.Error(t, o.Next())
	assert.Error(t, o.Close())
	assert.Equal(t, 1, cancelled)
}

func TestOrchestrator_Progress(t *testing.T) {
	o := New(nil)
	assert.Zero(t, o.Progress())

	require.NoError(t, o.SelectPersona(model.PersonaVolunteer))
	assert.InDelta(t, 1.0/6.0, o.Progress(), 1e-9)

	walk(t, o, 2)
	assert.InDelta(t, 3.0/6.0, o.Progress(), 1e-9)
}

func TestOrchestrator_SnapshotRoundTrip(t *testing.T) {
	o := New(nil)
	require.NoError(t, o.SelectPersona(model.PersonaElder))
	walk(t, o, 1)
	o.FillRegistration(RegistrationForm{Email: "bad"})
	_, err := o.SubmitRegistration()
	require.NoError(t, err)

	raw, err := json.Marshal(o.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))

	var calls int
	r := Resume(snap, func(model.Persona, RegistrationDraft) error {
		calls++
		return nil
	})
	assert.Equal(t, StepRegistration, r.Step())
	assert.Equal(t, "bad", r.Form().Email)
	assert.Contains(t, r.FieldErrors(), FieldName)

	p, ok := r.Persona()
	assert.True(t, ok)
	assert.Equal(t, model.PersonaElder, p)

	// the resumed flow still runs to completion
	r.FillRegistration(validForm())
	fieldErrs, err := r.SubmitRegistration()
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	walk(t, r, len(elderChain)-3)
	require.NoError(t, r.Next())
	assert.True(t, r.Completed())
	assert.Equal(t, 1, calls)
}

func TestOrchestrator_ResumeClampsIndex(t *testing.T) {
	snap := Snapshot{
		Phase:   int(phaseChain),
		Persona: string(model.PersonaVolunteer),
		Index:   42,
	}
	r := Resume(snap, nil)
	assert.Equal(t, StepDashboardIntro, r.Step())
}

func TestChainLength(t *testing.T) {
	assert.Equal(t, 9, ChainLength(model.PersonaElder))
	assert.Equal(t, 6, ChainLength(model.PersonaVolunteer))
}
