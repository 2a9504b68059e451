package onboarding

import "ikigai/internal/model"

// Step names one screen of an onboarding chain.
type Step string

const (
	// step 0, before a persona is chosen
	StepPersonaSelection Step = "persona_selection"

	// elder chain
	StepIntroduction          Step = "introduction"
	StepRegistration          Step = "registration"
	StepProfileSetup          Step = "profile_setup"
	StepGardenIntro           Step = "garden_intro"
	StepFirstGoal             Step = "first_goal"
	StepHomeTutorial          Step = "home_tutorial"
	StepFeatureTour           Step = "feature_tour"
	StepAccessibilityTutorial Step = "accessibility_tutorial"
	StepCompletion            Step = "completion"

	// volunteer chain
	StepVolunteerIntro      Step = "volunteer_intro"
	StepVolunteerProfile    Step = "volunteer_profile"
	StepVolunteerTraining   Step = "volunteer_training"
	StepVolunteerGuidelines Step = "volunteer_guidelines"
	StepDashboardIntro      Step = "dashboard_intro"
)

var elderChain = []Step{
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

var volunteerChain = []Step{
	StepVolunteerIntro,
	StepRegistration,
	StepVolunteerProfile,
	StepVolunteerTraining,
	StepVolunteerGuidelines,
	StepDashboardIntro,
}

// back is only offered on the steps that rendered a back affordance.
var elderBackSteps = map[Step]bool{
	StepRegistration: true,
	StepFeatureTour:  true,
}

var volunteerBackSteps = map[Step]bool{
	StepRegistration:        true,
	StepVolunteerProfile:    true,
	StepVolunteerTraining:   true,
	StepVolunteerGuidelines: true,
}

// Chain returns the ordered step list for a persona.
func Chain(p model.Persona) []Step {
	if p == model.PersonaVolunteer {
		return volunteerChain
	}
	return elderChain
}

// ChainLength returns the number of steps after persona selection:
// 9 for elder, 6 for volunteer.
func ChainLength(p model.Persona) int {
	return len(Chain(p))
}

func backAllowed(p model.Persona, s Step) bool {
	if p == model.PersonaVolunteer {
		return volunteerBackSteps[s]
	}
	return elderBackSteps[s]
}
