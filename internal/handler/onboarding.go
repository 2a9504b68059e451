package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"ikigai/internal/model"
	"ikigai/internal/model/dto"
	"ikigai/internal/service"
	"ikigai/pkg/response"
)

// StartOnboarding opens a new flow at persona selection.
// POST /v1/onboarding/flows
func StartOnboarding(ctx context.Context, c *app.RequestContext) {
	result, err := service.Onboarding().StartFlow(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetOnboardingFlow returns the current flow state.
// GET /v1/onboarding/flows/:flow_id
func GetOnboardingFlow(ctx context.Context, c *app.RequestContext) {
	result, err := service.Onboarding().GetFlow(ctx, c.Param("flow_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// SelectPersona picks the step chain.
// POST /v1/onboarding/flows/:flow_id/persona
func SelectPersona(ctx context.Context, c *app.RequestContext) {
	var req dto.SelectPersonaRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Onboarding().SelectPersona(ctx, c.Param("flow_id"), model.Persona(req.Persona))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// NextStep advances the flow one step.
// POST /v1/onboarding/flows/:flow_id/next
func NextStep(ctx context.Context, c *app.RequestContext) {
	result, err := service.Onboarding().Next(ctx, c.Param("flow_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// PreviousStep steps the flow backwards.
// POST /v1/onboarding/flows/:flow_id/back
func PreviousStep(ctx context.Context, c *app.RequestContext) {
	result, err := service.Onboarding().Back(ctx, c.Param("flow_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// UpdateRegistration stores registration form edits.
// PUT /v1/onboarding/flows/:flow_id/registration
func UpdateRegistration(ctx context.Context, c *app.RequestContext) {
	var req dto.RegistrationRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Onboarding().UpdateRegistration(ctx, c.Param("flow_id"), req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// SubmitRegistration validates the stored form and advances on success.
// POST /v1/onboarding/flows/:flow_id/registration/submit
func SubmitRegistration(ctx context.Context, c *app.RequestContext) {
	result, err := service.Onboarding().SubmitRegistration(ctx, c.Param("flow_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// CloseOnboarding applies the close affordance.
// POST /v1/onboarding/flows/:flow_id/close
func CloseOnboarding(ctx context.Context, c *app.RequestContext) {
	result, err := service.Onboarding().Close(ctx, c.Param("flow_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// ClearOnboardingError dismisses the flow-level error.
// POST /v1/onboarding/flows/:flow_id/error/clear
func ClearOnboardingError(ctx context.Context, c *app.RequestContext) {
	result, err := service.Onboarding().ClearError(ctx, c.Param("flow_id"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
