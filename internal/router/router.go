package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"ikigai/internal/handler"
	"ikigai/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")

	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware())
	{
		auth.POST("/login", handler.Login)
		auth.POST("/refresh", handler.RefreshToken)

		authed := auth.Group("", middleware.AuthMiddleware())
		{
			authed.POST("/logout", handler.Logout)
			authed.GET("/session", handler.GetSession)
		}
	}

	// onboarding flows run before the user has credentials
	onboarding := v1.Group("/onboarding")
	onboarding.Use(middleware.OnboardingRateLimitMiddleware())
	{
		onboarding.POST("/flows", handler.StartOnboarding)
		onboarding.GET("/flows/:flow_id", handler.GetOnboardingFlow)
		onboarding.POST("/flows/:flow_id/persona", handler.SelectPersona)
		onboarding.POST("/flows/:flow_id/next", handler.NextStep)
		onboarding.POST("/flows/:flow_id/back", handler.PreviousStep)
		onboarding.PUT("/flows/:flow_id/registration", handler.UpdateRegistration)
		onboarding.POST("/flows/:flow_id/registration/submit", handler.SubmitRegistration)
		onboarding.POST("/flows/:flow_id/close", handler.CloseOnboarding)
		onboarding.POST("/flows/:flow_id/error/clear", handler.ClearOnboardingError)
	}

	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", handler.GetMe)
		users.PATCH("/me", handler.UpdateMe)
	}

	goals := v1.Group("/goals")
	goals.Use(middleware.AuthMiddleware())
	{
		goals.GET("", handler.ListGoals)
		goals.POST("", handler.CreateGoal)
		goals.POST("/:goal_id/progress", handler.RecordGoalProgress)
		goals.DELETE("/:goal_id", handler.DeleteGoal)
	}
}
