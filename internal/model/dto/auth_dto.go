package dto

// ========== Auth DTOs ==========

// LoginRequest carries an email/password sign-in attempt.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthUserSnapshot is the user view returned alongside tokens.
type AuthUserSnapshot struct {
	ID        string `json:"id"`
	Persona   string `json:"persona"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsNewUser bool   `json:"is_new_user"`
}

// AuthSessionData is the token pair plus user snapshot returned by
// signup, login and token refresh.
type AuthSessionData struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresIn    int              `json:"expires_in"`
	User         AuthUserSnapshot `json:"user"`
}

// SessionData is the bootstrap result: the current user or nothing.
// Error carries the soft-failure string when the profile row is missing.
type SessionData struct {
	User  *AuthUserSnapshot `json:"user"`
	Error string            `json:"error,omitempty"`
}
