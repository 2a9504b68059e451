package dto

// UserProfileData is the /users/me view.
type UserProfileData struct {
	ID      string `json:"id"`
	Persona string `json:"persona"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}
