package model

// Persona is the user role that decides the onboarding chain and which
// navigation surface the client shows after login.
type Persona string

const (
	PersonaElder     Persona = "elder"
	PersonaVolunteer Persona = "volunteer"
)

// ValidPersona reports whether p is one of the two supported roles.
func ValidPersona(p Persona) bool {
	return p == PersonaElder || p == PersonaVolunteer
}

// AuthUser is the credential record owned by the auth side of the service.
// PublicID is the opaque string identity handed to clients and used to key
// the profile row.
type AuthUser struct {
	BaseModel
	PublicID     string  `gorm:"uniqueIndex;type:varchar(32);not null" json:"public_id"`
	Email        string  `gorm:"uniqueIndex;type:varchar(255);not null" json:"email"`
	PasswordHash string  `gorm:"type:varchar(128);not null" json:"-"`
	Name         string  `gorm:"type:varchar(128);not null;default:''" json:"name"`
	Persona      Persona `gorm:"type:varchar(16);not null" json:"persona"`
}

func (AuthUser) TableName() string {
	return "auth_users"
}

// Profile is the display record keyed by the auth user's public id.
// Kept as a separate table mirroring the auth/profile split of the
// upstream service contract: an authenticated user without a profile
// row is a legal (if inconsistent) state.
type Profile struct {
	BaseModel
	UserID  string  `gorm:"uniqueIndex;type:varchar(32);not null" json:"user_id"`
	Persona Persona `gorm:"type:varchar(16);not null;index:idx_profiles_persona" json:"persona"`
	Name    string  `gorm:"type:varchar(128);not null;default:''" json:"name"`
	Email   string  `gorm:"type:varchar(255);not null" json:"email"`
}

func (Profile) TableName() string {
	return "profiles"
}

// User is the in-memory identity published by the session bootstrap and
// persisted across restarts. Never mutated by the onboarding flow itself.
type User struct {
	ID    string  `json:"id"`
	Type  Persona `json:"type"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
}
