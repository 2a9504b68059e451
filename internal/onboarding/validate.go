package onboarding

import (
	"strings"

	"ikigai/utils"
)

// RegistrationForm is the raw registration step input. ConfirmPassword is
// validated against Password and then discarded; it never reaches the draft.
type RegistrationForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// RegistrationDraft is the transient tuple handed to the completion
// callback. It exists only for the lifetime of the flow.
type RegistrationDraft struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// ValidateRegistration checks the form synchronously and returns a
// field-to-message mapping. An empty map means the form may proceed.
func ValidateRegistration(form RegistrationForm) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(form.Name) == "" {
		errs[FieldName] = "name is required"
	}

	if strings.TrimSpace(form.Email) == "" {
		errs[FieldEmail] = "email is required"
	} else if !utils.ValidateEmail(form.Email) {
		errs[FieldEmail] = "invalid email format"
	}

	if form.Password == "" {
		errs[FieldPassword] = "password is required"
	} else if len(form.Password) < 8 {
		errs[FieldPassword] = "password must be at least 8 characters"
	}

	if form.Password != form.ConfirmPassword {
		errs[FieldConfirmPassword] = "passwords do not match"
	}

	return errs
}
