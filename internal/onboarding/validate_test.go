package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validForm() RegistrationForm {
	return RegistrationForm{
		Name:            "Hanako Sato",
		Email:           "hanako@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}
}

func TestValidateRegistration_Valid(t *testing.T) {
	errs := ValidateRegistration(validForm())
	assert.Empty(t, errs)
}

func TestValidateRegistration_RequiredFields(t *testing.T) {
	errs := ValidateRegistration(RegistrationForm{})

	assert.Equal(t, "name is required", errs[FieldName])
	assert.Equal(t, "email is required", errs[FieldEmail])
	assert.Equal(t, "password is required", errs[FieldPassword])
	// empty password equals empty confirm, so no mismatch error
	assert.NotContains(t, errs, FieldConfirmPassword)
}

func TestValidateRegistration_EmailFormat(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"hanako@example.com", true},
		{"a@b.co", true},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"spaces in@example.com", false},
		{"@example.com", false},
	}

	for _, tc := range cases {
		form := validForm()
		form.Email = tc.email
		errs := ValidateRegistration(form)
		if tc.valid {
			assert.NotContains(t, errs, FieldEmail, tc.email)
		} else {
			assert.Equal(t, "invalid email format", errs[FieldEmail], tc.email)
		}
	}
}

func TestValidateRegistration_PasswordLength(t *testing.T) {
	form := validForm()
	form.Password = "short"
	form.ConfirmPassword = "short"

	errs := ValidateRegistration(form)
	assert.Equal(t, "password must be at least 8 characters", errs[FieldPassword])
}

func TestValidateRegistration_PasswordMismatch(t *testing.T) {
	form := validForm()
	form.ConfirmPassword = "password124"

	errs := ValidateRegistration(form)
	assert.Equal(t, "passwords do not match", errs[FieldConfirmPassword])
	assert.NotContains(t, errs, FieldPassword)
}

func TestValidateRegistration_WhitespaceOnlyName(t *testing.T) {
	form := validForm()
	form.Name = "   "

	errs := ValidateRegistration(form)
	assert.Equal(t, "name is required", errs[FieldName])
}
