package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"hanako@example.com",
		"a@b.co",
		"first.last+tag@sub.example.org",
	}
	for _, email := range valid {
		assert.True(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"no-at-sign",
		"missing@tld",
		"two@@example.com",
		"spaces in@example.com",
		"@example.com",
		"user@",
	}
	for _, email := range invalid {
		assert.False(t, ValidateEmail(email), email)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "hanako@example.com", NormalizeEmail("  Hanako@Example.COM "))
	assert.Equal(t, "a@b.co", NormalizeEmail("a@b.co"))
}
