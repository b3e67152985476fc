package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	p := NewPasswordManager(testConfig())

	hash, err := p.HashPassword("Gr8-Wishes!")
	require.NoError(t, err)

	assert.NoError(t, p.VerifyPassword("Gr8-Wishes!", hash))
	assert.Error(t, p.VerifyPassword("gr8-wishes!", hash))
}

func TestValidatePassword(t *testing.T) {
	p := NewPasswordManager(testConfig())

	tests := map[string]string{
		"Sh0rt!":        "at least 8 characters",
		"nouppercase1!": "uppercase",
		"NOLOWERCASE1!": "lowercase",
		"NoNumbers!!x":  "number",
		"NoSpecial1x":   "special",
		"Xyabcz9!":      "sequential letters",
		"Wq!1234x":      "sequential numbers",
		"Waaa9!xz":      "repeating",
		"MyPassword9!":  "too common",
	}
	for password, want := range tests {
		err := p.ValidatePassword(password)
		if assert.Error(t, err, password) {
			assert.Contains(t, err.Error(), want, password)
		}
	}

	assert.NoError(t, p.ValidatePassword("Gr8-Wishes!"))
}
