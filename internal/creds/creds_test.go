package creds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidUsername(t *testing.T) {
	assert.False(t, ValidUsername(""))
	assert.False(t, ValidUsername("   "))
	assert.True(t, ValidUsername("bunny_watcher"))
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"", false},
		{"plainaddress", false},
		{"@no-local.org", false},
		{"no-domain@", false},
		{"spaces in@local.org", false},
		{"user@example.com", true},
		{"User.Name+tag@Example.CO.UK", true},
		{"first.last@sub.domain-name.io", true},
		{"trailing.dot@domain.", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidEmail(tt.email), "email %q", tt.email)
	}
}

func TestValidPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"short", false},
		{"nouppercase1!", false},
		{"NoSpecial1", false},
		{"NoDigits!!", false},
		{"Valid1!pass", true},
		{"Another$Good2", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPassword(tt.password), "password %q", tt.password)
	}
}

func TestHashVerifyRoundTrip(t *testing.T) {
	digest, err := HashSecret("Valid1!pass")
	require.NoError(t, err)
	require.NotEqual(t, "Valid1!pass", digest)

	assert.True(t, VerifySecret("Valid1!pass", digest))
	assert.False(t, VerifySecret("Valid1!nope", digest))
}

func TestHashIsSalted(t *testing.T) {
	first, err := HashSecret("same secret")
	require.NoError(t, err)
	second, err := HashSecret("same secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, VerifySecret("same secret", first))
	assert.True(t, VerifySecret("same secret", second))
}
