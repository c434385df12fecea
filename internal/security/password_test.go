package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher()

	stored, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, stored)
	assert.NotEqual(t, "correct horse battery staple", stored)

	assert.True(t, hasher.Verify("correct horse battery staple", stored))
}

func TestVerifyWrongPassword(t *testing.T) {
	hasher := NewPasswordHasher()

	stored, err := hasher.Hash("secret123")
	require.NoError(t, err)

	assert.False(t, hasher.Verify("secret124", stored))
	assert.False(t, hasher.Verify("", stored))
}

func TestVerifyMalformedStoredForm(t *testing.T) {
	hasher := NewPasswordHasher()

	assert.False(t, hasher.Verify("secret123", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Verify("secret123", ""))
}

func TestHashesAreSalted(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("secret123")
	require.NoError(t, err)
	second, err := hasher.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("secret123", first))
	assert.True(t, hasher.Verify("secret123", second))
}
