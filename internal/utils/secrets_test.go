package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureRandomString(t *testing.T) {
	a, err := GenerateSecureRandomString(16)
	require.NoError(t, err)
	b, err := GenerateSecureRandomString(16)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)

	_, err = GenerateSecureRandomString(0)
	assert.Error(t, err)
}

func TestHashSecret(t *testing.T) {
	hash, err := HashSecret("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckSecretHash("s3cret", hash))
	assert.False(t, CheckSecretHash("other", hash))
}
