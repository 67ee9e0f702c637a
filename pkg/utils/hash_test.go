package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hashed, err := HashPassword("hunter2!")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2!", hashed)

	assert.True(t, CheckPassword("hunter2!", hashed))
	assert.False(t, CheckPassword("hunter3!", hashed))
}
