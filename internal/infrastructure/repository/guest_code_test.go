package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGuestCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateGuestCode()
		require.NoError(t, err)
		assert.Regexp(t, `^VIS-[0-9A-Z]{6}$`, code)
	}
}

func TestGenerateGuestCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := generateGuestCode()
		require.NoError(t, err)
		seen[code] = true
	}
	// 100 draws from a 36^6 space should essentially never collide.
	assert.Greater(t, len(seen), 95)
}
