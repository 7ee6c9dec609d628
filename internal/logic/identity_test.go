package logic

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUsername(t *testing.T) {
	for i := 0; i < 100; i++ {
		name := generateUsername()
		require.True(t, strings.HasPrefix(name, "user"), name)
		n, err := strconv.Atoi(strings.TrimPrefix(name, "user"))
		require.Nil(t, err)
		assert.True(t, n >= 0 && n <= 255, name)
	}
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		password, err := generatePassword()
		require.Nil(t, err)
		assert.Regexp(t, `^[a-zA-Z]{8}$`, password)
		seen[password] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestNewSession(t *testing.T) {
	session, err := newSession("checker", 8080)
	require.Nil(t, err)
	assert.Equal(t, "checker", session.Username)
	assert.Equal(t, 8080, session.DataPort)
	assert.Len(t, session.Password, 8)

	session, err = newSession("", 8080)
	require.Nil(t, err)
	assert.True(t, strings.HasPrefix(session.Username, "user"))
}
