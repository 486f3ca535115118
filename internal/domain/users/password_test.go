package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPasswordStrong(t *testing.T) {
	assert.False(t, IsPasswordStrong("short1"))
	assert.False(t, IsPasswordStrong("onlyletters"))
	assert.False(t, IsPasswordStrong("1234567890"))
	assert.True(t, IsPasswordStrong("letters4nd"))
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)
	u := User{ID: 1, PasswordHash: &hash}

	assert.NoError(t, CheckPassword(u, "s3cretpass"))
	assert.ErrorIs(t, CheckPassword(u, "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, CheckPassword(User{ID: 2}, "anything"), ErrNoPassword)
}
