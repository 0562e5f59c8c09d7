package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_HashesPassword(t *testing.T) {
	user, err := CreateUser("Jamie", "jamie@example.com", "long-enough-password")
	require.NoError(t, err)

	assert.NotEqual(t, "long-enough-password", user.Password)
	assert.True(t, user.CheckPassword("long-enough-password"))
	assert.False(t, user.CheckPassword("something else"))
	assert.Equal(t, RoleIndividualUser, user.Role)
}

func TestCreateUser_RejectsShortPassword(t *testing.T) {
	_, err := CreateUser("Jamie", "jamie@example.com", "short")
	assert.Error(t, err)
}

func TestCreateUser_RejectsBadEmail(t *testing.T) {
	_, err := CreateUser("Jamie", "not-an-email", "long-enough-password")
	assert.Error(t, err)
}

func TestSetPassword(t *testing.T) {
	user := &User{}
	require.NoError(t, user.SetPassword("another-password"))
	assert.True(t, user.CheckPassword("another-password"))
}
