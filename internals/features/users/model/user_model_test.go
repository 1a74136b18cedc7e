// file: internals/features/users/model/user_model_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	u := &UserModel{}
	require.NoError(t, u.SetPassword("s3cret-pass"))
	assert.NotEqual(t, "s3cret-pass", u.UserPasswordHash, "password must never be stored in the clear")

	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.False(t, u.CheckPassword(""))
}

func TestCheckPasswordWithoutHash(t *testing.T) {
	u := &UserModel{}
	assert.False(t, u.CheckPassword("anything"))
}
