package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("user")
	assert.True(t, ok)
	assert.Equal(t, RoleSeeker, r)

	r, ok = ParseRole("owner")
	assert.True(t, ok)
	assert.Equal(t, RoleOwner, r)

	for _, bad := range []string{"", "admin", "USER", "Owner"} {
		_, ok := ParseRole(bad)
		assert.False(t, ok, "%q must not parse", bad)
	}
}
