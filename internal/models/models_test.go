package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRoleValid(t *testing.T) {
	assert.True(t, RoleBoss.Valid())
	assert.True(t, RoleWorker.Valid())
	assert.False(t, UserRole("").Valid())
	assert.False(t, UserRole("admin").Valid())
}

func TestJobOfferOwnedBy(t *testing.T) {
	id := uint(3)
	assert.True(t, (&JobOffer{BossID: &id}).OwnedBy(3))
	assert.False(t, (&JobOffer{BossID: &id}).OwnedBy(4))
	assert.False(t, (&JobOffer{}).OwnedBy(0))
}
