package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"MazalTov/internal/model"
)

func TestAllowTestSend(t *testing.T) {
	admin := &model.User{Role: model.UserRoleAdmin}
	member := &model.User{Role: model.UserRoleMember}

	assert.True(t, Allow(admin, ActionTestSend))
	assert.False(t, Allow(member, ActionTestSend))
	assert.False(t, Allow(nil, ActionTestSend))
}

func TestAllowUnknownAction(t *testing.T) {
	admin := &model.User{Role: model.UserRoleAdmin}
	assert.False(t, Allow(admin, Action("event:purge")))
}
