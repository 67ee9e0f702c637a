package groups

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teamsync/backend/internal/models"
)

func TestNewJoinCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := newJoinCode()
		assert.Len(t, code, 8)
		assert.Equal(t, strings.ToUpper(code), code)
		seen[code] = true
	}
	assert.Len(t, seen, 50)
}

func TestCanManage(t *testing.T) {
	assert.True(t, models.CanManage(models.GroupRoleOwner))
	assert.True(t, models.CanManage(models.GroupRoleLeader))
	assert.False(t, models.CanManage(models.GroupRoleMember))
	assert.False(t, models.CanManage(""))
}
