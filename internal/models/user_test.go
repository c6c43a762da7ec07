package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityCanAccess(t *testing.T) {
	admin := Identity{Role: RoleAdmin}
	hod := Identity{Role: RoleHoD, College: "Gandhi", Department: "CSE"}

	assert.True(t, admin.CanAccess("Prakasam", "ECE"))
	assert.True(t, hod.CanAccess("Gandhi", "CSE"))
	assert.False(t, hod.CanAccess("Gandhi", "ECE"))
	assert.False(t, Identity{Role: "STUDENT"}.CanAccess("Gandhi", "CSE"))
}
