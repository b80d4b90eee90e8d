package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/qa-dashboard-api/internal/models"
)

func TestAccessPolicyAllowlist(t *testing.T) {
	policy := NewAccessPolicy([]string{"adminjr@admin.com", " AdminBarb@admin.com "}, nil)

	assert.True(t, policy.Allowed("adminjr@admin.com"))
	assert.True(t, policy.Allowed("adminbarb@ADMIN.com"))
	assert.False(t, policy.Allowed("someone@example.com"))

	open := NewAccessPolicy(nil, nil)
	assert.True(t, open.Allowed("someone@example.com"))
}

func TestCanMutate(t *testing.T) {
	policy := NewAccessPolicy(nil, []string{"lead@example.com"})
	record := models.QaRecord{CreatedBy: "owner@example.com"}

	assert.True(t, policy.CanMutate(models.Identity{Email: "owner@example.com"}, record))
	assert.True(t, policy.CanMutate(models.Identity{Email: "Owner@Example.com"}, record))
	assert.True(t, policy.CanMutate(models.Identity{Email: "lead@example.com"}, record))
	assert.False(t, policy.CanMutate(models.Identity{Email: "other@example.com"}, record))
	assert.False(t, policy.CanMutate(models.Identity{Email: ""}, models.QaRecord{}))
}
