package services

import (
	"testing"

	"campushub/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveInitialStatus(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		publish bool
		want    models.ArticleStatus
	}{
		{"user keeping a draft", models.RoleUser, false, models.StatusPrivate},
		{"admin keeping a draft", models.RoleAdmin, false, models.StatusPrivate},
		{"super admin keeping a draft", models.RoleSuperAdmin, false, models.StatusPrivate},
		{"user publishing goes to review", models.RoleUser, true, models.StatusPending},
		{"admin publishes directly", models.RoleAdmin, true, models.StatusPublic},
		{"super admin publishes directly", models.RoleSuperAdmin, true, models.StatusPublic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveInitialStatus(tt.role, tt.publish))
		})
	}
}
