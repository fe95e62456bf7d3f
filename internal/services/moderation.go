package services

import (
	"campushub/internal/models"
)

// ResolveInitialStatus applies the publish-intent rule used on both
// create and edit:
//
//   - no publish intent        -> PRIVATE draft, regardless of role
//   - publish intent, moderator -> PUBLIC immediately
//   - publish intent, plain user -> PENDING, queued for review
func ResolveInitialStatus(role models.Role, publish bool) models.ArticleStatus {
	if !publish {
		return models.StatusPrivate
	}
	if role.IsModerator() {
		return models.StatusPublic
	}
	return models.StatusPending
}
