package models

import (
	"time"
)

// Role comes from the identity provider; it is read here, never assigned.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// IsModerator reports whether the role may approve, reject and moderate
// other users' content.
func (r Role) IsModerator() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Bio       string    `json:"bio,omitempty"`
	Role      Role      `gorm:"type:varchar(16);not null;default:'USER'" json:"role"`
}
