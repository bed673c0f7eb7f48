package models

import "time"

// Membership roles. A user holds at most one membership per project, and each
// project has exactly one owner-role membership.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Membership represents a user's membership and role within a project.
// Removal deletes the row outright: a soft-deleted row would keep occupying
// the unique index and block the user from ever being re-added.
type Membership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      string    `gorm:"size:50;default:member" json:"role"` // owner, member
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Membership) TableName() string { return "memberships" }
