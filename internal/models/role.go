package models

import "time"

// Role is a named permission group. Roles flagged AssignByDefault are
// attached to every newly registered user.
type Role struct {
	ID              string `gorm:"primaryKey;type:varchar(36)"`
	Name            string `gorm:"uniqueIndex;not null"`
	Description     string
	AssignByDefault bool `gorm:"not null;default:false"`
	Protected       bool `gorm:"not null;default:false"` // system roles, not deletable from admin surfaces

	CreatedAt time.Time
	UpdatedAt time.Time
}
