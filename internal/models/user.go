package models

import "time"

type UserRole string

const (
	RoleBoss   UserRole = "boss"
	RoleWorker UserRole = "employee"
)

func (r UserRole) Valid() bool {
	return r == RoleBoss || r == RoleWorker
}

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:150;uniqueIndex;not null"`
	PasswordHash string   `gorm:"type:text;not null"`
	Role         UserRole `gorm:"size:20;not null;<-:create"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Profile rows go away with the user.
	Employee *Employee `gorm:"constraint:OnDelete:CASCADE"`
	Boss     *Boss     `gorm:"constraint:OnDelete:CASCADE"`
}
