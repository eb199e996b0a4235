package models

type Employee struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"not null;uniqueIndex"`
	User       *User  `gorm:"constraint:OnDelete:CASCADE"`
	Name       string `gorm:"size:100;not null"`
	Skills     string `gorm:"type:text"`
	Experience string `gorm:"type:text"`
	Resume     string `gorm:"type:text"`

	Applications []Application `gorm:"constraint:OnDelete:CASCADE"`
}
