package models

type Boss struct {
	ID      uint   `gorm:"primaryKey"`
	UserID  uint   `gorm:"not null;uniqueIndex"`
	User    *User  `gorm:"constraint:OnDelete:CASCADE"`
	Name    string `gorm:"size:100;not null"`
	Contact string `gorm:"size:50"`
	Phone   string `gorm:"size:20"`
	Address string `gorm:"size:200"`

	// Offers outlive a deleted boss with a NULL owner.
	JobOffers []JobOffer `gorm:"constraint:OnDelete:SET NULL"`
}
