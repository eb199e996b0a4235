package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OfferStatus string

const (
	OfferOpen   OfferStatus = "open"
	OfferClosed OfferStatus = "closed"
)

type JobOffer struct {
	ID          uint  `gorm:"primaryKey"`
	BossID      *uint `gorm:"index"`
	Boss        *Boss
	Title       string              `gorm:"size:150;not null"`
	Description string              `gorm:"type:text"`
	Salary      decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	Location    string              `gorm:"size:100"`
	PublishDate time.Time           `gorm:"not null"`
	Status      OfferStatus         `gorm:"size:20;not null;default:open;check:status IN ('open','closed')"`

	Applications []Application `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE"`
}

// OwnedBy reports whether bossID posted the offer. Orphaned offers belong to nobody.
func (o *JobOffer) OwnedBy(bossID uint) bool {
	return o.BossID != nil && *o.BossID == bossID
}
