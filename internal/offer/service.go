package offer

import (
	"encoding/json"
	"strings"

	"jobmarket-backend/internal/apperror"
	"jobmarket-backend/internal/database"
	"jobmarket-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxSalary is the first value numeric(10,2) cannot hold.
var maxSalary = decimal.New(1, 8)

// ParseSalary turns the optional budget field into a salary. Empty means no
// salary; anything else must be a non-negative amount below 100,000,000 and
// is rounded to cents.
func ParseSalary(raw string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil || v.IsNegative() {
		return decimal.NullDecimal{}, apperror.Validation("Budget must be a positive number")
	}
	v = v.Round(2)
	if v.GreaterThanOrEqual(maxSalary) {
		return decimal.NullDecimal{}, apperror.Validation("Budget must be below 100,000,000")
	}
	return decimal.NewNullDecimal(v), nil
}

// SalaryNumber renders a stored salary as an exact JSON number with two
// decimals, or nil when the offer has none.
func SalaryNumber(s decimal.NullDecimal) *json.Number {
	if !s.Valid {
		return nil
	}
	n := json.Number(s.Decimal.StringFixed(2))
	return &n
}

// Find loads an offer by id.
func Find(tx *gorm.DB, offerID uint) (*models.JobOffer, error) {
	var o models.JobOffer
	if err := tx.First(&o, offerID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound("Offer not found")
		}
		return nil, apperror.Storage("Could not load offer", err)
	}
	return &o, nil
}

// FindOwned loads an offer and checks that bossID posted it.
func FindOwned(tx *gorm.DB, bossID, offerID uint) (*models.JobOffer, error) {
	o, err := Find(tx, offerID)
	if err != nil {
		return nil, err
	}
	if !o.OwnedBy(bossID) {
		return nil, apperror.Forbidden("You do not own this offer")
	}
	return o, nil
}

// NextStatus validates an offer status change. Offers only ever close.
func NextStatus(current models.OfferStatus, requested string) (models.OfferStatus, error) {
	switch models.OfferStatus(strings.ToLower(strings.TrimSpace(requested))) {
	case "":
		return current, nil
	case models.OfferClosed:
		return models.OfferClosed, nil
	case models.OfferOpen:
		if current == models.OfferClosed {
			return current, apperror.InvalidTransition("A closed offer cannot be reopened")
		}
		return models.OfferOpen, nil
	default:
		return current, apperror.Validation("Status must be open or closed")
	}
}

// Save writes the editable fields of o. The write only lands while the
// stored status is still from, so an accept that closed the offer in the
// meantime is never undone. status is written only when it changes.
func Save(tx *gorm.DB, o *models.JobOffer, from models.OfferStatus) error {
	fields := map[string]interface{}{
		"title":       o.Title,
		"description": o.Description,
		"location":    o.Location,
		"salary":      o.Salary,
	}
	if o.Status != from {
		fields["status"] = o.Status
	}

	res := tx.Model(&models.JobOffer{}).
		Where("id = ? AND status = ?", o.ID, from).
		Updates(fields)
	if res.Error != nil {
		return apperror.Storage("Could not update offer", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.InvalidTransition("The offer changed status while it was being edited, reload it and try again")
	}
	return nil
}

// applicationCounts returns the number of applications per offer id.
func applicationCounts(tx *gorm.DB, offerIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(offerIDs))
	if len(offerIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		OfferID uint
		Total   int64
	}
	err := tx.Model(&models.Application{}).
		Select("offer_id, COUNT(*) AS total").
		Where("offer_id IN ?", offerIDs).
		Group("offer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.OfferID] = r.Total
	}
	return counts, nil
}
