package offer

import (
	"encoding/json"
	"testing"
	"time"

	"jobmarket-backend/internal/apperror"
	"jobmarket-backend/internal/models"
	"jobmarket-backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSalary(t *testing.T) {
	got, err := ParseSalary("  ")
	require.NoError(t, err)
	assert.False(t, got.Valid)

	for raw, want := range map[string]string{
		"1500.50":      "1500.50",
		"1500,5":       "1500.50",
		"0":            "0.00",
		"19.999":       "20.00",
		" 42 ":         "42.00",
		"0.1":          "0.10",
		"99999999.99":  "99999999.99",
		"99999999.994": "99999999.99",
	} {
		got, err := ParseSalary(raw)
		require.NoError(t, err, raw)
		require.True(t, got.Valid, raw)
		assert.Equal(t, want, got.Decimal.StringFixed(2), raw)
	}

	for _, raw := range []string{"abc", "-1", "NaN", "Inf", "1.2.3", "100000000", "1e9", "99999999.995"} {
		_, err := ParseSalary(raw)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err), raw)
	}
}

func TestSalaryNumber(t *testing.T) {
	assert.Nil(t, SalaryNumber(decimal.NullDecimal{}))

	n := SalaryNumber(decimal.NewNullDecimal(decimal.RequireFromString("0.3")))
	require.NotNil(t, n)
	assert.Equal(t, json.Number("0.30"), *n)

	b, err := json.Marshal(struct {
		Salary *json.Number `json:"salary"`
	}{n})
	require.NoError(t, err)
	assert.JSONEq(t, `{"salary": 0.30}`, string(b))
}

func TestNextStatus(t *testing.T) {
	st, err := NextStatus(models.OfferOpen, "")
	require.NoError(t, err)
	assert.Equal(t, models.OfferOpen, st)

	st, err = NextStatus(models.OfferOpen, "Closed")
	require.NoError(t, err)
	assert.Equal(t, models.OfferClosed, st)

	st, err = NextStatus(models.OfferClosed, "closed")
	require.NoError(t, err)
	assert.Equal(t, models.OfferClosed, st)

	_, err = NextStatus(models.OfferClosed, "open")
	assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err))

	_, err = NextStatus(models.OfferOpen, "archived")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestSaveKeepsSalaryExact(t *testing.T) {
	db := testutil.NewDB(t)
	o := models.JobOffer{Title: "Pay", PublishDate: time.Now(), Status: models.OfferOpen}
	require.NoError(t, db.Create(&o).Error)

	salary, err := ParseSalary("1234.56")
	require.NoError(t, err)
	o.Salary = salary
	require.NoError(t, Save(db, &o, models.OfferOpen))

	var stored models.JobOffer
	require.NoError(t, db.First(&stored, o.ID).Error)
	require.True(t, stored.Salary.Valid)
	assert.True(t, stored.Salary.Decimal.Equal(decimal.RequireFromString("1234.56")))

	o.Salary = decimal.NullDecimal{}
	require.NoError(t, Save(db, &o, models.OfferOpen))
	require.NoError(t, db.First(&stored, o.ID).Error)
	assert.False(t, stored.Salary.Valid)
}

func TestSaveDoesNotReopenAnOfferClosedMeanwhile(t *testing.T) {
	db := testutil.NewDB(t)
	o := models.JobOffer{Title: "Draft", PublishDate: time.Now(), Status: models.OfferOpen}
	require.NoError(t, db.Create(&o).Error)

	// the editor loaded the offer while open, then an accept closed it
	loaded := o
	require.NoError(t, db.Model(&models.JobOffer{}).Where("id = ?", o.ID).Update("status", models.OfferClosed).Error)

	loaded.Description = "late edit"
	err := Save(db, &loaded, models.OfferOpen)
	assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err))

	var stored models.JobOffer
	require.NoError(t, db.First(&stored, o.ID).Error)
	assert.Equal(t, models.OfferClosed, stored.Status)
	assert.Empty(t, stored.Description)

	// editing the closed offer with its real status works and keeps it closed
	stored.Description = "after close"
	require.NoError(t, Save(db, &stored, models.OfferClosed))
	require.NoError(t, db.First(&stored, o.ID).Error)
	assert.Equal(t, models.OfferClosed, stored.Status)
	assert.Equal(t, "after close", stored.Description)
}
