package application

import (
	"strings"
	"time"

	"jobmarket-backend/internal/apperror"
	"jobmarket-backend/internal/database"
	"jobmarket-backend/internal/models"
	"jobmarket-backend/internal/offer"

	"gorm.io/gorm"
)

// Review actions a boss can take on a pending application.
type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

// ParseAction accepts the English and Spanish form values.
func ParseAction(raw string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "accept", "aceptar":
		return ActionAccept, nil
	case "reject", "rechazar":
		return ActionReject, nil
	default:
		return "", apperror.Validation("Action must be accept or reject")
	}
}

// CanTransition is the whole state machine:
//
//	pending  -> accepted | rejected
//	accepted -> completed
func CanTransition(from, to models.ApplicationStatus) bool {
	switch from {
	case models.ApplicationPending:
		return to == models.ApplicationAccepted || to == models.ApplicationRejected
	case models.ApplicationAccepted:
		return to == models.ApplicationCompleted
	default:
		return false
	}
}

func transitionError(from, to models.ApplicationStatus) error {
	return apperror.InvalidTransition("Application cannot go from " + string(from) + " to " + string(to))
}

// setStatus moves one application from -> to. The update is conditional on
// the current status, so a concurrent change makes it fail instead of
// overwriting.
func setStatus(tx *gorm.DB, appID uint, from, to models.ApplicationStatus) error {
	if !CanTransition(from, to) {
		return transitionError(from, to)
	}
	res := tx.Model(&models.Application{}).
		Where("id = ? AND status = ?", appID, from).
		Update("status", to)
	if res.Error != nil {
		return apperror.Storage("Could not update application", res.Error)
	}
	if res.RowsAffected == 0 {
		return transitionError(from, to)
	}
	return nil
}

func find(tx *gorm.DB, appID uint) (*models.Application, error) {
	var app models.Application
	if err := tx.Preload("JobOffer.Boss").Preload("Employee").First(&app, appID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Storage("Could not load application", err)
	}
	return &app, nil
}

// Apply files a pending application of emp to offerID. The offer must be
// open and the pair must be new.
func Apply(tx *gorm.DB, emp *models.Employee, offerID uint) (*models.Application, error) {
	o, err := offer.Find(tx, offerID)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return nil, apperror.OfferUnavailable()
		}
		return nil, err
	}
	if o.Status != models.OfferOpen {
		return nil, apperror.OfferUnavailable()
	}

	var count int64
	if err := tx.Model(&models.Application{}).
		Where("employee_id = ? AND offer_id = ?", emp.ID, o.ID).
		Count(&count).Error; err != nil {
		return nil, apperror.Storage("Could not check applications", err)
	}
	if count > 0 {
		return nil, apperror.DuplicateApplication()
	}

	app := models.Application{
		EmployeeID:      emp.ID,
		OfferID:         o.ID,
		ApplicationDate: time.Now(),
		Status:          models.ApplicationPending,
	}
	if err := tx.Create(&app).Error; err != nil {
		// lost a race against the same worker's other request
		if database.IsDuplicate(err) {
			return nil, apperror.DuplicateApplication()
		}
		return nil, apperror.Storage("Could not create application", err)
	}
	app.JobOffer = o
	return &app, nil
}

// Review applies a boss decision. Accepting closes the offer in the same
// transaction; rejecting leaves it open for other candidates.
func Review(tx *gorm.DB, bossID, appID uint, action Action) (*models.Application, error) {
	app, err := find(tx, appID)
	if err != nil {
		return nil, err
	}
	if app.JobOffer == nil || !app.JobOffer.OwnedBy(bossID) {
		return nil, apperror.Forbidden("You do not own this offer")
	}

	switch action {
	case ActionAccept:
		if !CanTransition(app.Status, models.ApplicationAccepted) {
			return nil, transitionError(app.Status, models.ApplicationAccepted)
		}
		err = tx.Transaction(func(t *gorm.DB) error {
			res := t.Model(&models.JobOffer{}).
				Where("id = ? AND status = ?", app.OfferID, models.OfferOpen).
				Update("status", models.OfferClosed)
			if res.Error != nil {
				return apperror.Storage("Could not close offer", res.Error)
			}
			if res.RowsAffected == 0 {
				return apperror.OfferUnavailable()
			}
			return setStatus(t, app.ID, app.Status, models.ApplicationAccepted)
		})
		if err != nil {
			return nil, err
		}
		app.Status = models.ApplicationAccepted
		app.JobOffer.Status = models.OfferClosed

	case ActionReject:
		if err := setStatus(tx, app.ID, app.Status, models.ApplicationRejected); err != nil {
			return nil, err
		}
		app.Status = models.ApplicationRejected

	default:
		return nil, apperror.Validation("Action must be accept or reject")
	}

	return app, nil
}

// Complete lets the applicant close out accepted work.
func Complete(tx *gorm.DB, employeeID, appID uint) (*models.Application, error) {
	app, err := find(tx, appID)
	if err != nil {
		return nil, err
	}
	if app.EmployeeID != employeeID {
		return nil, apperror.Forbidden("This application is not yours")
	}
	if err := setStatus(tx, app.ID, app.Status, models.ApplicationCompleted); err != nil {
		return nil, err
	}
	app.Status = models.ApplicationCompleted
	return app, nil
}
