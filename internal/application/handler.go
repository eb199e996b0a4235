package application

import (
	"encoding/json"
	"strconv"
	"strings"

	"jobmarket-backend/internal/apperror"
	"jobmarket-backend/internal/audit"
	"jobmarket-backend/internal/auth"
	"jobmarket-backend/internal/binding"
	"jobmarket-backend/internal/models"
	"jobmarket-backend/internal/offer"
	"jobmarket-backend/internal/profile"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type ApplyRequest struct {
	ProyectoID binding.Scalar `json:"proyecto_id" form:"proyecto_id"`
}

type ReviewRequest struct {
	AppID  binding.Scalar `json:"app_id" form:"app_id"`
	Accion string         `json:"accion" form:"accion"`
}

type ApplicationIDRequest struct {
	ID binding.Scalar `json:"id" form:"id"`
}

type ApplicationResponse struct {
	ID              uint                     `json:"id"`
	EmployeeID      uint                     `json:"employee_id"`
	OfferID         uint                     `json:"offer_id"`
	ApplicationDate string                   `json:"application_date"`
	Status          models.ApplicationStatus `json:"status"`
}

type MutationResponse struct {
	Application ApplicationResponse `json:"application"`
	OfferStatus models.OfferStatus  `json:"offer_status,omitempty"`
	Notice      string              `json:"notice"`
}

// WorkItem is one application as the worker sees it.
type WorkItem struct {
	ID          uint                     `json:"id"`
	OfferID     uint                     `json:"offer_id"`
	Title       string                   `json:"title"`
	Client      string                   `json:"client"`
	Description string                   `json:"description"`
	PublishDate string                   `json:"publish_date"`
	Pay         *json.Number             `json:"pay"`
	Status      models.ApplicationStatus `json:"status"`
}

// ReceivedItem is one application as the offer's boss sees it.
type ReceivedItem struct {
	ID      uint                     `json:"id"`
	OfferID uint                     `json:"offer_id"`
	Project string                   `json:"project"`
	Worker  string                   `json:"worker"`
	Status  models.ApplicationStatus `json:"status"`
	Date    string                   `json:"date"`
}

type ApplicationsResponse struct {
	IsBoss       bool           `json:"is_boss"`
	Applications []WorkItem     `json:"applications,omitempty"`
	Received     []ReceivedItem `json:"received,omitempty"`
}

type PendingWorkResponse struct {
	Pending   []WorkItem `json:"pending"`
	Completed []WorkItem `json:"completed"`
}

func toResponse(a *models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		OfferID:         a.OfferID,
		ApplicationDate: a.ApplicationDate.Format(dateLayout),
		Status:          a.Status,
	}
}

func toWorkItem(a *models.Application) WorkItem {
	item := WorkItem{ID: a.ID, OfferID: a.OfferID, Title: "N/A", Client: "N/A", PublishDate: "N/A", Status: a.Status}
	if o := a.JobOffer; o != nil {
		item.Title = o.Title
		item.Description = o.Description
		item.PublishDate = o.PublishDate.Format(dateLayout)
		item.Pay = offer.SalaryNumber(o.Salary)
		if o.Boss != nil {
			item.Client = o.Boss.Name
		}
	}
	return item
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ----------------------------------------
// /solicitudes
// ----------------------------------------

// GET /solicitudes: a worker sees what they applied to, a boss sees what
// their offers received.
func ListApplicationsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		role, _ := auth.CurrentRole(c)
		tx := db.WithContext(c.UserContext())

		if role == models.RoleBoss {
			boss, err := profile.BossForUser(tx, userID)
			if err != nil {
				return err
			}

			var apps []models.Application
			err = tx.Preload("Employee").Preload("JobOffer").
				Where("offer_id IN (?)", tx.Model(&models.JobOffer{}).Select("id").Where("boss_id = ?", boss.ID)).
				Order("application_date DESC").Order("id DESC").
				Find(&apps).Error
			if err != nil {
				return apperror.Storage("Could not list applications", err)
			}

			received := make([]ReceivedItem, 0, len(apps))
			for _, a := range apps {
				item := ReceivedItem{ID: a.ID, OfferID: a.OfferID, Worker: "N/A", Status: a.Status, Date: a.ApplicationDate.Format(dateLayout)}
				if a.JobOffer != nil {
					item.Project = a.JobOffer.Title
				}
				if a.Employee != nil {
					item.Worker = a.Employee.Name
				}
				received = append(received, item)
			}
			return c.JSON(ApplicationsResponse{IsBoss: true, Received: received})
		}

		emp, err := profile.EmployeeForUser(tx, userID)
		if err != nil {
			return err
		}

		var apps []models.Application
		if err := tx.Preload("JobOffer.Boss").Where("employee_id = ?", emp.ID).Order("application_date DESC").Order("id DESC").Find(&apps).Error; err != nil {
			return apperror.Storage("Could not list applications", err)
		}

		items := make([]WorkItem, 0, len(apps))
		for i := range apps {
			items = append(items, toWorkItem(&apps[i]))
		}
		return c.JSON(ApplicationsResponse{Applications: items})
	}
}

// POST /solicitudes: a worker applies to an open offer.
func ApplyHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		role, _ := auth.CurrentRole(c)
		tx := db.WithContext(c.UserContext())

		var body ApplyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(body.ProyectoID.String()) == "" {
			return apperror.Validation("proyecto_id is required")
		}
		if role != models.RoleWorker {
			return apperror.Forbidden("Only workers can apply")
		}

		offerID, ok := parseID(body.ProyectoID.String())
		if !ok {
			return apperror.OfferUnavailable()
		}

		emp, err := profile.EmployeeForUser(tx, userID)
		if err != nil {
			return err
		}

		app, err := Apply(tx, emp, offerID)
		if err != nil {
			return err
		}

		audit.Record(tx, audit.LogOptions{
			UserID:      userID,
			UserName:    emp.Name,
			EntityType:  "application",
			EntityID:    app.ID,
			Action:      models.AuditActionCreate,
			Description: "Applied to offer: " + app.JobOffer.Title,
			After:       toResponse(app),
		})

		return c.Status(fiber.StatusCreated).JSON(MutationResponse{
			Application: toResponse(app),
			Notice:      "Application sent.",
		})
	}
}

// ----------------------------------------
// REVIEW / COMPLETE
// ----------------------------------------

// POST /gestionar_solicitud
func ReviewApplicationHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		tx := db.WithContext(c.UserContext())

		var body ReviewRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		appID, ok := parseID(body.AppID.String())
		if !ok {
			return apperror.NotFound("Application not found")
		}
		action, err := ParseAction(body.Accion)
		if err != nil {
			return err
		}

		boss, err := profile.BossForUser(tx, userID)
		if err != nil {
			return err
		}

		app, err := Review(tx, boss.ID, appID, action)
		if err != nil {
			return err
		}

		notice := "Candidate rejected."
		if action == ActionAccept {
			notice = "Candidate accepted. The job now shows up in their pending work."
		}

		audit.Record(tx, audit.LogOptions{
			UserID:      userID,
			UserName:    boss.Name,
			EntityType:  "application",
			EntityID:    app.ID,
			Action:      models.AuditActionStatus,
			Description: "Application " + string(app.Status) + " for offer: " + app.JobOffer.Title,
			Before:      map[string]models.ApplicationStatus{"status": models.ApplicationPending},
			After:       toResponse(app),
		})

		return c.JSON(MutationResponse{
			Application: toResponse(app),
			OfferStatus: app.JobOffer.Status,
			Notice:      notice,
		})
	}
}

// POST /marcar_completado
func CompleteApplicationHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		tx := db.WithContext(c.UserContext())

		var body ApplicationIDRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		appID, ok := parseID(body.ID.String())
		if !ok {
			return apperror.NotFound("Application not found")
		}

		emp, err := profile.EmployeeForUser(tx, userID)
		if err != nil {
			return err
		}

		app, err := Complete(tx, emp.ID, appID)
		if err != nil {
			return err
		}

		audit.Record(tx, audit.LogOptions{
			UserID:      userID,
			UserName:    emp.Name,
			EntityType:  "application",
			EntityID:    app.ID,
			Action:      models.AuditActionStatus,
			Description: "Work marked as completed",
			Before:      map[string]models.ApplicationStatus{"status": models.ApplicationAccepted},
			After:       toResponse(app),
		})

		return c.JSON(MutationResponse{
			Application: toResponse(app),
			Notice:      "Work marked as completed.",
		})
	}
}

// ----------------------------------------
// PENDING WORK
// ----------------------------------------

// GET /trabajospendientes
func PendingWorkHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		tx := db.WithContext(c.UserContext())

		emp, err := profile.EmployeeForUser(tx, userID)
		if err != nil {
			return err
		}

		var apps []models.Application
		err = tx.Preload("JobOffer.Boss").
			Where("employee_id = ? AND status IN ?", emp.ID, []models.ApplicationStatus{models.ApplicationAccepted, models.ApplicationCompleted}).
			Order("application_date DESC").Order("id DESC").
			Find(&apps).Error
		if err != nil {
			return apperror.Storage("Could not list work", err)
		}

		res := PendingWorkResponse{Pending: []WorkItem{}, Completed: []WorkItem{}}
		for i := range apps {
			item := toWorkItem(&apps[i])
			switch apps[i].Status {
			case models.ApplicationAccepted:
				res.Pending = append(res.Pending, item)
			case models.ApplicationCompleted:
				res.Completed = append(res.Completed, item)
			}
		}
		return c.JSON(res)
	}
}

// POST /ver_trabajopendiente: visible to the applicant and to the boss who
// owns the offer.
func WorkDetailHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		role, _ := auth.CurrentRole(c)
		tx := db.WithContext(c.UserContext())

		var body ApplicationIDRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		appID, ok := parseID(body.ID.String())
		if !ok {
			return apperror.NotFound("Application not found")
		}

		app, err := find(tx, appID)
		if err != nil {
			return err
		}

		switch role {
		case models.RoleWorker:
			emp, err := profile.EmployeeForUser(tx, userID)
			if err != nil {
				return err
			}
			if app.EmployeeID != emp.ID {
				return apperror.Forbidden("This application is not yours")
			}
		case models.RoleBoss:
			boss, err := profile.BossForUser(tx, userID)
			if err != nil {
				return err
			}
			if app.JobOffer == nil || !app.JobOffer.OwnedBy(boss.ID) {
				return apperror.Forbidden("You do not own this offer")
			}
		default:
			return apperror.Forbidden("Access denied")
		}

		return c.JSON(toWorkItem(app))
	}
}
