package offer

import (
	"encoding/json"
	"strings"
	"time"

	"jobmarket-backend/internal/apperror"
	"jobmarket-backend/internal/audit"
	"jobmarket-backend/internal/auth"
	"jobmarket-backend/internal/binding"
	"jobmarket-backend/internal/models"
	"jobmarket-backend/internal/profile"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type CreateOfferRequest struct {
	Titulo      string         `json:"titulo" form:"titulo"`
	Descripcion string         `json:"descripcion" form:"descripcion"`
	Ubicacion   string         `json:"ubicacion" form:"ubicacion"`
	Presupuesto binding.Scalar `json:"presupuesto" form:"presupuesto"`
}

// Nil fields are left untouched. An empty presupuesto clears the salary.
type UpdateOfferRequest struct {
	Titulo      *string         `json:"titulo" form:"titulo"`
	Descripcion *string         `json:"descripcion" form:"descripcion"`
	Ubicacion   *string         `json:"ubicacion" form:"ubicacion"`
	Presupuesto *binding.Scalar `json:"presupuesto" form:"presupuesto"`
	Estado      string          `json:"estado" form:"estado"`
}

type OfferResponse struct {
	ID          uint               `json:"id"`
	BossID      *uint              `json:"boss_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Salary      *json.Number       `json:"salary"`
	Location    string             `json:"location"`
	PublishDate string             `json:"publish_date"`
	Status      models.OfferStatus `json:"status"`
}

type OfferFormResponse struct {
	Offer  *OfferResponse `json:"offer"`
	Notice *auth.Flash    `json:"notice,omitempty"`
}

type BossOfferItem struct {
	OfferResponse
	ApplicationCount int64 `json:"application_count"`
}

type OpenOfferItem struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Salary      *json.Number `json:"salary"`
	PublishDate string       `json:"publish_date"`
	BossName    string       `json:"boss_name"`
}

type OfferApplicationItem struct {
	ID         uint                     `json:"id"`
	EmployeeID uint                     `json:"employee_id"`
	Worker     string                   `json:"worker"`
	Status     models.ApplicationStatus `json:"status"`
	Date       string                   `json:"date"`
}

type OfferDetailResponse struct {
	Offer        OfferResponse          `json:"offer"`
	Applications []OfferApplicationItem `json:"applications"`
}

type MutationResponse struct {
	Offer  *OfferResponse `json:"offer,omitempty"`
	Notice string         `json:"notice"`
}

func ToResponse(o *models.JobOffer) OfferResponse {
	return OfferResponse{
		ID:          o.ID,
		BossID:      o.BossID,
		Title:       o.Title,
		Description: o.Description,
		Salary:      SalaryNumber(o.Salary),
		Location:    o.Location,
		PublishDate: o.PublishDate.Format(dateLayout),
		Status:      o.Status,
	}
}

func offerIDParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperror.NotFound("Offer not found")
	}
	return uint(id), nil
}

// ----------------------------------------
// CREATE
// ----------------------------------------

func NewOfferFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(OfferFormResponse{Notice: auth.PopFlash(c)})
	}
}

func CreateOfferHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		tx := db.WithContext(c.UserContext())

		var body CreateOfferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		title := strings.TrimSpace(body.Titulo)
		if title == "" {
			return apperror.Validation("Title is required")
		}
		salary, err := ParseSalary(body.Presupuesto.String())
		if err != nil {
			return err
		}

		boss, err := profile.BossForUser(tx, userID)
		if err != nil {
			return err
		}

		o := models.JobOffer{
			BossID:      &boss.ID,
			Title:       title,
			Description: strings.TrimSpace(body.Descripcion),
			Salary:      salary,
			Location:    strings.TrimSpace(body.Ubicacion),
			PublishDate: time.Now(),
			Status:      models.OfferOpen,
		}
		if err := tx.Create(&o).Error; err != nil {
			return apperror.Storage("Could not create offer", err)
		}

		res := ToResponse(&o)
		audit.Record(tx, audit.LogOptions{
			UserID:      userID,
			UserName:    boss.Name,
			EntityType:  "job_offer",
			EntityID:    o.ID,
			Action:      models.AuditActionCreate,
			Description: "Offer created: " + o.Title,
			After:       res,
		})

		return c.Status(fiber.StatusCreated).JSON(MutationResponse{Offer: &res, Notice: "Offer created."})
	}
}

// ----------------------------------------
// LISTS
// ----------------------------------------

// GET /proyectob
func ListBossOffersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		tx := db.WithContext(c.UserContext())

		boss, err := profile.BossForUser(tx, userID)
		if err != nil {
			return err
		}

		var offers []models.JobOffer
		if err := tx.Where("boss_id = ?", boss.ID).Order("publish_date DESC").Order("id DESC").Find(&offers).Error; err != nil {
			return apperror.Storage("Could not list offers", err)
		}

		ids := make([]uint, 0, len(offers))
		for _, o := range offers {
			ids = append(ids, o.ID)
		}
		counts, err := applicationCounts(tx, ids)
		if err != nil {
			return apperror.Storage("Could not count applications", err)
		}

		res := make([]BossOfferItem, 0, len(offers))
		for i := range offers {
			res = append(res, BossOfferItem{
				OfferResponse:    ToResponse(&offers[i]),
				ApplicationCount: counts[offers[i].ID],
			})
		}
		return c.JSON(res)
	}
}

// GET /proyectow
func ListOpenOffersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var offers []models.JobOffer
		err := db.WithContext(c.UserContext()).
			Preload("Boss").
			Where("status = ?", models.OfferOpen).
			Order("publish_date DESC").Order("id DESC").
			Find(&offers).Error
		if err != nil {
			return apperror.Storage("Could not list offers", err)
		}

		res := make([]OpenOfferItem, 0, len(offers))
		for _, o := range offers {
			item := OpenOfferItem{
				ID:          o.ID,
				Title:       o.Title,
				Description: o.Description,
				Location:    o.Location,
				Salary:      SalaryNumber(o.Salary),
				PublishDate: o.PublishDate.Format(dateLayout),
			}
			if o.Boss != nil {
				item.BossName = o.Boss.Name
			}
			res = append(res, item)
		}
		return c.JSON(res)
	}
}

// GET /detallesolicitud/:id
func OfferDetailHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		tx := db.WithContext(c.UserContext())

		offerID, err := offerIDParam(c)
		if err != nil {
			return err
		}
		boss, err := profile.BossForUser(tx, userID)
		if err != nil {
			return err
		}
		o, err := FindOwned(tx, boss.ID, offerID)
		if err != nil {
			return err
		}

		var apps []models.Application
		if err := tx.Preload("Employee").Where("offer_id = ?", o.ID).Order("application_date ASC").Find(&apps).Error; err != nil {
			return apperror.Storage("Could not list applications", err)
		}

		items := make([]OfferApplicationItem, 0, len(apps))
		for _, a := range apps {
			worker := "N/A"
			if a.Employee != nil {
				worker = a.Employee.Name
			}
			items = append(items, OfferApplicationItem{
				ID:         a.ID,
				EmployeeID: a.EmployeeID,
				Worker:     worker,
				Status:     a.Status,
				Date:       a.ApplicationDate.Format(dateLayout),
			})
		}

		return c.JSON(OfferDetailResponse{Offer: ToResponse(o), Applications: items})
	}
}

// ----------------------------------------
// EDIT / DELETE
// ----------------------------------------

// GET /editar_proyecto/:id
func EditOfferFormHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		tx := db.WithContext(c.UserContext())

		offerID, err := offerIDParam(c)
		if err != nil {
			return err
		}
		boss, err := profile.BossForUser(tx, userID)
		if err != nil {
			return err
		}
		o, err := FindOwned(tx, boss.ID, offerID)
		if err != nil {
			return err
		}

		res := ToResponse(o)
		return c.JSON(OfferFormResponse{Offer: &res, Notice: auth.PopFlash(c)})
	}
}

// POST /editar_proyecto/:id
func UpdateOfferHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		tx := db.WithContext(c.UserContext())

		offerID, err := offerIDParam(c)
		if err != nil {
			return err
		}
		boss, err := profile.BossForUser(tx, userID)
		if err != nil {
			return err
		}
		o, err := FindOwned(tx, boss.ID, offerID)
		if err != nil {
			return err
		}

		var body UpdateOfferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := ToResponse(o)

		if body.Titulo != nil {
			title := strings.TrimSpace(*body.Titulo)
			if title == "" {
				return apperror.Validation("Title is required")
			}
			o.Title = title
		}
		if body.Descripcion != nil {
			o.Description = strings.TrimSpace(*body.Descripcion)
		}
		if body.Ubicacion != nil {
			o.Location = strings.TrimSpace(*body.Ubicacion)
		}
		if body.Presupuesto != nil {
			salary, err := ParseSalary(body.Presupuesto.String())
			if err != nil {
				return err
			}
			o.Salary = salary
		}
		status, err := NextStatus(o.Status, body.Estado)
		if err != nil {
			return err
		}
		o.Status = status

		if err := Save(tx, o, before.Status); err != nil {
			return err
		}

		after := ToResponse(o)
		audit.Record(tx, audit.LogOptions{
			UserID:      userID,
			UserName:    boss.Name,
			EntityType:  "job_offer",
			EntityID:    o.ID,
			Action:      models.AuditActionUpdate,
			Description: "Offer updated: " + o.Title,
			Before:      before,
			After:       after,
		})

		return c.JSON(MutationResponse{Offer: &after, Notice: "Offer updated."})
	}
}

// POST /eliminar_proyecto/:id
func DeleteOfferHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		tx := db.WithContext(c.UserContext())

		offerID, err := offerIDParam(c)
		if err != nil {
			return err
		}
		boss, err := profile.BossForUser(tx, userID)
		if err != nil {
			return err
		}
		o, err := FindOwned(tx, boss.ID, offerID)
		if err != nil {
			return err
		}

		// applications go with it (ON DELETE CASCADE)
		if err := tx.Delete(&models.JobOffer{}, o.ID).Error; err != nil {
			return apperror.Storage("Could not delete offer", err)
		}

		audit.Record(tx, audit.LogOptions{
			UserID:      userID,
			UserName:    boss.Name,
			EntityType:  "job_offer",
			EntityID:    o.ID,
			Action:      models.AuditActionDelete,
			Description: "Offer deleted: " + o.Title,
			Before:      ToResponse(o),
		})

		return c.JSON(MutationResponse{Notice: "Offer deleted."})
	}
}
