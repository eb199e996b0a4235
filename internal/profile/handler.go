package profile

import (
	"strings"

	"jobmarket-backend/internal/apperror"
	"jobmarket-backend/internal/audit"
	"jobmarket-backend/internal/auth"
	"jobmarket-backend/internal/database"
	"jobmarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BossProfileResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type WorkerProfileResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
	Resume     string `json:"resume"`
}

// Nil fields are left untouched.
type UpdateBossProfileRequest struct {
	Name    *string `json:"name" form:"name"`
	Contact *string `json:"contact" form:"contact"`
	Phone   *string `json:"phone" form:"phone"`
	Address *string `json:"address" form:"address"`
}

type UpdateWorkerProfileRequest struct {
	Name       *string `json:"name" form:"name"`
	Skills     *string `json:"skills" form:"skills"`
	Experience *string `json:"experience" form:"experience"`
	Resume     *string `json:"resume" form:"resume"`
}

// BossForUser loads the boss profile owned by userID.
func BossForUser(tx *gorm.DB, userID uint) (*models.Boss, error) {
	var boss models.Boss
	if err := tx.Preload("User").Where("user_id = ?", userID).First(&boss).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound("Boss profile not found")
		}
		return nil, apperror.Storage("Could not load boss profile", err)
	}
	return &boss, nil
}

// EmployeeForUser loads the worker profile owned by userID.
func EmployeeForUser(tx *gorm.DB, userID uint) (*models.Employee, error) {
	var emp models.Employee
	if err := tx.Preload("User").Where("user_id = ?", userID).First(&emp).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound("Worker profile not found")
		}
		return nil, apperror.Storage("Could not load worker profile", err)
	}
	return &emp, nil
}

func toBossResponse(b *models.Boss) BossProfileResponse {
	res := BossProfileResponse{
		ID:      b.ID,
		Name:    b.Name,
		Contact: b.Contact,
		Phone:   b.Phone,
		Address: b.Address,
	}
	if b.User != nil {
		res.Email = b.User.Email
	}
	return res
}

func toWorkerResponse(e *models.Employee) WorkerProfileResponse {
	res := WorkerProfileResponse{
		ID:         e.ID,
		Name:       e.Name,
		Skills:     e.Skills,
		Experience: e.Experience,
		Resume:     e.Resume,
	}
	if e.User != nil {
		res.Email = e.User.Email
	}
	return res
}

// ----------------------------------------
// BOSS
// ----------------------------------------

func GetBossProfileHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		boss, err := BossForUser(db.WithContext(c.UserContext()), userID)
		if err != nil {
			return err
		}
		return c.JSON(toBossResponse(boss))
	}
}

func UpdateBossProfileHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		tx := db.WithContext(c.UserContext())

		boss, err := BossForUser(tx, userID)
		if err != nil {
			return err
		}

		var body UpdateBossProfileRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := toBossResponse(boss)

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return apperror.Validation("Name cannot be empty")
			}
			boss.Name = name
		}
		if body.Contact != nil {
			boss.Contact = strings.TrimSpace(*body.Contact)
		}
		if body.Phone != nil {
			boss.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Address != nil {
			boss.Address = strings.TrimSpace(*body.Address)
		}

		if err := tx.Model(&models.Boss{}).Where("id = ?", boss.ID).Updates(map[string]interface{}{
			"name":    boss.Name,
			"contact": boss.Contact,
			"phone":   boss.Phone,
			"address": boss.Address,
		}).Error; err != nil {
			return apperror.Storage("Could not update profile", err)
		}
		if err := syncUserName(tx, userID, boss.Name); err != nil {
			return err
		}

		after := toBossResponse(boss)
		audit.Record(tx, audit.LogOptions{
			UserID:      userID,
			UserName:    boss.Name,
			EntityType:  "boss",
			EntityID:    boss.ID,
			Action:      models.AuditActionUpdate,
			Description: "Boss profile updated",
			Before:      before,
			After:       after,
		})

		return c.JSON(after)
	}
}

// ----------------------------------------
// WORKER
// ----------------------------------------

func GetWorkerProfileHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		emp, err := EmployeeForUser(db.WithContext(c.UserContext()), userID)
		if err != nil {
			return err
		}
		return c.JSON(toWorkerResponse(emp))
	}
}

func UpdateWorkerProfileHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		tx := db.WithContext(c.UserContext())

		emp, err := EmployeeForUser(tx, userID)
		if err != nil {
			return err
		}

		var body UpdateWorkerProfileRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := toWorkerResponse(emp)

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return apperror.Validation("Name cannot be empty")
			}
			emp.Name = name
		}
		if body.Skills != nil {
			emp.Skills = strings.TrimSpace(*body.Skills)
		}
		if body.Experience != nil {
			emp.Experience = strings.TrimSpace(*body.Experience)
		}
		if body.Resume != nil {
			emp.Resume = *body.Resume
		}

		if err := tx.Model(&models.Employee{}).Where("id = ?", emp.ID).Updates(map[string]interface{}{
			"name":       emp.Name,
			"skills":     emp.Skills,
			"experience": emp.Experience,
			"resume":     emp.Resume,
		}).Error; err != nil {
			return apperror.Storage("Could not update profile", err)
		}
		if err := syncUserName(tx, userID, emp.Name); err != nil {
			return err
		}

		after := toWorkerResponse(emp)
		audit.Record(tx, audit.LogOptions{
			UserID:      userID,
			UserName:    emp.Name,
			EntityType:  "employee",
			EntityID:    emp.ID,
			Action:      models.AuditActionUpdate,
			Description: "Worker profile updated",
			Before:      before,
			After:       after,
		})

		return c.JSON(after)
	}
}

// syncUserName keeps users.name equal to the profile's display name.
func syncUserName(tx *gorm.DB, userID uint, name string) error {
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("name", name).Error; err != nil {
		return apperror.Storage("Could not update user name", err)
	}
	return nil
}
