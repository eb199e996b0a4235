package auth

import (
	"log"
	"strings"

	"jobmarket-backend/internal/apperror"
	"jobmarket-backend/internal/config"
	"jobmarket-backend/internal/database"
	"jobmarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterWorkerRequest struct {
	Nombre    string `json:"nombre" form:"nombre"`
	Apellidos string `json:"apellidos" form:"apellidos"`
	Correo    string `json:"correo" form:"correo"`
	Usuario   string `json:"usuario" form:"usuario"` // accepted, not stored
	Password  string `json:"password" form:"password"`
}

type RegisterBossRequest struct {
	Nombre    string `json:"nombre" form:"nombre"`
	Apellidos string `json:"apellidos" form:"apellidos"`
	Correo    string `json:"correo" form:"correo"`
	Password  string `json:"password" form:"password"`
	Empresa   string `json:"empresa" form:"empresa"`
	Telefono  string `json:"telefono" form:"telefono"`
	Cargo     string `json:"cargo" form:"cargo"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type UserSummary struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

type RegisterResponse struct {
	User     UserSummary `json:"user"`
	Notice   string      `json:"notice"`
	Redirect string      `json:"redirect"`
}

type LoginPageResponse struct {
	Notice   *Flash `json:"notice,omitempty"`
	LoggedIn bool   `json:"logged_in"`
}

type LoginResponse struct {
	User     UserSummary `json:"user"`
	Redirect string      `json:"redirect"`
}

func summarize(u *models.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// ----------------------------------------
// REGISTRATION
// ----------------------------------------

func RegisterWorkerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterWorkerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		nombre := strings.TrimSpace(body.Nombre)
		apellidos := strings.TrimSpace(body.Apellidos)
		correo := strings.ToLower(strings.TrimSpace(body.Correo))
		if nombre == "" || apellidos == "" || correo == "" || body.Password == "" {
			return apperror.Validation("Fill in all the fields.")
		}

		fullName := nombre + " " + apellidos
		user, err := registerAccount(db.WithContext(c.UserContext()), fullName, correo, body.Password, models.RoleWorker,
			func(tx *gorm.DB, userID uint) error {
				return tx.Create(&models.Employee{UserID: userID, Name: fullName}).Error
			})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
			User:     summarize(user),
			Notice:   "Registration successful. You can log in now.",
			Redirect: LoginPath,
		})
	}
}

func RegisterBossHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterBossRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		nombre := strings.TrimSpace(body.Nombre)
		apellidos := strings.TrimSpace(body.Apellidos)
		correo := strings.ToLower(strings.TrimSpace(body.Correo))
		empresa := strings.TrimSpace(body.Empresa)
		if nombre == "" || apellidos == "" || correo == "" || body.Password == "" || empresa == "" {
			return apperror.Validation("Fill in all the fields.")
		}

		fullName := nombre + " " + apellidos
		user, err := registerAccount(db.WithContext(c.UserContext()), fullName, correo, body.Password, models.RoleBoss,
			func(tx *gorm.DB, userID uint) error {
				return tx.Create(&models.Boss{
					UserID:  userID,
					Name:    fullName,
					Contact: strings.TrimSpace(body.Cargo),
					Phone:   strings.TrimSpace(body.Telefono),
					Address: empresa,
				}).Error
			})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
			User:     summarize(user),
			Notice:   "Boss registration complete.",
			Redirect: LoginPath,
		})
	}
}

// registerAccount creates the user row and then its profile. The two inserts
// are separate statements; when the profile fails the user row is deleted
// again on a best-effort basis.
func registerAccount(tx *gorm.DB, name, email, password string, role models.UserRole, createProfile func(tx *gorm.DB, userID uint) error) (*models.User, error) {
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperror.Storage("Could not create user", err)
	}
	if count > 0 {
		return nil, apperror.DuplicateEmail()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Storage("Could not hash password", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := tx.Create(&user).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, apperror.DuplicateEmail()
		}
		return nil, apperror.Storage("Could not create user", err)
	}

	if err := createProfile(tx, user.ID); err != nil {
		log.Printf("create %s profile for user %d: %v", role, user.ID, err)
		if delErr := tx.Delete(&models.User{}, user.ID).Error; delErr != nil {
			log.Printf("orphan user %d could not be removed: %v", user.ID, delErr)
		}
		return nil, apperror.Storage("Could not create profile", err)
	}

	return &user, nil
}

// ----------------------------------------
// LOGIN / LOGOUT
// ----------------------------------------

func LoginPageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, loggedIn := CurrentUserID(c)
		return c.JSON(LoginPageResponse{
			Notice:   PopFlash(c),
			LoggedIn: loggedIn,
		})
	}
}

func LoginHandler(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		identifier := strings.TrimSpace(body.Email)
		if identifier == "" || body.Password == "" {
			return apperror.Validation("Fill in the login fields.")
		}

		tx := db.WithContext(c.UserContext())

		// Email first, display name as a fallback.
		var user models.User
		err := tx.Where("email = ?", strings.ToLower(identifier)).First(&user).Error
		if database.IsNotFound(err) {
			err = tx.Where("name = ?", identifier).First(&user).Error
		}
		if err != nil {
			if database.IsNotFound(err) {
				return apperror.InvalidCredentials()
			}
			return apperror.Storage("Could not log in", err)
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return apperror.InvalidCredentials()
		}

		token, err := GenerateToken(cfg.SessionSecret, cfg.SessionTTL, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create session")
		}
		setSessionCookie(c, cfg, token)

		redirect := "/perfilw"
		if user.Role == models.RoleBoss {
			redirect = "/perfilb"
		}

		return c.JSON(LoginResponse{User: summarize(&user), Redirect: redirect})
	}
}

func LogoutHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clearSessionCookie(c, cfg)
		SetFlash(c, "info", "Session closed.")
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := CurrentUserID(c)

		var user models.User
		if err := db.WithContext(c.UserContext()).First(&user, userID).Error; err != nil {
			if database.IsNotFound(err) {
				return apperror.NotFound("User not found")
			}
			return apperror.Storage("Could not load user", err)
		}

		return c.JSON(summarize(&user))
	}
}
