package server

import (
	"errors"
	"log"
	"strings"

	"jobmarket-backend/internal/apperror"
	"jobmarket-backend/internal/application"
	"jobmarket-backend/internal/audit"
	"jobmarket-backend/internal/auth"
	"jobmarket-backend/internal/config"
	"jobmarket-backend/internal/offer"
	"jobmarket-backend/internal/profile"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

type IndexResponse struct {
	Service string      `json:"service"`
	Notice  *auth.Flash `json:"notice,omitempty"`
}

type Options struct {
	Limiter auth.Limiter
	// Quiet drops the request log line, tests set it.
	Quiet bool
}

func errorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		if appErr.Kind == apperror.KindStorage {
			log.Printf("%s %s: %v", c.Method(), c.Path(), appErr)
			return c.Status(appErr.Status()).JSON(fiber.Map{
				"error": "Something went wrong, please try again",
				"kind":  appErr.Kind,
			})
		}
		return c.Status(appErr.Status()).JSON(fiber.Map{
			"error": appErr.Message,
			"kind":  appErr.Kind,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
			"kind":  apperror.KindForStatus(fe.Code),
		})
	}

	log.Println("Unexpected error:", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Unexpected server error",
		"kind":  apperror.KindHTTP,
	})
}

func New(cfg *config.Config, db *gorm.DB, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	if !opts.Quiet {
		app.Use(logger.New())
	}

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(corsOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowCredentials: true,
	}))

	app.Use(auth.SessionMiddleware(cfg))

	// Public
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(IndexResponse{Service: "jobmarket", Notice: auth.PopFlash(c)})
	})
	app.Post("/registrar_worker", auth.RegisterWorkerHandler(db))
	app.Post("/registrar_boss", auth.RegisterBossHandler(db))
	app.Get("/login", auth.LoginPageHandler())
	app.Post("/login", auth.RateLimit(opts.Limiter, cfg.LoginRateLimit, cfg.LoginRateWindow), auth.LoginHandler(cfg, db))

	// Any logged-in user
	loggedIn := auth.RequireLogin()
	app.Get("/logout", loggedIn, auth.LogoutHandler(cfg))
	app.Get("/me", loggedIn, auth.MeHandler(db))
	app.Get("/historial", loggedIn, audit.ListOwnAuditLogsHandler(db))
	app.Get("/solicitudes", loggedIn, application.ListApplicationsHandler(db))
	app.Post("/solicitudes", loggedIn, application.ApplyHandler(db))
	app.Post("/ver_trabajopendiente", loggedIn, application.WorkDetailHandler(db))

	// Boss
	boss := auth.RequireBoss()
	app.Get("/perfilb", boss, profile.GetBossProfileHandler(db))
	app.Post("/perfilb", boss, profile.UpdateBossProfileHandler(db))
	app.Get("/proyectob", boss, offer.ListBossOffersHandler(db))
	app.Get("/crearproyecto", boss, offer.NewOfferFormHandler())
	app.Post("/crearproyecto", boss, offer.CreateOfferHandler(db))
	app.Post("/crearproyecto/importar", boss, offer.ImportOffersHandler(db))
	app.Get("/detallesolicitud/:id", boss, offer.OfferDetailHandler(db))
	app.Get("/editar_proyecto/:id", boss, offer.EditOfferFormHandler(db))
	app.Post("/editar_proyecto/:id", boss, offer.UpdateOfferHandler(db))
	app.Post("/eliminar_proyecto/:id", boss, offer.DeleteOfferHandler(db))
	app.Post("/gestionar_solicitud", boss, application.ReviewApplicationHandler(db))

	// Worker
	worker := auth.RequireWorker()
	app.Get("/perfilw", worker, profile.GetWorkerProfileHandler(db))
	app.Post("/perfilw", worker, profile.UpdateWorkerProfileHandler(db))
	app.Get("/proyectow", worker, offer.ListOpenOffersHandler(db))
	app.Get("/trabajospendientes", worker, application.PendingWorkHandler(db))
	app.Post("/marcar_completado", worker, application.CompleteApplicationHandler(db))

	return app
}
