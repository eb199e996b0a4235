package audit

import (
	"jobmarket-backend/internal/apperror"
	"jobmarket-backend/internal/auth"
	"jobmarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
}

// GET /historial?entity_type=job_offer
func ListOwnAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)

		q := db.WithContext(c.UserContext()).Model(&models.AuditLog{}).Where("user_id = ?", userID)
		if entityType := c.Query("entity_type"); entityType != "" {
			q = q.Where("entity_type = ?", entityType)
		}

		var logs []models.AuditLog
		if err := q.Order("created_at DESC").Order("id DESC").Limit(200).Find(&logs).Error; err != nil {
			return apperror.Storage("Could not list history", err)
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
			})
		}

		return c.JSON(resp)
	}
}
