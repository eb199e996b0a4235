package offer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"jobmarket-backend/internal/apperror"
	"jobmarket-backend/internal/audit"
	"jobmarket-backend/internal/auth"
	"jobmarket-backend/internal/binding"
	"jobmarket-backend/internal/models"
	"jobmarket-backend/internal/profile"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Column order of an offer sheet: title, description, location, budget.
const (
	colTitle = iota
	colDescription
	colLocation
	colBudget
)

const maxImportRows = 500

type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResponse struct {
	Created []OfferResponse `json:"created"`
	Skipped []SkippedRow    `json:"skipped"`
	Notice  string          `json:"notice"`
}

// ParseOfferSheet reads the first sheet of an XLSX workbook into offers. A
// leading header row is detected and skipped. Rows that cannot become an
// offer are reported, not fatal.
func ParseOfferSheet(r io.Reader) ([]CreateOfferRequest, []SkippedRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, apperror.Validation("The file is not a readable XLSX workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, apperror.Validation("The workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, apperror.Validation("The first sheet could not be read")
	}

	start := 0
	if len(rows) > 0 && isHeaderRow(rows[0]) {
		start = 1
	}
	if len(rows)-start > maxImportRows {
		return nil, nil, apperror.Validation(fmt.Sprintf("At most %d offers can be imported at once", maxImportRows))
	}

	var (
		offers  []CreateOfferRequest
		skipped []SkippedRow
	)
	for i := start; i < len(rows); i++ {
		row := rows[i]
		req := CreateOfferRequest{
			Titulo:      cell(row, colTitle),
			Descripcion: cell(row, colDescription),
			Ubicacion:   cell(row, colLocation),
			Presupuesto: binding.Scalar(cell(row, colBudget)),
		}
		if req == (CreateOfferRequest{}) {
			continue
		}
		// sheet rows are 1-based
		if req.Titulo == "" {
			skipped = append(skipped, SkippedRow{Row: i + 1, Reason: "missing title"})
			continue
		}
		if _, err := ParseSalary(req.Presupuesto.String()); err != nil {
			skipped = append(skipped, SkippedRow{Row: i + 1, Reason: "invalid budget"})
			continue
		}
		offers = append(offers, req)
	}
	return offers, skipped, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isHeaderRow(row []string) bool {
	first := strings.ToLower(cell(row, colTitle))
	return first == "titulo" || first == "título" || first == "title"
}

// POST /crearproyecto/importar (multipart, field "file")
func ImportOffersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := auth.CurrentUserID(c)
		tx := db.WithContext(c.UserContext())

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return apperror.Validation("Attach an .xlsx file in the \"file\" field")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return apperror.Validation("Only .xlsx files can be imported")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not open the uploaded file")
		}
		defer file.Close()

		reqs, skipped, err := ParseOfferSheet(file)
		if err != nil {
			return err
		}

		boss, err := profile.BossForUser(tx, userID)
		if err != nil {
			return err
		}

		now := time.Now()
		offers := make([]models.JobOffer, 0, len(reqs))
		for _, r := range reqs {
			salary, _ := ParseSalary(r.Presupuesto.String())
			offers = append(offers, models.JobOffer{
				BossID:      &boss.ID,
				Title:       r.Titulo,
				Description: r.Descripcion,
				Salary:      salary,
				Location:    r.Ubicacion,
				PublishDate: now,
				Status:      models.OfferOpen,
			})
		}

		created := make([]OfferResponse, 0, len(offers))
		if len(offers) > 0 {
			err = tx.Transaction(func(t *gorm.DB) error {
				if err := t.Create(&offers).Error; err != nil {
					return apperror.Storage("Could not import offers", err)
				}
				for i := range offers {
					res := ToResponse(&offers[i])
					created = append(created, res)
					audit.Record(t, audit.LogOptions{
						UserID:      userID,
						UserName:    boss.Name,
						EntityType:  "job_offer",
						EntityID:    offers[i].ID,
						Action:      models.AuditActionCreate,
						Description: "Offer imported: " + offers[i].Title,
						After:       res,
					})
				}
				return nil
			})
			if err != nil {
				return err
			}
		}

		if skipped == nil {
			skipped = []SkippedRow{}
		}
		return c.Status(fiber.StatusCreated).JSON(ImportResponse{
			Created: created,
			Skipped: skipped,
			Notice:  fmt.Sprintf("%d offers imported, %d rows skipped.", len(created), len(skipped)),
		})
	}
}
