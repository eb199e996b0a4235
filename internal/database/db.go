package database

import (
	"errors"
	"fmt"
	"log"

	"jobmarket-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres. Unique violations come back as gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	// The previous schema shipped hand-written CHECK constraints on the status
	// columns and the applications one did not allow 'completed'. Drop them
	// before AutoMigrate adds its own.
	if db.Dialector.Name() == "postgres" {
		legacy := map[string]string{
			"applications": "applications_status_check",
			"job_offers":   "job_offers_status_check",
		}
		for table, constraint := range legacy {
			if !db.Migrator().HasTable(table) {
				continue
			}
			if err := db.Exec(fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s", table, constraint)).Error; err != nil {
				log.Printf("legacy constraint %s could not be dropped (continuing): %v", constraint, err)
			}
		}
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Employee{},
		&models.Boss{},
		&models.JobOffer{},
		&models.Application{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	log.Println("Database migration complete.")
	return nil
}

// IsDuplicate reports a unique constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsNotFound reports a First/Take miss.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
