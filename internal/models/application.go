package models

import "time"

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationCompleted ApplicationStatus = "completed"
)

type Application struct {
	ID              uint `gorm:"primaryKey"`
	EmployeeID      uint `gorm:"not null;uniqueIndex:uix_employee_offer"`
	Employee        *Employee
	OfferID         uint              `gorm:"not null;uniqueIndex:uix_employee_offer;index"`
	JobOffer        *JobOffer         `gorm:"foreignKey:OfferID"`
	ApplicationDate time.Time         `gorm:"not null"`
	Status          ApplicationStatus `gorm:"size:20;not null;default:pending;check:status IN ('pending','accepted','rejected','completed')"`
}
