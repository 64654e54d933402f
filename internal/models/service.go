package models

import (
	"time"

	"gorm.io/gorm"
)

type ServiceType struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Name            string         `json:"name" gorm:"unique;not null"`
	BasePrice       float64        `json:"base_price" gorm:"not null"`
	DurationMinutes int            `json:"duration_minutes" gorm:"default:60"`
	Description     string         `json:"description" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type Service struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	UserID          uint           `json:"user_id" gorm:"not null;index"`
	CarID           uint           `json:"car_id" gorm:"not null;index"`
	ServiceTypeID   uint           `json:"service_type_id" gorm:"not null"`
	Status          string         `json:"status" gorm:"default:'SCHEDULED'"` // SCHEDULED, IN_PROGRESS, COMPLETED, CANCELLED
	ScheduledDate   time.Time      `json:"scheduled_date" gorm:"not null;index"`
	CompletedDate   *time.Time     `json:"completed_date"`
	EstimatedCost   float64        `json:"estimated_cost"`
	FinalCost       *float64       `json:"final_cost"`
	Notes           string         `json:"notes" gorm:"type:text"`
	TechnicianNotes string         `json:"technician_notes" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type ServiceStatus string

const (
	ServiceScheduled  ServiceStatus = "SCHEDULED"
	ServiceInProgress ServiceStatus = "IN_PROGRESS"
	ServiceCompleted  ServiceStatus = "COMPLETED"
	ServiceCancelled  ServiceStatus = "CANCELLED"
)

// serviceTransitions only moves forward: once in progress an appointment
// can complete or cancel, never return to scheduled.
var serviceTransitions = map[ServiceStatus][]ServiceStatus{
	ServiceScheduled:  {ServiceInProgress, ServiceCancelled},
	ServiceInProgress: {ServiceCompleted, ServiceCancelled},
	ServiceCompleted:  {},
	ServiceCancelled:  {},
}

// CanTransitionService reports whether from -> to is an allowed
// appointment status change.
func CanTransitionService(from, to ServiceStatus) bool {
	allowed, ok := serviceTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the appointment reached a final status.
func (s ServiceStatus) Terminal() bool {
	return s == ServiceCompleted || s == ServiceCancelled
}
