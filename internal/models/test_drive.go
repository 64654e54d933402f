package models

import (
	"time"

	"gorm.io/gorm"
)

type TestDrive struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	UserID        uint           `json:"user_id" gorm:"not null;index"`
	CarID         uint           `json:"car_id" gorm:"not null;index"`
	Status        string         `json:"status" gorm:"default:'SCHEDULED'"` // SCHEDULED, COMPLETED, CANCELLED
	ScheduledDate time.Time      `json:"scheduled_date" gorm:"not null"`
	Notes         string         `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type TestDriveStatus string

const (
	TestDriveScheduled TestDriveStatus = "SCHEDULED"
	TestDriveCompleted TestDriveStatus = "COMPLETED"
	TestDriveCancelled TestDriveStatus = "CANCELLED"
)
