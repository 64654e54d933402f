package models

import (
	"time"

	"gorm.io/gorm"
)

type Car struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	VIN         string         `json:"vin" gorm:"unique;not null;size:17"`
	Make        string         `json:"make" gorm:"not null"`
	Model       string         `json:"model" gorm:"not null"`
	Year        int            `json:"year" gorm:"not null"`
	Color       string         `json:"color"`
	Mileage     int            `json:"mileage" gorm:"default:0"`
	Price       float64        `json:"price" gorm:"not null"`
	Status      string         `json:"status" gorm:"default:'AVAILABLE'"` // AVAILABLE, RESERVED, SOLD, MAINTENANCE
	Description string         `json:"description" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type CarStatus string

const (
	CarAvailable   CarStatus = "AVAILABLE"
	CarReserved    CarStatus = "RESERVED"
	CarSold        CarStatus = "SOLD"
	CarMaintenance CarStatus = "MAINTENANCE"
)
