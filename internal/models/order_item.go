package models

import (
	"time"

	"gorm.io/gorm"
)

type OrderItem struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	OrderID     uint           `json:"order_id" gorm:"not null;index"`
	SparePartID *uint          `json:"spare_part_id" gorm:"index"`
	Name        string         `json:"name" gorm:"not null"`
	Quantity    int            `json:"quantity" gorm:"not null"`
	UnitPrice   float64        `json:"unit_price" gorm:"not null"`
	Discount    float64        `json:"discount" gorm:"default:0"`
	TotalPrice  float64        `json:"total_price" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// ComputeTotal recomputes the line total. The stored TotalPrice is never
// authoritative on its own.
func (i *OrderItem) ComputeTotal() {
	i.TotalPrice = i.UnitPrice*float64(i.Quantity) - i.Discount
}
