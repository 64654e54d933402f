package models

import (
	"time"

	"gorm.io/gorm"
)

type SparePart struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	PartNumber    string         `json:"part_number" gorm:"unique;not null"`
	Name          string         `json:"name" gorm:"not null"`
	Category      string         `json:"category"`
	Manufacturer  string         `json:"manufacturer"`
	UnitPrice     float64        `json:"unit_price" gorm:"not null"`
	Stock         int            `json:"stock" gorm:"not null;default:0"`
	MinStockLevel int            `json:"min_stock_level" gorm:"default:0"`
	Description   string         `json:"description" gorm:"type:text"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// LowStock reports whether current stock has fallen to or below the
// configured minimum.
func (p *SparePart) LowStock() bool {
	return p.Stock <= p.MinStockLevel
}

type StockOperation string

const (
	StockAdd      StockOperation = "add"
	StockSubtract StockOperation = "subtract"
)
