package models

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	OrderNumber     string         `json:"order_number" gorm:"unique;not null"`
	UserID          uint           `json:"user_id" gorm:"not null;index"`
	CarID           *uint          `json:"car_id" gorm:"index"`
	Status          string         `json:"status" gorm:"default:'PENDING'"`        // PENDING, PROCESSING, SHIPPED, DELIVERED, CANCELLED
	PaymentStatus   string         `json:"payment_status" gorm:"default:'UNPAID'"` // UNPAID, PARTIAL, PAID, REFUNDED
	TotalAmount     float64        `json:"total_amount" gorm:"not null"`
	ShippingAddress string         `json:"shipping_address"`
	Notes           string         `json:"notes" gorm:"type:text"`
	Items           []OrderItem    `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPartial  PaymentStatus = "PARTIAL"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// orderTransitions is the allowed status graph. DELIVERED and CANCELLED
// are terminal. Same-status updates are treated as no-ops by the service
// layer, not encoded here.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderShipped, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderDelivered, OrderCancelled},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// CanTransitionOrder reports whether from -> to is an allowed order
// status change.
func CanTransitionOrder(from, to OrderStatus) bool {
	allowed, ok := orderTransitions[from]
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

// Terminal reports whether no further order status change is permitted.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}
