package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Euaell/Car-Dealership/internal/apperrors"
	"github.com/Euaell/Car-Dealership/internal/models"
	"github.com/Euaell/Car-Dealership/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderService is the order/inventory consistency engine. Every mutating
// operation runs in a single database transaction: the order row, its
// items, spare-part stock and the car status either all change together
// or not at all. Stock and car writes are conditional updates checked by
// affected-row count, so concurrent orders over the same part or car
// cannot both pass a stale read.
type OrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	GetOrderByID(ctx context.Context, id uint) (*models.Order, error)
	GetOrders(ctx context.Context, userID uint, status string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, input UpdateOrderStatusInput) (*models.Order, error)
	CancelOrder(ctx context.Context, id uint, reason string) (*models.Order, error)
}

type CreateOrderInput struct {
	UserID          uint             `json:"user_id"`
	CarID           *uint            `json:"car_id"`
	Items           []OrderItemInput `json:"items"`
	PaymentStatus   string           `json:"payment_status"`
	ShippingAddress string           `json:"shipping_address"`
	Notes           string           `json:"notes"`
}

type OrderItemInput struct {
	SparePartID *uint    `json:"spare_part_id"`
	Name        string   `json:"name"`
	Quantity    int      `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Discount    float64  `json:"discount"`
}

type UpdateOrderStatusInput struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
}

type orderService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	carRepo   repository.CarRepository
	partRepo  repository.SparePartRepository
	userRepo  repository.UserRepository
	logger    *logrus.Logger
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	carRepo repository.CarRepository,
	partRepo repository.SparePartRepository,
	userRepo repository.UserRepository,
	logger *logrus.Logger,
) OrderService {
	return &orderService{
		db:        db,
		orderRepo: orderRepo,
		carRepo:   carRepo,
		partRepo:  partRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

func validPaymentStatus(s string) bool {
	switch models.PaymentStatus(s) {
	case models.PaymentUnpaid, models.PaymentPartial, models.PaymentPaid, models.PaymentRefunded:
		return true
	}
	return false
}

func validOrderStatus(s string) bool {
	switch models.OrderStatus(s) {
	case models.OrderPending, models.OrderProcessing, models.OrderShipped, models.OrderDelivered, models.OrderCancelled:
		return true
	}
	return false
}

func (s *orderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.CarID == nil && len(input.Items) == 0 {
		return nil, apperrors.Validation("items", "order must reference a car or at least one item")
	}
	paymentStatus := input.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = string(models.PaymentUnpaid)
	}
	if !validPaymentStatus(paymentStatus) {
		return nil, apperrors.Validation("payment_status", fmt.Sprintf("unknown payment status %q", paymentStatus))
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperrors.Validation("quantity", "item quantity must be positive")
		}
		if item.Discount < 0 {
			return nil, apperrors.Validation("discount", "item discount cannot be negative")
		}
		if item.SparePartID == nil && (item.Name == "" || item.UnitPrice == nil) {
			return nil, apperrors.Validation("items", "free-form items require a name and unit price")
		}
	}

	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, notFoundOr(err, "user", input.UserID)
	}

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carRepo := s.carRepo.WithTx(tx)
		partRepo := s.partRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		total := 0.0

		if input.CarID != nil {
			car, err := carRepo.GetByID(ctx, *input.CarID)
			if err != nil {
				return notFoundOr(err, "car", *input.CarID)
			}
			reserved, err := carRepo.UpdateStatusIf(ctx, car.ID, models.CarAvailable, models.CarReserved)
			if err != nil {
				return apperrors.Internal(err)
			}
			if !reserved {
				return apperrors.Conflict(fmt.Sprintf("car %s is not available (status %s)", car.VIN, car.Status))
			}
			total += car.Price
		}

		items := make([]models.OrderItem, 0, len(input.Items))
		for _, in := range input.Items {
			item := models.OrderItem{
				Name:     in.Name,
				Quantity: in.Quantity,
				Discount: in.Discount,
			}
			if in.SparePartID != nil {
				part, err := partRepo.GetByID(ctx, *in.SparePartID)
				if err != nil {
					return notFoundOr(err, "spare part", *in.SparePartID)
				}
				// Check-and-decrement is one conditional UPDATE; the
				// pre-read above is only for pricing and error detail.
				decremented, err := partRepo.DecrementStockIf(ctx, part.ID, in.Quantity)
				if err != nil {
					return apperrors.Internal(err)
				}
				if !decremented {
					return apperrors.InsufficientStock(part.PartNumber, in.Quantity, part.Stock)
				}
				item.SparePartID = &part.ID
				if item.Name == "" {
					item.Name = part.Name
				}
				item.UnitPrice = part.UnitPrice
			}
			if in.UnitPrice != nil {
				item.UnitPrice = *in.UnitPrice
			}
			item.ComputeTotal()
			if item.TotalPrice < 0 {
				return apperrors.Validation("discount", "item discount exceeds line price")
			}
			total += item.TotalPrice
			items = append(items, item)
		}

		order = &models.Order{
			OrderNumber:     GenerateOrderNumber(),
			UserID:          input.UserID,
			CarID:           input.CarID,
			Status:          string(models.OrderPending),
			PaymentStatus:   paymentStatus,
			TotalAmount:     total,
			ShippingAddress: input.ShippingAddress,
			Notes:           input.Notes,
			Items:           items,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return conflictOr(err, "order number already exists")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total":        order.TotalAmount,
	}).Info("order created")
	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "order", id)
	}
	return order, nil
}

func (s *orderService) GetOrders(ctx context.Context, userID uint, status string) ([]models.Order, error) {
	if status != "" && !validOrderStatus(status) {
		return nil, apperrors.Validation("status", fmt.Sprintf("unknown order status %q", status))
	}
	orders, err := s.orderRepo.GetAll(ctx, userID, status)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return orders, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id uint, input UpdateOrderStatusInput) (*models.Order, error) {
	if input.Status == nil && input.PaymentStatus == nil {
		return nil, apperrors.Validation("status", "nothing to update")
	}
	if input.Status != nil && !validOrderStatus(*input.Status) {
		return nil, apperrors.Validation("status", fmt.Sprintf("unknown order status %q", *input.Status))
	}
	if input.PaymentStatus != nil && !validPaymentStatus(*input.PaymentStatus) {
		return nil, apperrors.Validation("payment_status", fmt.Sprintf("unknown payment status %q", *input.PaymentStatus))
	}

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		var err error
		order, err = orderRepo.GetByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "order", id)
		}

		if input.Status != nil {
			to := models.OrderStatus(*input.Status)
			from := models.OrderStatus(order.Status)
			// Re-requesting the current status is a no-op so retried
			// requests cannot re-apply side effects.
			if to != from {
				if !models.CanTransitionOrder(from, to) {
					return apperrors.InvalidTransition(order.Status, *input.Status)
				}
				moved, err := orderRepo.UpdateStatusIf(ctx, order.ID, from, to)
				if err != nil {
					return apperrors.Internal(err)
				}
				if !moved {
					return apperrors.Conflict(fmt.Sprintf("order %s was modified concurrently", order.OrderNumber))
				}
				order.Status = string(to)
				if err := s.applyStatusEffects(ctx, tx, order, to); err != nil {
					return err
				}
			}
		}

		if input.PaymentStatus != nil && *input.PaymentStatus != order.PaymentStatus {
			if models.PaymentStatus(*input.PaymentStatus) == models.PaymentRefunded &&
				models.OrderStatus(order.Status) != models.OrderCancelled {
				return apperrors.InvalidState("only cancelled orders can be refunded")
			}
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("payment_status", *input.PaymentStatus).Error; err != nil {
				return apperrors.Internal(err)
			}
			order.PaymentStatus = *input.PaymentStatus
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":       order.ID,
		"order_number":   order.OrderNumber,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	}).Info("order status updated")
	return order, nil
}

// applyStatusEffects performs the inventory side effects of a lifecycle
// transition. Callers have already moved the order row with a guarded
// update, so these run exactly once per transition; the car writes are
// additionally guarded by their own expected-status condition.
func (s *orderService) applyStatusEffects(ctx context.Context, tx *gorm.DB, order *models.Order, to models.OrderStatus) error {
	carRepo := s.carRepo.WithTx(tx)

	switch to {
	case models.OrderDelivered:
		if order.CarID != nil {
			sold, err := carRepo.UpdateStatusIf(ctx, *order.CarID, models.CarReserved, models.CarSold)
			if err != nil {
				return apperrors.Internal(err)
			}
			if !sold {
				s.logger.WithField("car_id", *order.CarID).Warn("delivered order car was not in reserved status")
			}
		}
	case models.OrderCancelled:
		if err := s.restoreConsumedInventory(ctx, tx, order); err != nil {
			return err
		}
	}
	return nil
}

// restoreConsumedInventory undoes what CreateOrder consumed: each item's
// quantity goes back on its spare part, and the car returns to AVAILABLE
// only if it is still RESERVED (a car moved to MAINTENANCE or SOLD by a
// later event stays put).
func (s *orderService) restoreConsumedInventory(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	partRepo := s.partRepo.WithTx(tx)
	carRepo := s.carRepo.WithTx(tx)

	for _, item := range order.Items {
		if item.SparePartID == nil {
			continue
		}
		if err := partRepo.IncrementStock(ctx, *item.SparePartID, item.Quantity); err != nil {
			return apperrors.Internal(err)
		}
	}
	if order.CarID != nil {
		released, err := carRepo.UpdateStatusIf(ctx, *order.CarID, models.CarReserved, models.CarAvailable)
		if err != nil {
			return apperrors.Internal(err)
		}
		if !released {
			s.logger.WithField("car_id", *order.CarID).Warn("cancelled order car was not in reserved status")
		}
	}
	return nil
}

func (s *orderService) CancelOrder(ctx context.Context, id uint, reason string) (*models.Order, error) {
	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		var err error
		order, err = orderRepo.GetByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "order", id)
		}
		from := models.OrderStatus(order.Status)
		if from.Terminal() {
			return apperrors.InvalidState(fmt.Sprintf("order %s is already %s", order.OrderNumber, order.Status))
		}

		moved, err := orderRepo.UpdateStatusIf(ctx, order.ID, from, models.OrderCancelled)
		if err != nil {
			return apperrors.Internal(err)
		}
		if !moved {
			return apperrors.Conflict(fmt.Sprintf("order %s was modified concurrently", order.OrderNumber))
		}
		order.Status = string(models.OrderCancelled)

		if err := s.restoreConsumedInventory(ctx, tx, order); err != nil {
			return err
		}

		if reason == "" {
			reason = "no reason given"
		}
		note := fmt.Sprintf("[%s] Cancelled: %s", time.Now().Format(time.RFC3339), reason)
		if order.Notes != "" {
			order.Notes += "\n"
		}
		order.Notes += note
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("notes", order.Notes).Error; err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"reason":       reason,
	}).Info("order cancelled")
	return order, nil
}
