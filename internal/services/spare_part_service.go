package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Euaell/Car-Dealership/internal/apperrors"
	"github.com/Euaell/Car-Dealership/internal/models"
	"github.com/Euaell/Car-Dealership/internal/redis"
	"github.com/Euaell/Car-Dealership/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SparePartService interface {
	CreateSparePart(ctx context.Context, part *models.SparePart) error
	GetSparePartByID(ctx context.Context, id uint) (*models.SparePart, error)
	GetSpareParts(ctx context.Context, category string) ([]models.SparePart, error)
	UpdateSparePart(ctx context.Context, part *models.SparePart) error
	DeleteSparePart(ctx context.Context, id uint) error
	AdjustStock(ctx context.Context, id uint, quantity int, operation models.StockOperation) (*StockAdjustment, error)
	GetLowStockParts(ctx context.Context) ([]models.SparePart, error)
}

// StockAdjustment reports the outcome of an explicit stock change.
// LowStock mirrors the advisory signal; callers are free to ignore it.
type StockAdjustment struct {
	SparePartID   uint   `json:"spare_part_id"`
	PartNumber    string `json:"part_number"`
	Operation     string `json:"operation"`
	Quantity      int    `json:"quantity"`
	PreviousStock int    `json:"previous_stock"`
	NewStock      int    `json:"new_stock"`
	MinStockLevel int    `json:"min_stock_level"`
	LowStock      bool   `json:"low_stock"`
}

type sparePartService struct {
	db       *gorm.DB
	partRepo repository.SparePartRepository
	cache    *redis.Client
	logger   *logrus.Logger
}

func NewSparePartService(db *gorm.DB, partRepo repository.SparePartRepository, cache *redis.Client, logger *logrus.Logger) SparePartService {
	return &sparePartService{db: db, partRepo: partRepo, cache: cache, logger: logger}
}

func (s *sparePartService) CreateSparePart(ctx context.Context, part *models.SparePart) error {
	if part.PartNumber == "" {
		return apperrors.Validation("part_number", "part number is required")
	}
	if part.Stock < 0 {
		return apperrors.Validation("stock", "stock cannot be negative")
	}
	if err := s.partRepo.Create(ctx, part); err != nil {
		return conflictOr(err, fmt.Sprintf("spare part with number %s already exists", part.PartNumber))
	}
	return nil
}

func (s *sparePartService) GetSparePartByID(ctx context.Context, id uint) (*models.SparePart, error) {
	part, err := s.partRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "spare part", id)
	}
	return part, nil
}

func (s *sparePartService) GetSpareParts(ctx context.Context, category string) ([]models.SparePart, error) {
	parts, err := s.partRepo.GetAll(ctx, category)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return parts, nil
}

func (s *sparePartService) UpdateSparePart(ctx context.Context, part *models.SparePart) error {
	if _, err := s.partRepo.GetByID(ctx, part.ID); err != nil {
		return notFoundOr(err, "spare part", part.ID)
	}
	if part.Stock < 0 {
		return apperrors.Validation("stock", "stock cannot be negative")
	}
	if err := s.partRepo.Update(ctx, part); err != nil {
		return conflictOr(err, fmt.Sprintf("spare part with number %s already exists", part.PartNumber))
	}
	return nil
}

func (s *sparePartService) DeleteSparePart(ctx context.Context, id uint) error {
	if _, err := s.partRepo.GetByID(ctx, id); err != nil {
		return notFoundOr(err, "spare part", id)
	}
	if err := s.partRepo.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *sparePartService) AdjustStock(ctx context.Context, id uint, quantity int, operation models.StockOperation) (*StockAdjustment, error) {
	if quantity <= 0 {
		return nil, apperrors.Validation("quantity", "adjustment quantity must be positive")
	}
	if operation != models.StockAdd && operation != models.StockSubtract {
		return nil, apperrors.Validation("operation", fmt.Sprintf("unknown stock operation %q", operation))
	}

	var result *StockAdjustment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		partRepo := s.partRepo.WithTx(tx)

		part, err := partRepo.GetByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "spare part", id)
		}

		if operation == models.StockSubtract {
			decremented, err := partRepo.DecrementStockIf(ctx, part.ID, quantity)
			if err != nil {
				return apperrors.Internal(err)
			}
			if !decremented {
				return apperrors.InsufficientStock(part.PartNumber, quantity, part.Stock)
			}
		} else {
			if err := partRepo.IncrementStock(ctx, part.ID, quantity); err != nil {
				return apperrors.Internal(err)
			}
		}

		updated, err := partRepo.GetByID(ctx, part.ID)
		if err != nil {
			return apperrors.Internal(err)
		}

		result = &StockAdjustment{
			SparePartID:   part.ID,
			PartNumber:    part.PartNumber,
			Operation:     string(operation),
			Quantity:      quantity,
			PreviousStock: updated.Stock - stockDelta(operation, quantity),
			NewStock:      updated.Stock,
			MinStockLevel: updated.MinStockLevel,
			LowStock:      updated.LowStock(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.LowStock {
		s.signalLowStock(ctx, result)
	}
	if s.cache != nil {
		// Stock levels feed the dashboard; drop the cached summary so the
		// next read rebuilds it.
		if err := s.cache.InvalidateDashboardSummary(ctx); err != nil {
			s.logger.WithError(err).Warn("failed to invalidate dashboard summary cache")
		}
	}
	return result, nil
}

func stockDelta(operation models.StockOperation, quantity int) int {
	if operation == models.StockSubtract {
		return -quantity
	}
	return quantity
}

// signalLowStock emits the advisory low-stock signal: a structured log
// line always, a redis publish when a cache client is wired. Failures
// are logged and swallowed; the adjustment itself already committed.
func (s *sparePartService) signalLowStock(ctx context.Context, adj *StockAdjustment) {
	s.logger.WithFields(logrus.Fields{
		"spare_part_id": adj.SparePartID,
		"part_number":   adj.PartNumber,
		"stock":         adj.NewStock,
	}).Warn("spare part stock at or below minimum level")

	if s.cache == nil {
		return
	}
	event := &redis.LowStockEvent{
		SparePartID:   adj.SparePartID,
		PartNumber:    adj.PartNumber,
		Stock:         adj.NewStock,
		MinStockLevel: adj.MinStockLevel,
		OccurredAt:    time.Now(),
	}
	if err := s.cache.PublishLowStock(ctx, event); err != nil {
		s.logger.WithField("part_number", adj.PartNumber).WithError(err).Warn("failed to publish low stock event")
	}
}

func (s *sparePartService) GetLowStockParts(ctx context.Context) ([]models.SparePart, error) {
	parts, err := s.partRepo.ListLowStock(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return parts, nil
}
