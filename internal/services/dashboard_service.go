package services

import (
	"context"
	"time"

	"github.com/Euaell/Car-Dealership/internal/apperrors"
	"github.com/Euaell/Car-Dealership/internal/models"
	"github.com/Euaell/Car-Dealership/internal/redis"
	"github.com/Euaell/Car-Dealership/internal/repository"

	"github.com/sirupsen/logrus"
)

type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
}

type DashboardSummary struct {
	CarsByStatus     map[string]int64   `json:"cars_by_status"`
	OrdersByStatus   map[string]int64   `json:"orders_by_status"`
	RevenueByStatus  map[string]float64 `json:"revenue_by_status"`
	LowStockParts    []models.SparePart `json:"low_stock_parts"`
	UpcomingServices []models.Service   `json:"upcoming_services"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

type dashboardService struct {
	carRepo     repository.CarRepository
	orderRepo   repository.OrderRepository
	partRepo    repository.SparePartRepository
	serviceRepo repository.ServiceRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      *logrus.Logger
}

func NewDashboardService(
	carRepo repository.CarRepository,
	orderRepo repository.OrderRepository,
	partRepo repository.SparePartRepository,
	serviceRepo repository.ServiceRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger *logrus.Logger,
) DashboardService {
	return &dashboardService{
		carRepo:     carRepo,
		orderRepo:   orderRepo,
		partRepo:    partRepo,
		serviceRepo: serviceRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Summary aggregates the role dashboards' shared numbers. The result is
// cached; a miss or an unreadable cache entry falls through to the
// database and repopulates.
func (s *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.cache != nil {
		var cached DashboardSummary
		err := s.cache.GetDashboardSummary(ctx, &cached)
		if err == nil {
			return &cached, nil
		}
		if err != redis.ErrCacheMiss {
			s.logger.WithError(err).Warn("dashboard cache read failed")
		}
	}

	summary, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDashboardSummary(ctx, summary, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("dashboard cache write failed")
		}
	}
	return summary, nil
}

func (s *dashboardService) build(ctx context.Context) (*DashboardSummary, error) {
	carCounts, err := s.carRepo.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	orderCounts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	revenue, err := s.orderRepo.TotalsByStatus(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	lowStock, err := s.partRepo.ListLowStock(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	upcoming, err := s.serviceRepo.Upcoming(ctx, 7*24*time.Hour, 20)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &DashboardSummary{
		CarsByStatus:     carCounts,
		OrdersByStatus:   orderCounts,
		RevenueByStatus:  revenue,
		LowStockParts:    lowStock,
		UpcomingServices: upcoming,
		GeneratedAt:      time.Now(),
	}, nil
}
