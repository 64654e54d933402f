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

// conflictWindow is the half-width of the scheduling exclusion zone:
// no two live appointments may sit within two hours of each other.
const conflictWindow = 2 * time.Hour

// ServiceScheduler manages workshop appointments: creation with global
// conflict detection, the forward-only status machine, and timestamped
// note accumulation.
type ServiceScheduler interface {
	CreateService(ctx context.Context, input CreateServiceInput) (*models.Service, error)
	GetServiceByID(ctx context.Context, id uint) (*models.Service, error)
	GetServices(ctx context.Context, userID uint, status string) ([]models.Service, error)
	UpdateService(ctx context.Context, id uint, input UpdateServiceInput) (*models.Service, error)
	CancelService(ctx context.Context, id uint, reason string) (*models.Service, error)
	GetServiceTypes(ctx context.Context) ([]models.ServiceType, error)
}

type CreateServiceInput struct {
	UserID        uint      `json:"user_id"`
	CarID         uint      `json:"car_id"`
	ServiceTypeID uint      `json:"service_type_id"`
	ScheduledDate time.Time `json:"scheduled_date"`
	EstimatedCost *float64  `json:"estimated_cost"`
	Notes         string    `json:"notes"`
}

type UpdateServiceInput struct {
	Status          *string    `json:"status"`
	ScheduledDate   *time.Time `json:"scheduled_date"`
	FinalCost       *float64   `json:"final_cost"`
	Notes           *string    `json:"notes"`
	TechnicianNotes *string    `json:"technician_notes"`
}

type serviceScheduler struct {
	db          *gorm.DB
	serviceRepo repository.ServiceRepository
	carRepo     repository.CarRepository
	userRepo    repository.UserRepository
	logger      *logrus.Logger
}

func NewServiceScheduler(
	db *gorm.DB,
	serviceRepo repository.ServiceRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	logger *logrus.Logger,
) ServiceScheduler {
	return &serviceScheduler{
		db:          db,
		serviceRepo: serviceRepo,
		carRepo:     carRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

func validServiceStatus(s string) bool {
	switch models.ServiceStatus(s) {
	case models.ServiceScheduled, models.ServiceInProgress, models.ServiceCompleted, models.ServiceCancelled:
		return true
	}
	return false
}

func (s *serviceScheduler) CreateService(ctx context.Context, input CreateServiceInput) (*models.Service, error) {
	if !input.ScheduledDate.After(time.Now()) {
		return nil, apperrors.Validation("scheduled_date", "scheduled date must be in the future")
	}
	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, notFoundOr(err, "user", input.UserID)
	}
	if _, err := s.carRepo.GetByID(ctx, input.CarID); err != nil {
		return nil, notFoundOr(err, "car", input.CarID)
	}
	serviceType, err := s.serviceRepo.GetServiceType(ctx, input.ServiceTypeID)
	if err != nil {
		return nil, notFoundOr(err, "service type", input.ServiceTypeID)
	}

	estimatedCost := serviceType.BasePrice
	if input.EstimatedCost != nil {
		estimatedCost = *input.EstimatedCost
	}

	var service *models.Service
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		serviceRepo := s.serviceRepo.WithTx(tx)

		if err := s.checkConflict(ctx, serviceRepo, input.ScheduledDate, 0); err != nil {
			return err
		}

		service = &models.Service{
			UserID:        input.UserID,
			CarID:         input.CarID,
			ServiceTypeID: input.ServiceTypeID,
			Status:        string(models.ServiceScheduled),
			ScheduledDate: input.ScheduledDate,
			EstimatedCost: estimatedCost,
			Notes:         input.Notes,
		}
		if err := serviceRepo.Create(ctx, service); err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"service_id":     service.ID,
		"car_id":         service.CarID,
		"scheduled_date": service.ScheduledDate,
	}).Info("service appointment scheduled")
	return service, nil
}

// checkConflict rejects a slot when any SCHEDULED or IN_PROGRESS
// appointment sits within the 2-hour window either side of it.
func (s *serviceScheduler) checkConflict(ctx context.Context, repo repository.ServiceRepository, date time.Time, excludeID uint) error {
	count, err := repo.CountConflicts(ctx, date.Add(-conflictWindow), date.Add(conflictWindow), excludeID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if count > 0 {
		return apperrors.Conflict(fmt.Sprintf("another appointment exists within %s of %s", conflictWindow, date.Format(time.RFC3339)))
	}
	return nil
}

func (s *serviceScheduler) GetServiceByID(ctx context.Context, id uint) (*models.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "service", id)
	}
	return service, nil
}

func (s *serviceScheduler) GetServices(ctx context.Context, userID uint, status string) ([]models.Service, error) {
	if status != "" && !validServiceStatus(status) {
		return nil, apperrors.Validation("status", fmt.Sprintf("unknown service status %q", status))
	}
	services, err := s.serviceRepo.GetAll(ctx, userID, status)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return services, nil
}

func (s *serviceScheduler) UpdateService(ctx context.Context, id uint, input UpdateServiceInput) (*models.Service, error) {
	if input.Status != nil && !validServiceStatus(*input.Status) {
		return nil, apperrors.Validation("status", fmt.Sprintf("unknown service status %q", *input.Status))
	}

	var service *models.Service
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		serviceRepo := s.serviceRepo.WithTx(tx)

		var err error
		service, err = serviceRepo.GetByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "service", id)
		}

		if input.ScheduledDate != nil && !input.ScheduledDate.Equal(service.ScheduledDate) {
			// Rescheduling is only meaningful before work starts.
			if models.ServiceStatus(service.Status) != models.ServiceScheduled {
				return apperrors.InvalidState(fmt.Sprintf("cannot reschedule a %s appointment", service.Status))
			}
			if !input.ScheduledDate.After(time.Now()) {
				return apperrors.Validation("scheduled_date", "scheduled date must be in the future")
			}
			if err := s.checkConflict(ctx, serviceRepo, *input.ScheduledDate, service.ID); err != nil {
				return err
			}
			service.ScheduledDate = *input.ScheduledDate
		}

		if input.Status != nil {
			to := models.ServiceStatus(*input.Status)
			from := models.ServiceStatus(service.Status)
			if to != from {
				if !models.CanTransitionService(from, to) {
					return apperrors.InvalidTransition(service.Status, *input.Status)
				}
				service.Status = string(to)
				if to == models.ServiceCompleted && service.CompletedDate == nil {
					now := time.Now()
					service.CompletedDate = &now
				}
			}
		}

		if input.FinalCost != nil {
			service.FinalCost = input.FinalCost
		}
		if input.Notes != nil && *input.Notes != "" {
			service.Notes = appendNote(service.Notes, *input.Notes)
		}
		if input.TechnicianNotes != nil && *input.TechnicianNotes != "" {
			service.TechnicianNotes = appendNote(service.TechnicianNotes, *input.TechnicianNotes)
		}

		if err := serviceRepo.Update(ctx, service); err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"service_id": service.ID,
		"status":     service.Status,
	}).Info("service appointment updated")
	return service, nil
}

func (s *serviceScheduler) CancelService(ctx context.Context, id uint, reason string) (*models.Service, error) {
	var service *models.Service
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		serviceRepo := s.serviceRepo.WithTx(tx)

		var err error
		service, err = serviceRepo.GetByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "service", id)
		}
		from := models.ServiceStatus(service.Status)
		if !models.CanTransitionService(from, models.ServiceCancelled) {
			return apperrors.InvalidTransition(service.Status, string(models.ServiceCancelled))
		}

		service.Status = string(models.ServiceCancelled)
		if reason == "" {
			reason = "no reason given"
		}
		service.Notes = appendNote(service.Notes, "Cancelled: "+reason)

		if err := serviceRepo.Update(ctx, service); err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"service_id": service.ID,
		"reason":     reason,
	}).Info("service appointment cancelled")
	return service, nil
}

func (s *serviceScheduler) GetServiceTypes(ctx context.Context) ([]models.ServiceType, error) {
	types, err := s.serviceRepo.GetAllServiceTypes(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return types, nil
}

// appendNote adds a timestamped line to an existing notes blob. Notes
// are only ever appended, never overwritten.
func appendNote(existing, note string) string {
	line := fmt.Sprintf("[%s] %s", time.Now().Format(time.RFC3339), note)
	if existing == "" {
		return line
	}
	return existing + "\n" + line
}
