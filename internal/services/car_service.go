package services

import (
	"context"
	"fmt"

	"github.com/Euaell/Car-Dealership/internal/apperrors"
	"github.com/Euaell/Car-Dealership/internal/models"
	"github.com/Euaell/Car-Dealership/internal/repository"

	"github.com/sirupsen/logrus"
)

type CarService interface {
	CreateCar(ctx context.Context, car *models.Car) error
	GetCarByID(ctx context.Context, id uint) (*models.Car, error)
	GetCarByVIN(ctx context.Context, vin string) (*models.Car, error)
	GetCars(ctx context.Context, status string) ([]models.Car, error)
	UpdateCar(ctx context.Context, car *models.Car) error
	DeleteCar(ctx context.Context, id uint) error
	SetMaintenance(ctx context.Context, id uint, inMaintenance bool) (*models.Car, error)
}

type carService struct {
	carRepo repository.CarRepository
	logger  *logrus.Logger
}

func NewCarService(carRepo repository.CarRepository, logger *logrus.Logger) CarService {
	return &carService{carRepo: carRepo, logger: logger}
}

func validCarStatus(s string) bool {
	switch models.CarStatus(s) {
	case models.CarAvailable, models.CarReserved, models.CarSold, models.CarMaintenance:
		return true
	}
	return false
}

func (s *carService) CreateCar(ctx context.Context, car *models.Car) error {
	if len(car.VIN) != 17 {
		return apperrors.Validation("vin", "VIN must be exactly 17 characters")
	}
	if car.Price < 0 {
		return apperrors.Validation("price", "price cannot be negative")
	}
	if car.Status == "" {
		car.Status = string(models.CarAvailable)
	}
	// New inventory arrives AVAILABLE or MAINTENANCE; reservation and
	// sale only happen through the order lifecycle.
	if car.Status != string(models.CarAvailable) && car.Status != string(models.CarMaintenance) {
		return apperrors.Validation("status", fmt.Sprintf("new cars cannot be created with status %s", car.Status))
	}
	if err := s.carRepo.Create(ctx, car); err != nil {
		return conflictOr(err, fmt.Sprintf("car with VIN %s already exists", car.VIN))
	}
	s.logger.WithFields(logrus.Fields{"car_id": car.ID, "vin": car.VIN}).Info("car added to inventory")
	return nil
}

func (s *carService) GetCarByID(ctx context.Context, id uint) (*models.Car, error) {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "car", id)
	}
	return car, nil
}

func (s *carService) GetCarByVIN(ctx context.Context, vin string) (*models.Car, error) {
	car, err := s.carRepo.GetByVIN(ctx, vin)
	if err != nil {
		return nil, notFoundOr(err, "car", vin)
	}
	return car, nil
}

func (s *carService) GetCars(ctx context.Context, status string) ([]models.Car, error) {
	if status != "" && !validCarStatus(status) {
		return nil, apperrors.Validation("status", fmt.Sprintf("unknown car status %q", status))
	}
	cars, err := s.carRepo.GetAll(ctx, status)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return cars, nil
}

func (s *carService) UpdateCar(ctx context.Context, car *models.Car) error {
	existing, err := s.carRepo.GetByID(ctx, car.ID)
	if err != nil {
		return notFoundOr(err, "car", car.ID)
	}
	if len(car.VIN) != 17 {
		return apperrors.Validation("vin", "VIN must be exactly 17 characters")
	}
	// Status is owned by the order lifecycle and the maintenance toggle.
	if car.Status != existing.Status {
		return apperrors.InvalidState("car status cannot be changed directly")
	}
	if err := s.carRepo.Update(ctx, car); err != nil {
		return conflictOr(err, fmt.Sprintf("car with VIN %s already exists", car.VIN))
	}
	return nil
}

func (s *carService) DeleteCar(ctx context.Context, id uint) error {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "car", id)
	}
	if car.Status == string(models.CarReserved) {
		return apperrors.Conflict(fmt.Sprintf("car %s is reserved by an open order", car.VIN))
	}
	if err := s.carRepo.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// SetMaintenance toggles a car between AVAILABLE and MAINTENANCE with a
// guarded status update so a concurrent reservation wins cleanly.
func (s *carService) SetMaintenance(ctx context.Context, id uint, inMaintenance bool) (*models.Car, error) {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "car", id)
	}

	from, to := models.CarAvailable, models.CarMaintenance
	if !inMaintenance {
		from, to = models.CarMaintenance, models.CarAvailable
	}
	moved, err := s.carRepo.UpdateStatusIf(ctx, id, from, to)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !moved {
		return nil, apperrors.InvalidState(fmt.Sprintf("car %s is %s, expected %s", car.VIN, car.Status, from))
	}
	car.Status = string(to)
	return car, nil
}
