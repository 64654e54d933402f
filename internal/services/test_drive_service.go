package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Euaell/Car-Dealership/internal/apperrors"
	"github.com/Euaell/Car-Dealership/internal/models"
	"github.com/Euaell/Car-Dealership/internal/repository"

	"github.com/sirupsen/logrus"
)

type TestDriveService interface {
	CreateTestDrive(ctx context.Context, input CreateTestDriveInput) (*models.TestDrive, error)
	GetTestDrives(ctx context.Context, userID uint) ([]models.TestDrive, error)
	CompleteTestDrive(ctx context.Context, id uint, notes string) (*models.TestDrive, error)
	CancelTestDrive(ctx context.Context, id uint, reason string) (*models.TestDrive, error)
}

type CreateTestDriveInput struct {
	UserID        uint      `json:"user_id"`
	CarID         uint      `json:"car_id"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Notes         string    `json:"notes"`
}

type testDriveService struct {
	tdRepo   repository.TestDriveRepository
	carRepo  repository.CarRepository
	userRepo repository.UserRepository
	logger   *logrus.Logger
}

func NewTestDriveService(
	tdRepo repository.TestDriveRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	logger *logrus.Logger,
) TestDriveService {
	return &testDriveService{tdRepo: tdRepo, carRepo: carRepo, userRepo: userRepo, logger: logger}
}

func (s *testDriveService) CreateTestDrive(ctx context.Context, input CreateTestDriveInput) (*models.TestDrive, error) {
	if !input.ScheduledDate.After(time.Now()) {
		return nil, apperrors.Validation("scheduled_date", "scheduled date must be in the future")
	}
	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, notFoundOr(err, "user", input.UserID)
	}
	car, err := s.carRepo.GetByID(ctx, input.CarID)
	if err != nil {
		return nil, notFoundOr(err, "car", input.CarID)
	}
	if car.Status == string(models.CarSold) {
		return nil, apperrors.Conflict(fmt.Sprintf("car %s has been sold", car.VIN))
	}

	td := &models.TestDrive{
		UserID:        input.UserID,
		CarID:         input.CarID,
		Status:        string(models.TestDriveScheduled),
		ScheduledDate: input.ScheduledDate,
		Notes:         input.Notes,
	}
	if err := s.tdRepo.Create(ctx, td); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.WithFields(logrus.Fields{"test_drive_id": td.ID, "car_id": td.CarID}).Info("test drive scheduled")
	return td, nil
}

func (s *testDriveService) GetTestDrives(ctx context.Context, userID uint) ([]models.TestDrive, error) {
	drives, err := s.tdRepo.GetAll(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return drives, nil
}

func (s *testDriveService) CompleteTestDrive(ctx context.Context, id uint, notes string) (*models.TestDrive, error) {
	return s.finishTestDrive(ctx, id, models.TestDriveCompleted, notes)
}

func (s *testDriveService) CancelTestDrive(ctx context.Context, id uint, reason string) (*models.TestDrive, error) {
	if reason == "" {
		reason = "no reason given"
	}
	return s.finishTestDrive(ctx, id, models.TestDriveCancelled, "Cancelled: "+reason)
}

func (s *testDriveService) finishTestDrive(ctx context.Context, id uint, to models.TestDriveStatus, note string) (*models.TestDrive, error) {
	td, err := s.tdRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "test drive", id)
	}
	if td.Status != string(models.TestDriveScheduled) {
		return nil, apperrors.InvalidState(fmt.Sprintf("test drive is already %s", td.Status))
	}

	td.Status = string(to)
	if note != "" {
		td.Notes = appendNote(td.Notes, note)
	}
	if err := s.tdRepo.Update(ctx, td); err != nil {
		return nil, apperrors.Internal(err)
	}
	return td, nil
}
