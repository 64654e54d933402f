package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Euaell/Car-Dealership/internal/apperrors"
	"github.com/Euaell/Car-Dealership/internal/models"
	"github.com/Euaell/Car-Dealership/internal/repository"

	"gorm.io/gorm"
)

func newTestDriveService(db *gorm.DB) TestDriveService {
	return NewTestDriveService(
		repository.NewTestDriveRepository(db),
		repository.NewCarRepository(db),
		repository.NewUserRepository(db),
		newTestLogger(),
	)
}

func TestCreateTestDrive(t *testing.T) {
	db := newTestDB(t)
	svc := newTestDriveService(db)
	user := seedUser(t, db)
	car := seedCar(t, db, testVIN, models.CarAvailable, 20000)

	td, err := svc.CreateTestDrive(context.Background(), CreateTestDriveInput{
		UserID:        user.ID,
		CarID:         car.ID,
		ScheduledDate: time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateTestDrive: %v", err)
	}
	if td.Status != string(models.TestDriveScheduled) {
		t.Errorf("expected SCHEDULED, got %s", td.Status)
	}
}

func TestCreateTestDriveRejectsPastDateAndSoldCar(t *testing.T) {
	db := newTestDB(t)
	svc := newTestDriveService(db)
	user := seedUser(t, db)
	sold := seedCar(t, db, testVIN, models.CarSold, 20000)

	_, err := svc.CreateTestDrive(context.Background(), CreateTestDriveInput{
		UserID:        user.ID,
		CarID:         sold.ID,
		ScheduledDate: time.Now().Add(-time.Hour),
	})
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error for past date, got %v", err)
	}

	_, err = svc.CreateTestDrive(context.Background(), CreateTestDriveInput{
		UserID:        user.ID,
		CarID:         sold.ID,
		ScheduledDate: time.Now().Add(24 * time.Hour),
	})
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Fatalf("expected conflict for sold car, got %v", err)
	}
}

func TestCompleteAndCancelTestDrive(t *testing.T) {
	db := newTestDB(t)
	svc := newTestDriveService(db)
	user := seedUser(t, db)
	car := seedCar(t, db, testVIN, models.CarAvailable, 20000)

	input := CreateTestDriveInput{UserID: user.ID, CarID: car.ID, ScheduledDate: time.Now().Add(24 * time.Hour)}

	td, err := svc.CreateTestDrive(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateTestDrive: %v", err)
	}
	done, err := svc.CompleteTestDrive(context.Background(), td.ID, "customer liked it")
	if err != nil {
		t.Fatalf("CompleteTestDrive: %v", err)
	}
	if done.Status != string(models.TestDriveCompleted) {
		t.Errorf("expected COMPLETED, got %s", done.Status)
	}
	if !strings.Contains(done.Notes, "customer liked it") {
		t.Errorf("expected notes to carry the comment, got %q", done.Notes)
	}

	// Finished drives cannot be cancelled afterwards.
	if _, err := svc.CancelTestDrive(context.Background(), td.ID, "changed mind"); apperrors.KindOf(err) != apperrors.KindInvalidState {
		t.Fatalf("expected invalid state cancelling a completed drive, got %v", err)
	}

	other, err := svc.CreateTestDrive(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateTestDrive: %v", err)
	}
	cancelled, err := svc.CancelTestDrive(context.Background(), other.ID, "")
	if err != nil {
		t.Fatalf("CancelTestDrive: %v", err)
	}
	if cancelled.Status != string(models.TestDriveCancelled) {
		t.Errorf("expected CANCELLED, got %s", cancelled.Status)
	}
	if !strings.Contains(cancelled.Notes, "no reason given") {
		t.Errorf("expected default cancel reason in notes, got %q", cancelled.Notes)
	}
}
