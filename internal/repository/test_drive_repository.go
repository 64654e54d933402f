package repository

import (
	"context"

	"github.com/Euaell/Car-Dealership/internal/models"

	"gorm.io/gorm"
)

type TestDriveRepository interface {
	Create(ctx context.Context, td *models.TestDrive) error
	GetByID(ctx context.Context, id uint) (*models.TestDrive, error)
	GetAll(ctx context.Context, userID uint) ([]models.TestDrive, error)
	Update(ctx context.Context, td *models.TestDrive) error
}

type testDriveRepository struct {
	db *gorm.DB
}

func NewTestDriveRepository(db *gorm.DB) TestDriveRepository {
	return &testDriveRepository{db: db}
}

func (r *testDriveRepository) Create(ctx context.Context, td *models.TestDrive) error {
	return r.db.WithContext(ctx).Create(td).Error
}

func (r *testDriveRepository) GetByID(ctx context.Context, id uint) (*models.TestDrive, error) {
	var td models.TestDrive
	if err := r.db.WithContext(ctx).First(&td, id).Error; err != nil {
		return nil, err
	}
	return &td, nil
}

func (r *testDriveRepository) GetAll(ctx context.Context, userID uint) ([]models.TestDrive, error) {
	q := r.db.WithContext(ctx)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var drives []models.TestDrive
	err := q.Order("scheduled_date").Find(&drives).Error
	return drives, err
}

func (r *testDriveRepository) Update(ctx context.Context, td *models.TestDrive) error {
	return r.db.WithContext(ctx).Save(td).Error
}
