package repository

import (
	"context"

	"github.com/Euaell/Car-Dealership/internal/models"

	"gorm.io/gorm"
)

type CarRepository interface {
	WithTx(tx *gorm.DB) CarRepository
	Create(ctx context.Context, car *models.Car) error
	GetByID(ctx context.Context, id uint) (*models.Car, error)
	GetByVIN(ctx context.Context, vin string) (*models.Car, error)
	GetAll(ctx context.Context, status string) ([]models.Car, error)
	Update(ctx context.Context, car *models.Car) error
	Delete(ctx context.Context, id uint) error
	// UpdateStatusIf flips the car's status only when it currently holds
	// the expected value, reporting whether a row changed. This is the
	// single write path for all status synchronization; it makes repeated
	// lifecycle side effects no-ops instead of double-applications.
	UpdateStatusIf(ctx context.Context, id uint, from, to models.CarStatus) (bool, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type carRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) WithTx(tx *gorm.DB) CarRepository {
	return &carRepository{db: tx}
}

func (r *carRepository) Create(ctx context.Context, car *models.Car) error {
	return r.db.WithContext(ctx).Create(car).Error
}

func (r *carRepository) GetByID(ctx context.Context, id uint) (*models.Car, error) {
	var car models.Car
	if err := r.db.WithContext(ctx).First(&car, id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *carRepository) GetByVIN(ctx context.Context, vin string) (*models.Car, error) {
	var car models.Car
	if err := r.db.WithContext(ctx).Where("vin = ?", vin).First(&car).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *carRepository) GetAll(ctx context.Context, status string) ([]models.Car, error) {
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var cars []models.Car
	err := q.Order("created_at DESC").Find(&cars).Error
	return cars, err
}

func (r *carRepository) Update(ctx context.Context, car *models.Car) error {
	return r.db.WithContext(ctx).Save(car).Error
}

func (r *carRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Car{}, id).Error
}

func (r *carRepository) UpdateStatusIf(ctx context.Context, id uint, from, to models.CarStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Car{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *carRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Car{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}
