package repository

import (
	"context"
	"time"

	"github.com/Euaell/Car-Dealership/internal/models"

	"gorm.io/gorm"
)

type ServiceRepository interface {
	WithTx(tx *gorm.DB) ServiceRepository
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id uint) (*models.Service, error)
	GetAll(ctx context.Context, userID uint, status string) ([]models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	// CountConflicts counts SCHEDULED or IN_PROGRESS appointments whose
	// scheduled date falls inside [from, to], excluding excludeID.
	// Deliberately unscoped by car or technician: the business runs a
	// single service bay today.
	CountConflicts(ctx context.Context, from, to time.Time, excludeID uint) (int64, error)
	Upcoming(ctx context.Context, within time.Duration, limit int) ([]models.Service, error)
	GetServiceType(ctx context.Context, id uint) (*models.ServiceType, error)
	CreateServiceType(ctx context.Context, st *models.ServiceType) error
	GetAllServiceTypes(ctx context.Context) ([]models.ServiceType, error)
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) WithTx(tx *gorm.DB) ServiceRepository {
	return &serviceRepository{db: tx}
}

func (r *serviceRepository) Create(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *serviceRepository) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) GetAll(ctx context.Context, userID uint, status string) ([]models.Service, error) {
	q := r.db.WithContext(ctx)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var services []models.Service
	err := q.Order("scheduled_date").Find(&services).Error
	return services, err
}

func (r *serviceRepository) Update(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Save(service).Error
}

func (r *serviceRepository) CountConflicts(ctx context.Context, from, to time.Time, excludeID uint) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("status IN ?", []string{string(models.ServiceScheduled), string(models.ServiceInProgress)}).
		Where("scheduled_date BETWEEN ? AND ?", from, to)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *serviceRepository) Upcoming(ctx context.Context, within time.Duration, limit int) ([]models.Service, error) {
	now := time.Now()
	var services []models.Service
	err := r.db.WithContext(ctx).
		Where("status = ?", string(models.ServiceScheduled)).
		Where("scheduled_date BETWEEN ? AND ?", now, now.Add(within)).
		Order("scheduled_date").
		Limit(limit).
		Find(&services).Error
	return services, err
}

func (r *serviceRepository) GetServiceType(ctx context.Context, id uint) (*models.ServiceType, error) {
	var st models.ServiceType
	if err := r.db.WithContext(ctx).First(&st, id).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *serviceRepository) CreateServiceType(ctx context.Context, st *models.ServiceType) error {
	return r.db.WithContext(ctx).Create(st).Error
}

func (r *serviceRepository) GetAllServiceTypes(ctx context.Context) ([]models.ServiceType, error) {
	var types []models.ServiceType
	err := r.db.WithContext(ctx).Order("name").Find(&types).Error
	return types, err
}
