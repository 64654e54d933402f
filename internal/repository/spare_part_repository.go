package repository

import (
	"context"

	"github.com/Euaell/Car-Dealership/internal/models"

	"gorm.io/gorm"
)

type SparePartRepository interface {
	WithTx(tx *gorm.DB) SparePartRepository
	Create(ctx context.Context, part *models.SparePart) error
	GetByID(ctx context.Context, id uint) (*models.SparePart, error)
	GetByPartNumber(ctx context.Context, partNumber string) (*models.SparePart, error)
	GetAll(ctx context.Context, category string) ([]models.SparePart, error)
	Update(ctx context.Context, part *models.SparePart) error
	Delete(ctx context.Context, id uint) error
	// DecrementStockIf subtracts quantity in a single conditional UPDATE
	// guarded by stock >= quantity, reporting whether a row changed.
	// Two competing requests over the same remaining stock serialize on
	// the row write; only one can see the guard hold.
	DecrementStockIf(ctx context.Context, id uint, quantity int) (bool, error)
	IncrementStock(ctx context.Context, id uint, quantity int) error
	ListLowStock(ctx context.Context) ([]models.SparePart, error)
}

type sparePartRepository struct {
	db *gorm.DB
}

func NewSparePartRepository(db *gorm.DB) SparePartRepository {
	return &sparePartRepository{db: db}
}

func (r *sparePartRepository) WithTx(tx *gorm.DB) SparePartRepository {
	return &sparePartRepository{db: tx}
}

func (r *sparePartRepository) Create(ctx context.Context, part *models.SparePart) error {
	return r.db.WithContext(ctx).Create(part).Error
}

func (r *sparePartRepository) GetByID(ctx context.Context, id uint) (*models.SparePart, error) {
	var part models.SparePart
	if err := r.db.WithContext(ctx).First(&part, id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *sparePartRepository) GetByPartNumber(ctx context.Context, partNumber string) (*models.SparePart, error) {
	var part models.SparePart
	if err := r.db.WithContext(ctx).Where("part_number = ?", partNumber).First(&part).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *sparePartRepository) GetAll(ctx context.Context, category string) ([]models.SparePart, error) {
	q := r.db.WithContext(ctx)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var parts []models.SparePart
	err := q.Order("part_number").Find(&parts).Error
	return parts, err
}

func (r *sparePartRepository) Update(ctx context.Context, part *models.SparePart) error {
	return r.db.WithContext(ctx).Save(part).Error
}

func (r *sparePartRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.SparePart{}, id).Error
}

func (r *sparePartRepository) DecrementStockIf(ctx context.Context, id uint, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SparePart{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *sparePartRepository) IncrementStock(ctx context.Context, id uint, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.SparePart{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", quantity)).Error
}

func (r *sparePartRepository) ListLowStock(ctx context.Context) ([]models.SparePart, error) {
	var parts []models.SparePart
	err := r.db.WithContext(ctx).
		Where("stock <= min_stock_level").
		Order("stock").
		Find(&parts).Error
	return parts, err
}
