package services

import (
	"context"
	"io"
	"testing"

	"github.com/Euaell/Car-Dealership/internal/database"
	"github.com/Euaell/Car-Dealership/internal/models"
	"github.com/Euaell/Car-Dealership/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
// Connections are capped at one so every query sees the same memory DB.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		FirstName: "Test",
		LastName:  "Customer",
		Email:     "customer@example.com",
		Password:  "not-a-real-hash",
		Role:      string(models.RoleCustomer),
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedCar(t *testing.T, db *gorm.DB, vin string, status models.CarStatus, price float64) *models.Car {
	t.Helper()
	car := &models.Car{
		VIN:    vin,
		Make:   "Toyota",
		Model:  "Corolla",
		Year:   2022,
		Price:  price,
		Status: string(status),
	}
	if err := db.Create(car).Error; err != nil {
		t.Fatalf("seed car: %v", err)
	}
	return car
}

func seedPart(t *testing.T, db *gorm.DB, partNumber string, stock, minStock int, price float64) *models.SparePart {
	t.Helper()
	part := &models.SparePart{
		PartNumber:    partNumber,
		Name:          "Part " + partNumber,
		UnitPrice:     price,
		Stock:         stock,
		MinStockLevel: minStock,
	}
	if err := db.Create(part).Error; err != nil {
		t.Fatalf("seed part: %v", err)
	}
	return part
}

func partStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	part, err := repository.NewSparePartRepository(db).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload part %d: %v", id, err)
	}
	return part.Stock
}

func carStatus(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	car, err := repository.NewCarRepository(db).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload car %d: %v", id, err)
	}
	return car.Status
}

func newOrderService(db *gorm.DB) OrderService {
	return NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewCarRepository(db),
		repository.NewSparePartRepository(db),
		repository.NewUserRepository(db),
		newTestLogger(),
	)
}
