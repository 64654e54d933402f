package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Euaell/Car-Dealership/internal/auth"
	"github.com/Euaell/Car-Dealership/internal/config"
	"github.com/Euaell/Car-Dealership/internal/database"
	"github.com/Euaell/Car-Dealership/internal/models"
	"github.com/Euaell/Car-Dealership/internal/repository"
)

func main() {
	fmt.Println("Initializing database...")

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userRepo := repository.NewUserRepository(db)

	// Create default admin user
	if _, err := userRepo.GetByEmail(ctx, "admin@dealership.local"); err == nil {
		fmt.Println("Admin user already exists")
	} else {
		hash, err := auth.HashPassword("changeme123")
		if err != nil {
			log.Fatal("Failed to hash admin password:", err)
		}
		admin := &models.User{
			FirstName: "Admin",
			LastName:  "User",
			Email:     "admin@dealership.local",
			Password:  hash,
			Role:      string(models.RoleAdmin),
			IsActive:  true,
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			fmt.Println("Admin user created")
			fmt.Println("Email: admin@dealership.local")
			fmt.Println("Password: changeme123")
		}
	}

	// Persist default permission maps for every role
	fmt.Println("Creating default role permissions...")
	roles := []models.UserRole{
		models.RoleAdmin,
		models.RoleManager,
		models.RoleSales,
		models.RoleTechnician,
		models.RoleCustomer,
	}
	for _, role := range roles {
		if _, err := userRepo.GetRolePermissions(ctx, string(role)); err == nil {
			continue
		}
		rp := &models.RolePermission{
			Role:        string(role),
			Permissions: models.DefaultPermissions(role),
		}
		if err := userRepo.SaveRolePermissions(ctx, rp); err != nil {
			log.Printf("Warning: Failed to save permissions for role %s: %v", role, err)
		}
	}

	// Create default service types
	fmt.Println("Creating default service types...")
	serviceRepo := repository.NewServiceRepository(db)
	existing, err := serviceRepo.GetAllServiceTypes(ctx)
	if err != nil {
		log.Fatal("Failed to list service types:", err)
	}
	if len(existing) == 0 {
		serviceTypes := []models.ServiceType{
			{Name: "Oil Change", BasePrice: 49.99, DurationMinutes: 30},
			{Name: "Tire Rotation", BasePrice: 29.99, DurationMinutes: 45},
			{Name: "Brake Inspection", BasePrice: 89.99, DurationMinutes: 60},
			{Name: "Full Service", BasePrice: 249.99, DurationMinutes: 180},
		}
		for i := range serviceTypes {
			if err := serviceRepo.CreateServiceType(ctx, &serviceTypes[i]); err != nil {
				log.Printf("Warning: Failed to create service type %s: %v", serviceTypes[i].Name, err)
			}
		}
	}

	fmt.Println("Database initialization completed successfully!")
}
