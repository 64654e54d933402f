package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	FirstName   string         `json:"first_name" gorm:"not null"`
	LastName    string         `json:"last_name" gorm:"not null"`
	Email       string         `json:"email" gorm:"unique;not null"`
	Password    string         `json:"-" gorm:"not null"`
	PhoneNumber string         `json:"phone_number"`
	Role        string         `json:"role" gorm:"default:'customer'"` // admin, manager, sales, technician, customer
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleManager    UserRole = "manager"
	RoleSales      UserRole = "sales"
	RoleTechnician UserRole = "technician"
	RoleCustomer   UserRole = "customer"
)

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
