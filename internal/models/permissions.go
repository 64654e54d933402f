package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Resource and Action form a closed vocabulary; permission maps are
// validated against it when loaded so a stray key in the stored JSON
// fails loudly instead of silently granting nothing.
type Resource string

const (
	ResourceCars       Resource = "cars"
	ResourceSpareParts Resource = "spare_parts"
	ResourceOrders     Resource = "orders"
	ResourceServices   Resource = "services"
	ResourceTestDrives Resource = "test_drives"
	ResourceUsers      Resource = "users"
	ResourceDashboard  Resource = "dashboard"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

var knownResources = map[Resource]bool{
	ResourceCars:       true,
	ResourceSpareParts: true,
	ResourceOrders:     true,
	ResourceServices:   true,
	ResourceTestDrives: true,
	ResourceUsers:      true,
	ResourceDashboard:  true,
}

var knownActions = map[Action]bool{
	ActionCreate: true,
	ActionRead:   true,
	ActionUpdate: true,
	ActionDelete: true,
}

// PermissionMap maps a resource to the actions allowed on it.
type PermissionMap map[Resource]map[Action]bool

// Allows reports whether the map grants action on resource.
func (p PermissionMap) Allows(resource Resource, action Action) bool {
	actions, ok := p[resource]
	if !ok {
		return false
	}
	return actions[action]
}

// Validate rejects maps that reference resources or actions outside the
// closed enums above.
func (p PermissionMap) Validate() error {
	for resource, actions := range p {
		if !knownResources[resource] {
			return fmt.Errorf("unknown resource %q in permission map", resource)
		}
		for action := range actions {
			if !knownActions[action] {
				return fmt.Errorf("unknown action %q for resource %q in permission map", action, resource)
			}
		}
	}
	return nil
}

// Value implements driver.Valuer so gorm stores the map as JSON.
func (p PermissionMap) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal permission map: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner; the loaded map is validated immediately.
func (p *PermissionMap) Scan(value interface{}) error {
	if value == nil {
		*p = PermissionMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported permission map source type %T", value)
	}
	var m PermissionMap
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to unmarshal permission map: %w", err)
	}
	if err := m.Validate(); err != nil {
		return err
	}
	*p = m
	return nil
}

type RolePermission struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Role        string         `json:"role" gorm:"unique;not null"`
	Permissions PermissionMap  `json:"permissions" gorm:"type:text;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// DefaultPermissions returns the built-in permission set for a role.
// Admin gets everything; the seed script persists these on first run.
func DefaultPermissions(role UserRole) PermissionMap {
	full := map[Action]bool{ActionCreate: true, ActionRead: true, ActionUpdate: true, ActionDelete: true}
	readOnly := map[Action]bool{ActionRead: true}

	switch role {
	case RoleAdmin:
		m := PermissionMap{}
		for resource := range knownResources {
			m[resource] = map[Action]bool{ActionCreate: true, ActionRead: true, ActionUpdate: true, ActionDelete: true}
		}
		return m
	case RoleManager:
		return PermissionMap{
			ResourceCars:       full,
			ResourceSpareParts: full,
			ResourceOrders:     full,
			ResourceServices:   full,
			ResourceTestDrives: full,
			ResourceUsers:      readOnly,
			ResourceDashboard:  readOnly,
		}
	case RoleSales:
		return PermissionMap{
			ResourceCars:       readOnly,
			ResourceSpareParts: readOnly,
			ResourceOrders:     map[Action]bool{ActionCreate: true, ActionRead: true, ActionUpdate: true},
			ResourceTestDrives: map[Action]bool{ActionCreate: true, ActionRead: true, ActionUpdate: true},
			ResourceDashboard:  readOnly,
		}
	case RoleTechnician:
		return PermissionMap{
			ResourceCars:       readOnly,
			ResourceSpareParts: readOnly,
			ResourceServices:   map[Action]bool{ActionCreate: true, ActionRead: true, ActionUpdate: true},
		}
	default:
		return PermissionMap{
			ResourceCars:       readOnly,
			ResourceOrders:     map[Action]bool{ActionCreate: true, ActionRead: true},
			ResourceServices:   map[Action]bool{ActionCreate: true, ActionRead: true},
			ResourceTestDrives: map[Action]bool{ActionCreate: true, ActionRead: true},
		}
	}
}
