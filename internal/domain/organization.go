package domain

import (
	"time"
)

// Organization represents a customer account that owns agents, calls and
// appointments.
type Organization struct {
	ID           string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	CustomConfig JSONB     `json:"custom_config" gorm:"type:jsonb"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	Disabled     bool      `json:"disabled" gorm:"default:false"`
}

// TableName sets the table name for Organization
func (Organization) TableName() string {
	return "organizations"
}

// CreateOrganizationRequest represents the request to create a new organization
type CreateOrganizationRequest struct {
	Name         string `json:"name" validate:"required"`
	CustomConfig JSONB  `json:"custom_config,omitempty"`
}
