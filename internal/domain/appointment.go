package domain

import (
	"time"
)

// Appointment is one booking captured by an agent mid-call. Rows are written
// exactly once per successful tool invocation and never updated afterwards.
// AppointmentTime is kept as the free-form string produced by the reasoning
// engine; parsing it into a timestamp is the consumer's problem.
type Appointment struct {
	ID              string    `json:"id" gorm:"type:uuid;primary_key"`
	OrganizationID  string    `json:"organization_id" gorm:"type:uuid;not null;index"`
	AgentID         string    `json:"agent_id" gorm:"type:varchar(255)"`
	CustomerName    string    `json:"customer_name" gorm:"type:varchar(255);not null"`
	CustomerPhone   string    `json:"customer_phone" gorm:"type:varchar(64)"`
	AppointmentTime string    `json:"appointment_time" gorm:"type:varchar(255);not null"`
	ExternalCallID  string    `json:"external_call_id" gorm:"type:varchar(255);index"`
	Status          string    `json:"status" gorm:"type:varchar(32);not null"`
	Summary         string    `json:"summary" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the table name for Appointment
func (Appointment) TableName() string {
	return "appointments"
}
