package domain

import (
	"time"
)

// CallRecord is the authoritative record for one finished call. CallID is the
// platform-issued identifier and the idempotency key: at most one row exists
// per CallID, and re-delivered terminal events replace the row rather than
// append to it.
type CallRecord struct {
	ID              string    `json:"id" gorm:"type:uuid;primary_key"`
	CallID          string    `json:"call_id" gorm:"type:varchar(255);uniqueIndex:uni_call_records_call_id;not null"`
	AgentID         string    `json:"agent_id" gorm:"type:varchar(255);index"`
	OrganizationID  string    `json:"organization_id" gorm:"type:uuid;not null;index"`
	Status          string    `json:"status" gorm:"type:varchar(32)"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds int64     `json:"duration_seconds" gorm:"not null;default:0"`
	Cost            float64   `json:"cost" gorm:"type:numeric(12,4);not null;default:0"`
	RecordingURL    string    `json:"recording_url" gorm:"type:text"`
	Transcript      string    `json:"transcript" gorm:"type:text"`
	Sentiment       string    `json:"sentiment" gorm:"type:varchar(64);default:unknown"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for CallRecord
func (CallRecord) TableName() string {
	return "call_records"
}

// CallStats aggregates an organization's call volume for the dashboard.
type CallStats struct {
	TotalCalls   int64   `json:"total_calls"`
	TotalCost    float64 `json:"total_cost"`
	TotalSeconds int64   `json:"total_seconds"`
}
