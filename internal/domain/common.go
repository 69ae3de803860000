package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB represents a PostgreSQL JSONB field
type JSONB map[string]interface{}

// Value implements the driver.Valuer interface for JSONB
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for JSONB
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into JSONB", value)
	}

	return json.Unmarshal(bytes, j)
}

// Call lifecycle status constants as reported by the voice platform.
const (
	CallStatusRegistered = "registered"
	CallStatusOngoing    = "ongoing"
	CallStatusEnded      = "ended"
	CallStatusError      = "error"
)

// SentimentUnknown is recorded when the platform supplies no sentiment tag.
const SentimentUnknown = "unknown"

// AppointmentStatusConfirmed is the only status this service ever writes.
const AppointmentStatusConfirmed = "confirmed"
