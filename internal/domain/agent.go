package domain

import (
	"time"
)

// Agent is the local registry row for an agent provisioned on the voice
// platform. ExternalAgentID is the platform-issued identifier; every inbound
// webhook and tool callback is attributed to an organization through it.
type Agent struct {
	ID              string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrganizationID  string    `json:"organization_id" gorm:"type:uuid;not null;index"`
	ExternalAgentID string    `json:"external_agent_id" gorm:"type:varchar(255);uniqueIndex:uni_agents_external_agent_id;not null"`
	Name            string    `json:"name" gorm:"type:varchar(255);not null"`
	VoiceID         string    `json:"voice_id" gorm:"type:varchar(255)"`
	LLMID           string    `json:"llm_id" gorm:"column:llm_id;type:varchar(255)"`
	Language        string    `json:"language" gorm:"type:varchar(16)"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	Disabled        bool      `json:"disabled" gorm:"default:false"`
}

// TableName sets the table name for Agent
func (Agent) TableName() string {
	return "agents"
}

// CreateAgentRequest represents the request to provision a new agent.
type CreateAgentRequest struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Prompt         string `json:"prompt"`
	VoiceID        string `json:"voice_id"`
	Language       string `json:"language"`
}
