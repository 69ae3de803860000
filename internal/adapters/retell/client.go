// Package retell wraps the voice platform's management API. Only the
// operations the admin surface needs are implemented; call routing, speech
// and reasoning all stay on the platform side.
package retell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.retellai.com"

// Client handles communication with the Retell API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	// The platform rate-limits aggressively; the limiter keeps bursts of
	// admin actions from tripping it.
	limiter *rate.Limiter
}

// NewClient creates a platform client with a bounded request timeout.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// CreateLLMRequest configures the reasoning engine behind an agent.
type CreateLLMRequest struct {
	Model         string `json:"model"`
	GeneralPrompt string `json:"general_prompt"`
}

// LLMResponse is the created reasoning engine.
type LLMResponse struct {
	LLMID string `json:"llm_id"`
}

// ResponseEngine links an agent to its reasoning engine.
type ResponseEngine struct {
	LLMID string `json:"llm_id"`
	Type  string `json:"type"`
}

// CreateAgentRequest provisions an agent on the platform.
type CreateAgentRequest struct {
	AgentName               string         `json:"agent_name"`
	VoiceID                 string         `json:"voice_id"`
	ResponseEngine          ResponseEngine `json:"response_engine"`
	Language                string         `json:"language,omitempty"`
	VoiceTemperature        float64        `json:"voice_temperature,omitempty"`
	InterruptionSensitivity float64        `json:"interruption_sensitivity,omitempty"`
}

// AgentResponse is the provisioned agent.
type AgentResponse struct {
	AgentID string `json:"agent_id"`
	VoiceID string `json:"voice_id"`
}

// WebCallRequest starts a browser test call.
type WebCallRequest struct {
	AgentID string `json:"agent_id"`
}

// WebCallResponse carries the token the browser client joins with.
type WebCallResponse struct {
	CallID      string `json:"call_id"`
	AccessToken string `json:"access_token"`
}

// PhoneCallRequest dials an outbound phone call.
type PhoneCallRequest struct {
	FromNumber      string `json:"from_number"`
	ToNumber        string `json:"to_number"`
	OverrideAgentID string `json:"override_agent_id,omitempty"`
}

// PhoneCallResponse is the created phone call.
type PhoneCallResponse struct {
	CallID string `json:"call_id"`
}

// PhoneNumber is one number purchased on the platform.
type PhoneNumber struct {
	PhoneNumber string `json:"phone_number"`
}

// CreateLLM creates a reasoning engine for an agent.
func (c *Client) CreateLLM(ctx context.Context, req *CreateLLMRequest) (*LLMResponse, error) {
	var resp LLMResponse
	if err := c.do(ctx, http.MethodPost, "/create-retell-llm", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create llm: %w", err)
	}
	return &resp, nil
}

// CreateAgent provisions an agent on the platform.
func (c *Client) CreateAgent(ctx context.Context, req *CreateAgentRequest) (*AgentResponse, error) {
	var resp AgentResponse
	if err := c.do(ctx, http.MethodPost, "/create-agent", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	return &resp, nil
}

// DeleteAgent removes an agent from the platform.
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	if err := c.do(ctx, http.MethodDelete, "/delete-agent/"+agentID, nil, nil); err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}
	return nil
}

// CreateWebCall starts a browser test call against an agent.
func (c *Client) CreateWebCall(ctx context.Context, req *WebCallRequest) (*WebCallResponse, error) {
	var resp WebCallResponse
	if err := c.do(ctx, http.MethodPost, "/v2/create-web-call", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create web call: %w", err)
	}
	return &resp, nil
}

// CreatePhoneCall dials an outbound phone call.
func (c *Client) CreatePhoneCall(ctx context.Context, req *PhoneCallRequest) (*PhoneCallResponse, error) {
	var resp PhoneCallResponse
	if err := c.do(ctx, http.MethodPost, "/v2/create-phone-call", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create phone call: %w", err)
	}
	return &resp, nil
}

// ListPhoneNumbers returns the numbers purchased on the platform.
func (c *Client) ListPhoneNumbers(ctx context.Context) ([]PhoneNumber, error) {
	var resp []PhoneNumber
	if err := c.do(ctx, http.MethodGet, "/list-phone-numbers", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list phone numbers: %w", err)
	}
	return resp, nil
}

// do sends one authenticated request and decodes the response into out when
// out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("platform returned %d: %s", resp.StatusCode, string(snippet))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
