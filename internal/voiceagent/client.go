package voiceagent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// ErrNotConfigured is returned when the client is missing credentials.
var ErrNotConfigured = errors.New("voiceagent: client not configured")

// Client places outbound calls through the ElevenLabs conversational AI API.
type Client struct {
	apiKey        string
	agentID       string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
}

// Config holds configuration for the voice agent client.
type Config struct {
	APIKey        string
	AgentID       string
	PhoneNumberID string // ElevenLabs phone number id bound to the Twilio trunk
	BaseURL       string // overridable for tests
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:        cfg.APIKey,
		agentID:       cfg.AgentID,
		phoneNumberID: cfg.PhoneNumberID,
		baseURL:       baseURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether the client has everything needed to place a call.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != "" && c.agentID != "" && c.phoneNumberID != ""
}

// CallRequest describes one outbound call to place.
type CallRequest struct {
	ToNumber         string
	FirstMessage     string
	Language         string
	DynamicVariables map[string]string
}

// CallResult is the provider's acknowledgment of a placed call.
type CallResult struct {
	ConversationID string `json:"conversation_id"`
	CallSID        string `json:"callSid"`
	Success        bool   `json:"success"`
	Message        string `json:"message"`
}

type outboundCallRequest struct {
	AgentID            string          `json:"agent_id"`
	AgentPhoneNumberID string          `json:"agent_phone_number_id"`
	ToNumber           string          `json:"to_number"`
	InitiationData     *initiationData `json:"conversation_initiation_client_data,omitempty"`
}

type initiationData struct {
	DynamicVariables map[string]string `json:"dynamic_variables,omitempty"`
	ConfigOverride   *configOverride   `json:"conversation_config_override,omitempty"`
}

type configOverride struct {
	Agent agentOverride `json:"agent"`
}

type agentOverride struct {
	FirstMessage string `json:"first_message,omitempty"`
	Language     string `json:"language,omitempty"`
}

// PlaceCall asks the agent platform to dial the customer over the Twilio
// trunk. The platform dials asynchronously; a success here only means the
// call was accepted for dialing.
func (c *Client) PlaceCall(ctx context.Context, call CallRequest) (*CallResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req := outboundCallRequest{
		AgentID:            c.agentID,
		AgentPhoneNumberID: c.phoneNumberID,
		ToNumber:           call.ToNumber,
	}
	if len(call.DynamicVariables) > 0 || call.FirstMessage != "" || call.Language != "" {
		data := &initiationData{DynamicVariables: call.DynamicVariables}
		if call.FirstMessage != "" || call.Language != "" {
			data.ConfigOverride = &configOverride{
				Agent: agentOverride{FirstMessage: call.FirstMessage, Language: call.Language},
			}
		}
		req.InitiationData = data
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("voiceagent: marshal request: %w", err)
	}

	url := c.baseURL + "/v1/convai/twilio/outbound-call"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("voiceagent: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("voiceagent: send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("voiceagent: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("voiceagent: provider error %d: %s", resp.StatusCode, providerDetail(respBody))
	}

	var result CallResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("voiceagent: decode response: %w", err)
	}
	return &result, nil
}

// providerDetail pulls a human-readable message out of an error body.
// The API is inconsistent about the field name, so try the usual ones
// before falling back to the raw body.
func providerDetail(body []byte) string {
	var e struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		switch {
		case e.Message != "":
			return e.Message
		case e.Error != "":
			return e.Error
		case len(e.Detail) > 0:
			var s string
			if json.Unmarshal(e.Detail, &s) == nil {
				return s
			}
			return string(e.Detail)
		}
	}
	return string(body)
}
