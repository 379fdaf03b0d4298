package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTwilioBaseURL = "https://api.twilio.com"

// TwilioClient sends messages through Twilio Programmable Messaging.
// It is the only component in the repo that talks to the SMS gateway.
type TwilioClient struct {
	accountSID   string
	authToken    string
	senderNumber string
	baseURL      string
	httpClient   *http.Client
}

type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	SenderNumber string
	// BaseURL overrides the Twilio API host; used by tests.
	BaseURL string
}

func NewTwilioClient(cfg TwilioConfig) *TwilioClient {
	base := cfg.BaseURL
	if base == "" {
		base = defaultTwilioBaseURL
	}
	return &TwilioClient{
		accountSID:   cfg.AccountSID,
		authToken:    cfg.AuthToken,
		senderNumber: cfg.SenderNumber,
		baseURL:      strings.TrimSuffix(base, "/"),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether the gateway credentials are present.
func (c *TwilioClient) Configured() bool {
	return c != nil && c.accountSID != "" && c.authToken != "" && c.senderNumber != ""
}

func (c *TwilioClient) SenderNumber() string {
	if c == nil {
		return ""
	}
	return c.senderNumber
}

// twilioMessageResponse is the subset of the Messages API response we read.
type twilioMessageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    int    `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	Message      string `json:"message,omitempty"`
}

// SendMessage issues a single send request and returns the provider message
// identifier. Failures carry the provider's error detail verbatim; nothing is
// retried here. Duplicate SMS delivery to a bank customer is worse than a
// single missed notification.
func (c *TwilioClient) SendMessage(ctx context.Context, to, body string) (string, error) {
	apiURL := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.senderNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("sms: build request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sms: send failed: %w", err)
	}
	defer resp.Body.Close()

	var msg twilioMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return "", fmt.Errorf("sms: decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := msg.ErrorMessage
		if detail == "" {
			detail = msg.Message
		}
		return "", fmt.Errorf("sms: twilio error %d: %s", msg.ErrorCode, detail)
	}
	return msg.SID, nil
}
