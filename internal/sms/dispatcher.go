package sms

import (
	"context"

	"callnotify/internal/extraction"
	"callnotify/internal/templates"
)

// Gateway is the minimal send contract the dispatcher needs.
// The Twilio client implements it; tests substitute stubs.
type Gateway interface {
	Configured() bool
	SenderNumber() string
	SendMessage(ctx context.Context, to, body string) (messageID string, err error)
}

// Result is the outcome of one dispatch attempt. Ephemeral; one per attempt.
type Result struct {
	Success     bool   `json:"success"`
	MessageID   string `json:"message_id,omitempty"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// Dispatcher sends a chosen template's literal text to a customer number.
//
// Preconditions are re-verified here even though the extractor already
// filters the gateway number: the dispatcher must stay safe against a logic
// change upstream. No retries anywhere in this path.
type Dispatcher struct {
	Gateway Gateway
}

func NewDispatcher(gw Gateway) *Dispatcher {
	return &Dispatcher{Gateway: gw}
}

func failure(detail string) Result {
	return Result{Success: false, ErrorDetail: detail}
}

// Dispatch looks up the template body and sends it. All failure modes are
// reported in the Result, never raised.
func (d *Dispatcher) Dispatch(ctx context.Context, toPhone string, tpl templates.ID) Result {
	if d == nil || d.Gateway == nil || !d.Gateway.Configured() {
		return failure("sms gateway credentials not configured")
	}
	if toPhone == "" {
		return failure("customer phone not resolved")
	}
	if extraction.SameNumber(toPhone, d.Gateway.SenderNumber()) {
		// Sending to our own line means the customer number was never
		// actually resolved; refuse rather than deliver to ourselves.
		return failure("customer phone not resolved: destination matches sender number")
	}

	body, err := templates.Body(tpl)
	if err != nil {
		return failure(err.Error())
	}

	messageID, err := d.Gateway.SendMessage(ctx, toPhone, body)
	if err != nil {
		return failure(err.Error())
	}
	return Result{Success: true, MessageID: messageID}
}
