package templates

import (
	"errors"
	"fmt"
)

// ID is the closed set of SMS template identifiers.
//
// Regulatory invariant: every outbound SMS body is one of the pre-approved
// literals below. Nothing in this service composes message text at runtime,
// and the classifier only ever emits values of this type.
type ID string

const (
	RewardsTnC           ID = "REWARDS_TNC"
	Complaint            ID = "COMPLAINT"
	RewardsInfo          ID = "REWARDS_INFO"
	OutboundConfirmation ID = "OUTBOUND_CONFIRMATION"
)

var ErrUnknownTemplate = errors.New("templates: unknown template id")

// registry maps every template id to its approved literal body.
// Populated at process start, never mutated.
var registry = map[ID]string{
	RewardsTnC: "Thank you for speaking with us. The Rewards Programme terms and " +
		"conditions you requested are available at https://www.bank.example/rewards/terms. " +
		"Please do not reply to this message.",
	Complaint: "Thank you for contacting us. Your complaint has been logged and a " +
		"case reference number will be sent to you within 2 working days. " +
		"Please do not reply to this message.",
	RewardsInfo: "Thank you for your interest in the Rewards Programme. Details on " +
		"earning and redeeming points are available at https://www.bank.example/rewards. " +
		"Please do not reply to this message.",
	OutboundConfirmation: "Thank you for taking our call today. If you need any further " +
		"assistance, please call us on the number printed on the back of your card. " +
		"Please do not reply to this message.",
}

// Body returns the literal message text for id.
// An unknown id indicates a programming error in the caller (the classifier
// only emits registered ids); it is returned as an error so the webhook
// handler can report it without crashing the request.
func Body(id ID) (string, error) {
	body, ok := registry[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return body, nil
}

// Known reports whether id is a registered template.
func Known(id ID) bool {
	_, ok := registry[id]
	return ok
}
