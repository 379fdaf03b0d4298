package audit

import "time"

// Event is an immutable, append-only record of one webhook decision.
//
// Invariants:
// - Events are never updated or deleted.
// - Every branch of the notification pipeline appends exactly one event,
//   carrying enough detail to reconstruct the decision offline. This is the
//   audit trail a regulated sender is required to keep, not diagnostics.
// - Appending is best-effort; the always-200 webhook contract must never
//   block on audit failures.
//
// Storage recommendation (Postgres):
// - Table webhook_decisions with an INSERT-only policy.
// - Optional: partition by time for retention.
type Event struct {
	ID string `json:"id" db:"id"`

	// ConversationID is the provider call/conversation identifier when the
	// payload carried one; used to correlate with provider logs.
	ConversationID string `json:"conversation_id,omitempty" db:"conversation_id"`

	Outcome Outcome `json:"outcome" db:"outcome"`

	Direction     string `json:"direction,omitempty" db:"direction"`
	CustomerPhone string `json:"customer_phone,omitempty" db:"customer_phone"`
	PhoneFound    bool   `json:"phone_found" db:"phone_found"`

	// Template is the template id chosen by the classifier, if any.
	Template string `json:"template,omitempty" db:"template"`

	// Reason is the classifier's (or orchestrator's) human-readable
	// justification for the branch taken.
	Reason string `json:"reason,omitempty" db:"reason"`

	// MessageID is the gateway's identifier for a delivered message.
	MessageID string `json:"message_id,omitempty" db:"message_id"`
	// ErrorDetail carries the provider or internal error verbatim.
	ErrorDetail string `json:"error_detail,omitempty" db:"error_detail"`

	// Metadata is optional JSON for full details (transcript mode, matched
	// keyword, payload shape notes).
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Outcome string

const (
	OutcomeSent       Outcome = "sent"
	OutcomeSuppressed Outcome = "suppressed"
	OutcomeFailed     Outcome = "failed"
	OutcomeDuplicate  Outcome = "duplicate"
)
