package extraction

// Direction is the call direction as reported (or guessed) from the
// call-ended payload.
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
	DirectionUnknown  Direction = "unknown"
)

// CallFacts is the best-effort result of probing a call-ended payload.
//
// Invariants:
// - CustomerPhone, when PhoneFound is true, never normalizes to the
//   configured gateway number (a self-match means extraction failed,
//   not that the bank called itself).
// - Constructed once per webhook delivery and never mutated after.
type CallFacts struct {
	Direction     Direction
	CustomerPhone string
	PhoneFound    bool

	TranscriptText string
	// TranscriptDegraded is set when no transcript probe matched and the
	// whole payload was serialized instead. Keyword matching still works
	// against the raw payload, at the cost of precision.
	TranscriptDegraded bool

	// ConversationID is the provider's call/conversation identifier when
	// present; used for webhook delivery dedup and audit correlation.
	ConversationID string
}
