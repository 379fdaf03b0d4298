package classify

import "callnotify/internal/templates"

// Decision is the classifier's only output.
//
// It must contain everything the dispatch boundary needs and nothing else:
// whether to send, which pre-approved template, and a human-readable reason
// suitable for the audit trail. Decisions are produced fresh per event and
// never persisted by this package.
type Decision struct {
	ShouldSend bool         `json:"should_send"`
	Template   templates.ID `json:"template,omitempty"`

	// Reason reconstructs the decision offline: which rule fired and on
	// what evidence. Required for the regulated-communications audit trail.
	Reason string `json:"reason"`
}
