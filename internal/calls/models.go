package calls

import (
	"strings"

	"callnotify/internal/extraction"
)

// InitiationRequest is an operator's request to have the voice agent dial a
// customer.
type InitiationRequest struct {
	ToNumber         string            `json:"to_number"`
	FirstMessage     string            `json:"first_message,omitempty"`
	Language         string            `json:"language,omitempty"`
	DynamicVariables map[string]string `json:"dynamic_variables,omitempty"`
}

const (
	maxFirstMessageLen = 500
	maxDynamicVars     = 20
)

// Validate returns every violation, not just the first, so a caller can fix
// the whole request in one round trip.
func (r InitiationRequest) Validate() []string {
	var violations []string

	to := strings.TrimSpace(r.ToNumber)
	switch {
	case to == "":
		violations = append(violations, "to_number is required")
	case !strings.HasPrefix(to, "+"):
		violations = append(violations, "to_number must be in E.164 format (start with +)")
	case !extraction.LooksLikePhone(to):
		violations = append(violations, "to_number is not a dialable phone number")
	}

	if len(r.FirstMessage) > maxFirstMessageLen {
		violations = append(violations, "first_message exceeds 500 characters")
	}
	if r.Language != "" && len(r.Language) > 10 {
		violations = append(violations, "language must be a short language code")
	}
	if len(r.DynamicVariables) > maxDynamicVars {
		violations = append(violations, "too many dynamic_variables (max 20)")
	}
	for k := range r.DynamicVariables {
		if strings.TrimSpace(k) == "" {
			violations = append(violations, "dynamic_variables keys must be non-empty")
			break
		}
	}

	return violations
}

// Normalized returns the request with the destination number cleaned up.
func (r InitiationRequest) Normalized() InitiationRequest {
	r.ToNumber = extraction.NormalizePhone(r.ToNumber)
	return r
}
