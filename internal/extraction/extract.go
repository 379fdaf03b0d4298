package extraction

import "strings"

// Extractor probes loosely-structured call-ended payloads for the facts the
// notification pipeline needs. It is a pure function of its input: it never
// errors, never calls out, and degrades to explicit "not found" markers
// instead of guessing.
type Extractor struct {
	// GatewayNumber is the phone number this service sends from. Any
	// candidate matching it is discarded: the payload echoes our own line
	// in several places and a self-match means the customer number was
	// not actually present.
	GatewayNumber string
}

func NewExtractor(gatewayNumber string) *Extractor {
	return &Extractor{GatewayNumber: gatewayNumber}
}

// Extract probes event for direction, customer phone, transcript text and
// conversation id. A nil event yields zero-value facts with degraded
// transcript text.
func (e *Extractor) Extract(event map[string]any) CallFacts {
	facts := CallFacts{Direction: DirectionUnknown}
	if event == nil {
		event = map[string]any{}
	}

	facts.Direction = e.extractDirection(event)
	facts.CustomerPhone, facts.PhoneFound = e.extractPhone(event, facts.Direction)
	facts.TranscriptText, facts.TranscriptDegraded = e.extractTranscript(event)
	facts.ConversationID = extractConversationID(event)
	return facts
}

func (e *Extractor) extractDirection(event map[string]any) Direction {
	for _, p := range directionProbes {
		raw := strings.ToLower(stringAt(event, p))
		if raw == "" {
			continue
		}
		switch {
		case strings.Contains(raw, "outbound"):
			return DirectionOutbound
		case strings.Contains(raw, "inbound"):
			return DirectionInbound
		}
	}
	return DirectionUnknown
}

// extractPhone runs the two-pass strategy: ordered probes over known field
// paths first, then a depth-bounded scan of the whole tree for anything
// phone-shaped. Both passes exclude the gateway's own number.
func (e *Extractor) extractPhone(event map[string]any, dir Direction) (string, bool) {
	probes := phoneProbesPreferred
	if dir != DirectionOutbound {
		// "from" fields are only trustworthy when the customer placed the
		// call; on outbound calls they name our own line.
		probes = append(append([]probe{}, phoneProbesPreferred...), phoneProbesCaller...)
	}

	for _, p := range probes {
		candidate := stringAt(event, p)
		if candidate == "" || !LooksLikePhone(candidate) {
			continue
		}
		if SameNumber(candidate, e.GatewayNumber) {
			continue
		}
		return NormalizePhone(candidate), true
	}

	return scanForPhone(event, e.GatewayNumber, 0)
}

func (e *Extractor) extractTranscript(event map[string]any) (string, bool) {
	for _, p := range transcriptProbes {
		v, ok := lookup(event, p)
		if !ok {
			continue
		}
		if text := flattenTranscript(v, 0); text != "" {
			return text, false
		}
	}
	// Last resort: match keywords against the serialized payload rather
	// than silently giving up.
	return serialize(event), true
}

func extractConversationID(event map[string]any) string {
	for _, p := range conversationIDProbes {
		if id := stringAt(event, p); id != "" {
			return id
		}
	}
	return ""
}
