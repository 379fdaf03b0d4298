package extraction

import "strings"

// The upstream voice-AI provider does not guarantee a payload schema; field
// locations have drifted across provider versions. Each fact is therefore
// extracted by walking an ordered list of known probe paths and taking the
// first non-empty hit. Adding support for a new payload variant means adding
// a path here, not rewriting control flow.

// probe is a key path from the payload root into nested objects.
type probe []string

var directionProbes = []probe{
	{"call_type"},
	{"callType"},
	{"type"},
	{"direction"},
	{"metadata", "call_type"},
	{"metadata", "direction"},
	{"data", "call_type"},
	{"data", "direction"},
	{"call", "type"},
	{"call", "direction"},
	{"data", "metadata", "phone_call", "direction"},
}

// phoneProbesPreferred carry "to"/customer semantics: on an outbound call the
// customer is the dialed party, and explicit customer fields beat everything.
var phoneProbesPreferred = []probe{
	{"to"},
	{"to_number"},
	{"customer_phone"},
	{"phone_number"},
	{"metadata", "to"},
	{"metadata", "to_number"},
	{"metadata", "customer_phone"},
	{"data", "to"},
	{"call", "to"},
	{"metadata", "phone_call", "to"},
	{"data", "metadata", "phone_call", "external_number"},
	{"conversation_initiation_client_data", "dynamic_variables", "phone_number"},
}

// phoneProbesCaller carry "from" semantics. Only consulted as a last resort
// on non-outbound calls: on an outbound call "from" is our own gateway line.
var phoneProbesCaller = []probe{
	{"from"},
	{"from_number"},
	{"caller"},
	{"caller_number"},
	{"metadata", "from"},
	{"call", "from"},
	{"metadata", "phone_call", "from"},
}

var transcriptProbes = []probe{
	{"transcript"},
	{"transcription"},
	{"conversation"},
	{"messages"},
	{"data", "transcript"},
	{"data", "messages"},
	{"call", "transcript"},
	{"analysis", "transcript"},
	{"data", "analysis", "transcript"},
}

var conversationIDProbes = []probe{
	{"conversation_id"},
	{"conversationId"},
	{"data", "conversation_id"},
	{"metadata", "conversation_id"},
	{"call_id"},
	{"call_sid"},
	{"data", "call_id"},
}

// lookup walks p into event and returns the value at the end of the path.
func lookup(event map[string]any, p probe) (any, bool) {
	var cur any = event
	for _, key := range p {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// stringAt returns the trimmed string at path p, or "" when the path is
// missing or the value is not a string.
func stringAt(event map[string]any, p probe) string {
	v, ok := lookup(event, p)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
