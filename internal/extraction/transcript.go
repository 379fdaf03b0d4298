package extraction

import (
	"encoding/json"
	"strings"
)

// flattenTranscript renders an arbitrarily shaped transcript value as plain
// text for keyword matching.
//
// Rules, in order:
// - a string is taken as-is;
// - a sequence joins each item's text with single spaces;
// - a mapping yields the first present of text / content / full_transcript /
//   nested messages, else its full serialization.
func flattenTranscript(v any, depth int) string {
	if depth > maxScanDepth {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flattenItem(item, depth+1); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case map[string]any:
		for _, key := range []string{"text", "content", "full_transcript"} {
			if s, ok := t[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		if msgs, ok := t["messages"]; ok {
			if s := flattenTranscript(msgs, depth+1); s != "" {
				return s
			}
		}
		return serialize(t)
	}
	return ""
}

// flattenItem extracts text from one entry of a transcript sequence.
// Preference order: role+message rendered as "role: message", bare message,
// content, nested transcript, else the item's serialization.
func flattenItem(item any, depth int) string {
	if depth > maxScanDepth {
		return ""
	}
	switch t := item.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		role, _ := t["role"].(string)
		if msg, ok := t["message"].(string); ok && strings.TrimSpace(msg) != "" {
			if strings.TrimSpace(role) != "" {
				return strings.TrimSpace(role) + ": " + strings.TrimSpace(msg)
			}
			return strings.TrimSpace(msg)
		}
		if content, ok := t["content"].(string); ok && strings.TrimSpace(content) != "" {
			if strings.TrimSpace(role) != "" {
				return strings.TrimSpace(role) + ": " + strings.TrimSpace(content)
			}
			return strings.TrimSpace(content)
		}
		if tr, ok := t["transcript"]; ok {
			if s := flattenTranscript(tr, depth+1); s != "" {
				return s
			}
		}
		return serialize(t)
	}
	return serialize(item)
}

// serialize is the documented degraded mode: when no known shape applies,
// the raw JSON still lets block/trigger keywords match.
func serialize(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
