package classify

import (
	"fmt"
	"strings"

	"callnotify/internal/extraction"
	"callnotify/internal/templates"
)

// Classifier evaluates a call transcript against the static rule set.
//
// Priority:
//  1) Block keywords (force suppress)
//  2) Trigger categories, in declared order, keywords in declared order
//  3) Outbound-confirmation fallback (direction-based)
//  4) Suppress
//
// Returns a decision only. No side effects, no external calls, no state: the
// same transcript and direction always yield the identical decision.
type Classifier struct {
	BlockKeywords []string
	Categories    []Category
}

// NewClassifier returns a classifier with the process-wide rule set.
func NewClassifier() *Classifier {
	return &Classifier{
		BlockKeywords: defaultBlockKeywords,
		Categories:    defaultCategories,
	}
}

// Classify decides whether a follow-up SMS is warranted and which template
// to send. Matching is case-insensitive substring search, first match wins.
func (c *Classifier) Classify(transcript string, dir extraction.Direction) Decision {
	lowered := strings.ToLower(transcript)

	for _, kw := range c.BlockKeywords {
		if strings.Contains(lowered, kw) {
			return Decision{
				ShouldSend: false,
				Reason:     fmt.Sprintf("blocked: %q", kw),
			}
		}
	}

	for _, cat := range c.Categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lowered, kw) {
				return Decision{
					ShouldSend: true,
					Template:   cat.Template,
					Reason:     fmt.Sprintf("matched %s keyword: %q", cat.Name, kw),
				}
			}
		}
	}

	// Evaluated only after every explicit trigger has been tried, so a
	// customer asking for a specific document never gets the generic
	// confirmation instead.
	if dir == extraction.DirectionOutbound {
		return Decision{
			ShouldSend: true,
			Template:   templates.OutboundConfirmation,
			Reason:     "outbound call completed",
		}
	}

	return Decision{ShouldSend: false, Reason: "no trigger keywords matched"}
}
