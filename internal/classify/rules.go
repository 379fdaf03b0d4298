package classify

import "callnotify/internal/templates"

// Category is one trigger rule: an ordered set of lowercase substrings that,
// when found in a transcript, map the call to a pre-approved template.
type Category struct {
	Name     string
	Keywords []string
	Template templates.ID
}

// defaultBlockKeywords force suppression regardless of any trigger match.
// Checked before every trigger rule: a failed identity verification or an
// explicit opt-out must never result in an SMS.
var defaultBlockKeywords = []string{
	"unable to verify",
	"could not verify",
	"verification failed",
	"failed the verification",
	"do not send me",
	"do not text",
	"stop messaging",
}

// defaultCategories are evaluated in order. Explicit document and reference
// requests come first; general topic keywords last. A transcript mentioning
// both "complaint" and "terms and conditions" must yield the more specific
// document request, and any explicit request beats the generic outbound
// confirmation even on an outbound call.
var defaultCategories = []Category{
	{
		Name: "rewards_tnc",
		Keywords: []string{
			"terms and conditions",
			"terms & conditions",
			"t&c",
			"tnc document",
		},
		Template: templates.RewardsTnC,
	},
	{
		Name: "complaint",
		Keywords: []string{
			"case reference",
			"raise a case",
			"complaint",
			"complain",
		},
		Template: templates.Complaint,
	},
	{
		Name: "rewards_info",
		Keywords: []string{
			"rewards",
			"cashback",
			"points",
		},
		Template: templates.RewardsInfo,
	},
}
