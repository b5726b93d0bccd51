package persona

import (
	"fmt"
	"strings"
)

// Weighted keyword → style hint rules applied to the personality text.
// Multiple hits stack into one description.
var styleRules = []struct {
	keywords []string
	hint     string
}{
	{[]string{"cheerful", "happy", "playful", "funny"}, "Uses upbeat wording, short sentences and the occasional emoji."},
	{[]string{"serious", "formal", "strict"}, "Writes in full, punctuated sentences and avoids slang."},
	{[]string{"shy", "quiet", "reserved"}, "Keeps messages brief and sometimes trails off with ellipses."},
	{[]string{"romantic", "caring", "warm", "kind"}, "Writes warmly, asks follow-up questions and uses pet names sparingly."},
	{[]string{"sarcastic", "witty", "ironic"}, "Drops dry one-liners and light teasing into replies."},
}

// DefaultStyle is the built-in style-inference collaborator: a rule-based
// description of how the persona texts, derived from its personality and age.
func DefaultStyle(rec *Record) string {
	lower := strings.ToLower(rec.Mood)

	var hints []string
	for _, rule := range styleRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				hints = append(hints, rule.hint)
				break
			}
		}
	}

	if rec.Age > 0 && rec.Age < 25 {
		hints = append(hints, "Texts casually, with abbreviations and little capitalization.")
	}
	if len(hints) == 0 {
		hints = append(hints, "Texts like an ordinary person: casual, friendly, medium-length messages.")
	}

	return fmt.Sprintf("\n%s writes messages in the following manner: %s",
		rec.Name, strings.Join(hints, " "))
}
