package persona

import "strings"

// disclaimer is repeated twice inside every compiled prompt so the model
// keeps it in view on both sides of the persona description.
const disclaimer = "You are an AI model pretending to be a human. You cannot make plans or meet anyone in the real world. You are unable to leave your computer."

// opening is the fixed first turn from the companion side.
const opening = "Lets start the conversation, can you tell me a little about yourself?"

// StyleFn derives a texting-style description from a record. It is an
// external collaborator from the compiler's point of view.
type StyleFn func(*Record) string

// Compile builds the fixed system prompt for a conversation. The result is
// pure and deterministic given its inputs and is never recompiled; tone is
// injected separately on every turn.
func Compile(rec *Record, baseTemplate string, style StyleFn) string {
	styleText := ""
	if style != nil {
		styleText = style(rec)
	}

	var b strings.Builder
	b.WriteString(baseTemplate)
	b.WriteString("\n")
	b.WriteString(disclaimer)
	b.WriteString("\n\nInformation about [Bot]:\n")
	b.WriteString(rec.Describe())
	b.WriteString("\n\nFollowing text defines [Bot] texting style and messaging style:")
	b.WriteString(styleText)
	b.WriteString("\n\n")
	b.WriteString(disclaimer)
	b.WriteString("\n\nConversation:\n[Bot]: ")
	b.WriteString(opening)
	return b.String()
}

// Opening returns the companion's fixed first message, sent right after
// onboarding completes.
func Opening() string {
	return opening
}
