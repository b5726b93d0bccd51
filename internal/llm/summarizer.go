package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// summarizationPrompt asks the model to fold older turns into the running
// summary without growing it.
const summarizationPrompt = `Progressively summarize the conversation between [User] and [Bot].
You are given the current summary and the lines of conversation that follow it.
Return a new summary that incorporates those lines. Preserve names, facts the
user shared about themselves, promises made, and the emotional tone. Be concise;
the new summary must not be longer than the current summary plus a sentence or two.`

// Summarize folds a batch of turns into the existing summary. It satisfies
// memory.SummarizeFn.
func (c *Client) Summarize(ctx context.Context, summary string, turns []*schema.Message) (string, error) {
	if len(turns) == 0 {
		return summary, nil
	}

	var sb strings.Builder
	sb.WriteString("Current summary:\n")
	if summary == "" {
		sb.WriteString("(none)\n")
	} else {
		sb.WriteString(summary)
		sb.WriteString("\n")
	}
	sb.WriteString("\nNew lines of conversation:\n")
	for _, m := range turns {
		speaker := "[User]"
		if m.Role == schema.Assistant {
			speaker = "[Bot]"
		}
		fmt.Fprintf(&sb, "%s: %s\n", speaker, m.Content)
	}
	sb.WriteString("\nNew summary:")

	out, err := c.chat.Generate(ctx, []*schema.Message{
		schema.SystemMessage(summarizationPrompt),
		schema.UserMessage(sb.String()),
	})
	if err != nil {
		return "", fmt.Errorf("summarization call failed: %w", err)
	}
	return strings.TrimSpace(out.Content), nil
}
