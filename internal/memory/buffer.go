package memory

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"
)

// SummarizeFn folds a batch of turns into an existing summary and returns
// the new summary. Implementations call the LLM.
type SummarizeFn func(ctx context.Context, summary string, turns []*schema.Message) (string, error)

// EstimateFn estimates the token footprint of the buffer contents.
type EstimateFn func(summary string, pending []*schema.Message) int

// Buffer is a rolling conversation memory: a running summary plus the
// verbatim turns not yet folded into it. The token-estimated size of
// (summary + pending turns) stays under the configured limit; overflow is
// folded oldest-first into the summary, never dropped. The most recent turn
// is never summarized away.
type Buffer struct {
	mu        sync.Mutex
	summary   string
	pending   []*schema.Message
	limit     int
	summarize SummarizeFn
	estimate  EstimateFn
	userLabel string
	botLabel  string
}

// Option customizes a Buffer.
type Option func(*Buffer)

// WithEstimator replaces the default rune-count token estimator.
func WithEstimator(fn EstimateFn) Option {
	return func(b *Buffer) { b.estimate = fn }
}

// WithLabels sets the speaker labels used when rendering turns.
func WithLabels(user, bot string) Option {
	return func(b *Buffer) {
		b.userLabel = user
		b.botLabel = bot
	}
}

// NewBuffer creates a bounded buffer. The summarize function is required;
// limit is the token budget that triggers folding.
func NewBuffer(limit int, summarize SummarizeFn, opts ...Option) *Buffer {
	b := &Buffer{
		limit:     limit,
		summarize: summarize,
		estimate:  defaultEstimate,
		userLabel: "[User]",
		botLabel:  "[Bot]",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Append adds one turn and folds overflow into the summary if the token
// budget is exceeded. On summarizer failure the buffer is left unchanged
// (no turn is lost) and the error is returned so the caller can log it;
// folding is retried on the next append.
func (b *Buffer) Append(ctx context.Context, msg *schema.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, msg)
	return b.compact(ctx)
}

// compact folds the oldest pending turns into the summary until the
// estimate is back under budget or only the most recent turn remains.
// Caller holds b.mu.
func (b *Buffer) compact(ctx context.Context) error {
	for b.estimate(b.summary, b.pending) > b.limit && len(b.pending) > 1 {
		var overflow []*schema.Message
		for b.estimate(b.summary, b.pending) > b.limit && len(b.pending) > 1 {
			overflow = append(overflow, b.pending[0])
			b.pending = b.pending[1:]
		}

		newSummary, err := b.summarize(ctx, b.summary, overflow)
		if err != nil {
			// Roll back: the folded turns go back in front, nothing is dropped.
			b.pending = append(overflow, b.pending...)
			return err
		}
		b.summary = newSummary
	}
	return nil
}

// RenderForPrompt returns the summary followed by all remaining turns as
// alternating speaker-labeled lines, in chronological order.
func (b *Buffer) RenderForPrompt() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder
	if b.summary != "" {
		sb.WriteString(b.summary)
		sb.WriteString("\n")
	}
	for _, msg := range b.pending {
		sb.WriteString(b.label(msg.Role))
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// TokenEstimate returns the current estimated token footprint.
func (b *Buffer) TokenEstimate() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.estimate(b.summary, b.pending)
}

// Len returns the number of unsummarized turns.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Summary returns the running summary text.
func (b *Buffer) Summary() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.summary
}

// Pending returns a copy of the unsummarized turns, for serialization.
func (b *Buffer) Pending() []*schema.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*schema.Message, len(b.pending))
	copy(out, b.pending)
	return out
}

// Restore replaces the buffer contents from a snapshot.
func (b *Buffer) Restore(summary string, pending []*schema.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.summary = summary
	b.pending = append([]*schema.Message(nil), pending...)
}

func (b *Buffer) label(role schema.RoleType) string {
	if role == schema.Assistant {
		return b.botLabel
	}
	return b.userLabel
}

// defaultEstimate approximates tokens as runeCount / 2.7, a heuristic that
// tracks subword tokenizers closely enough for budget purposes.
func defaultEstimate(summary string, pending []*schema.Message) int {
	total := utf8.RuneCountInString(summary)
	for _, msg := range pending {
		total += utf8.RuneCountInString(msg.Content)
	}
	return int(float64(total) / 2.7)
}
