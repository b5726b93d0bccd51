package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"companion_bot/internal/memory"
	"companion_bot/internal/persona"

	"github.com/cloudwego/eino/schema"
)

// Generator is the outward language-model call used for conversation turns.
type Generator interface {
	Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error)
}

// Conversation owns exactly one persona, one tone, one memory buffer and a
// debug flag. It is created when onboarding completes and destroyed on
// reset; it is never resumed once removed.
type Conversation struct {
	mu           sync.Mutex
	record       *persona.Record
	systemPrompt string
	tone         string
	buffer       *memory.Buffer
	model        Generator
	debug        bool

	// warn receives summarization errors from the commit path; the turn is
	// kept and folding retries on the next append.
	warn func(error)
}

// New creates a conversation from a completed persona. The system prompt is
// compiled once and never changes; tone starts as the onboarding mood.
func New(record *persona.Record, systemPrompt, tone string, buffer *memory.Buffer, model Generator) *Conversation {
	return &Conversation{
		record:       record,
		systemPrompt: systemPrompt,
		tone:         tone,
		buffer:       buffer,
		model:        model,
		warn:         func(error) {},
	}
}

// OnSummarizeError installs a callback for best-effort summarization
// failures during turn commit.
func (c *Conversation) OnSummarizeError(fn func(error)) {
	if fn != nil {
		c.warn = fn
	}
}

// Ask sends one user message through the model and returns the reply. The
// user turn and the reply are committed to memory together, only after the
// model call succeeds; a failed call leaves memory untouched. In debug mode
// the literal prompt is prepended to the returned reply, but memory stores
// only the reply itself.
func (c *Conversation) Ask(ctx context.Context, userInput string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	turnPrompt := c.renderTurn(userInput)
	messages := []*schema.Message{
		schema.SystemMessage(c.systemPrompt),
		schema.UserMessage(turnPrompt),
	}

	out, err := c.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	reply := strings.TrimSpace(out.Content)

	if err := c.buffer.Append(ctx, schema.UserMessage(userInput)); err != nil {
		c.warn(err)
	}
	if err := c.buffer.Append(ctx, schema.AssistantMessage(reply, nil)); err != nil {
		c.warn(err)
	}

	if c.debug {
		return c.systemPrompt + "\n" + turnPrompt + "\n" + reply, nil
	}
	return reply, nil
}

// renderTurn builds the per-turn portion of the prompt: rendered memory,
// the current user line and the tone-tagged response cue. Caller holds c.mu.
func (c *Conversation) renderTurn(userInput string) string {
	var sb strings.Builder
	if history := c.buffer.RenderForPrompt(); history != "" {
		sb.WriteString(history)
		sb.WriteString("\n")
	}
	sb.WriteString("[User]: ")
	sb.WriteString(userInput)
	sb.WriteString("\n[Bot] (")
	sb.WriteString(c.tone)
	sb.WriteString("):")
	return sb.String()
}

// SetTone replaces the tone without touching persona or memory. Only future
// turns are affected.
func (c *Conversation) SetTone(tone string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tone = tone
}

// Tone returns the current tone.
func (c *Conversation) Tone() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tone
}

// ToggleDebug flips the debug flag and returns the new value.
func (c *Conversation) ToggleDebug() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debug = !c.debug
	return c.debug
}

// Record returns the immutable persona record.
func (c *Conversation) Record() *persona.Record {
	return c.record
}

// Memory exposes the underlying buffer, read-only by convention.
func (c *Conversation) Memory() *memory.Buffer {
	return c.buffer
}
