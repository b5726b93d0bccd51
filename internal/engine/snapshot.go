package engine

import (
	"companion_bot/internal/memory"
	"companion_bot/internal/persona"

	"github.com/cloudwego/eino/schema"
)

// Snapshot is the serializable state of a conversation, used by the
// periodic persistence task. The model handle is reattached on restore.
type Snapshot struct {
	Record       *persona.Record   `json:"record"`
	SystemPrompt string            `json:"system_prompt"`
	Tone         string            `json:"tone"`
	Summary      string            `json:"summary"`
	Pending      []*schema.Message `json:"pending"`
	Debug        bool              `json:"debug"`
}

// Snapshot captures the conversation state at a point in time.
func (c *Conversation) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &Snapshot{
		Record:       c.record,
		SystemPrompt: c.systemPrompt,
		Tone:         c.tone,
		Summary:      c.buffer.Summary(),
		Pending:      c.buffer.Pending(),
		Debug:        c.debug,
	}
}

// FromSnapshot rebuilds a conversation around a fresh buffer and a live
// model handle.
func FromSnapshot(s *Snapshot, buffer *memory.Buffer, model Generator) *Conversation {
	buffer.Restore(s.Summary, s.Pending)
	c := New(s.Record, s.SystemPrompt, s.Tone, buffer, model)
	c.debug = s.Debug
	return c
}
