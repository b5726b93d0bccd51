package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"companion_bot/internal/engine"
	"companion_bot/internal/logger"
	"companion_bot/internal/memory"
	"companion_bot/internal/persona"
	"companion_bot/internal/resilience"
	"companion_bot/internal/session"
	"companion_bot/internal/storage"

	"github.com/cloudwego/eino/schema"
)

// Transport is the outbound side of the messaging platform. The dispatcher
// emits messages and typing indicators through it without any knowledge of
// wire semantics.
type Transport interface {
	Send(userID, text string) error
	SendTyping(userID string)
}

// Model is the language-model surface the dispatcher wires into new
// conversations: turn generation plus memory summarization.
type Model interface {
	engine.Generator
	Summarize(ctx context.Context, summary string, turns []*schema.Message) (string, error)
}

// SnapshotAccess is the persisted-snapshot surface the dispatcher needs:
// restoring a conversation on first contact after a restart and removing
// the snapshot on reset.
type SnapshotAccess interface {
	Load(ctx context.Context, userID string) (*engine.Snapshot, error)
	Delete(ctx context.Context, userID string) error
}

const (
	welcomeMsg     = "Welcome!\nLet's take a moment to describe the AI persona you want to talk to."
	savedMsg       = "Thank you! Bot information has been saved. One moment..."
	debugOnMsg     = "«Debug mode on»\nPlease continue the discussion with your companion"
	debugOffMsg    = "«Debug mode off»\nPlease continue the discussion with your companion"
	needContextMsg = "Please, provide initial context."
	noSessionMsg   = "Please type \"/start\" to create your companion first."
	emptyCmdMsg    = "Please, provide a command after \"/\"."
)

// Dispatcher routes inbound (userID, text) events: commands, onboarding
// turns and conversation turns. One call handles one event; per-user
// serialization comes from the session registry's entry locks.
type Dispatcher struct {
	registry  *session.Registry
	transport Transport
	model     Model
	history   *storage.HistoryLog
	snapshots SnapshotAccess
	guard     resilience.Guard

	template    string
	memoryLimit int
	style       persona.StyleFn
}

// Config collects the dispatcher's collaborators and settings.
type Config struct {
	Registry    *session.Registry
	Transport   Transport
	Model       Model
	History     *storage.HistoryLog
	Snapshots   SnapshotAccess
	Guard       resilience.Guard
	Template    string
	MemoryLimit int
	Style       persona.StyleFn
}

// NewDispatcher wires a dispatcher. History and Snapshots are optional;
// Style defaults to the built-in rule-based inference.
func NewDispatcher(cfg Config) *Dispatcher {
	style := cfg.Style
	if style == nil {
		style = persona.DefaultStyle
	}
	return &Dispatcher{
		registry:    cfg.Registry,
		transport:   cfg.Transport,
		model:       cfg.Model,
		history:     cfg.History,
		snapshots:   cfg.Snapshots,
		guard:       cfg.Guard,
		template:    cfg.Template,
		memoryLimit: cfg.MemoryLimit,
		style:       style,
	}
}

// HandleMessage processes one inbound event. Text starting with the
// reserved "/" prefix is a command; "/start" resets and begins onboarding,
// "/debug" toggles debug mode, any other "/x" replaces the tone with "x".
// A bare "/" is an empty command and gets guidance, never a chat turn.
func (d *Dispatcher) HandleMessage(ctx context.Context, userID, text string) {
	text = strings.TrimSpace(text)

	switch {
	case text == "/start":
		d.handleStart(ctx, userID)
	case text == "/debug":
		d.handleDebug(userID)
	case text == "/":
		if err := d.transport.Send(userID, emptyCmdMsg); err != nil {
			logger.Warn().Err(err).Str("user_id", userID).Msg("Send failed")
		}
	case strings.HasPrefix(text, "/"):
		d.handleTone(userID, strings.TrimPrefix(text, "/"))
	default:
		d.handleText(ctx, userID, text)
	}
}

// handleStart tears down any live entry and begins a fresh onboarding
// dialogue. Reset-on-collision is deliberate: no confirmation step. The
// teardown and the onboarding insert run exactly once; only the sends are
// retried, so a transient transport failure cannot repeat the reset.
func (d *Dispatcher) handleStart(ctx context.Context, userID string) {
	if d.registry.Exists(userID) {
		d.registry.Remove(userID)
		d.deleteSnapshot(ctx, userID)
		logger.Info().Str("user_id", userID).Msg("Session reset")
	}

	prompt, err := d.registry.StartOnboarding(userID)
	if err != nil {
		d.sendFallback(userID, err)
		return
	}
	if err := d.send(ctx, userID, welcomeMsg); err != nil {
		d.sendFallback(userID, err)
		return
	}
	if err := d.send(ctx, userID, prompt); err != nil {
		d.sendFallback(userID, err)
	}
}

// handleDebug toggles debug mode on a live conversation. Without one this
// is a state error: a one-line guidance message, no retry.
func (d *Dispatcher) handleDebug(userID string) {
	err := d.registry.With(userID, func(e *session.Entry) error {
		if e.Engine == nil {
			return d.transport.Send(userID, needContextMsg)
		}
		if e.Engine.ToggleDebug() {
			return d.transport.Send(userID, debugOnMsg)
		}
		return d.transport.Send(userID, debugOffMsg)
	})
	if err == session.ErrNoSession {
		err = d.transport.Send(userID, needContextMsg)
	}
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Debug toggle failed")
	}
}

// handleTone replaces the conversation tone. Memory is untouched and no
// turn is recorded for the command itself.
func (d *Dispatcher) handleTone(userID, tone string) {
	err := d.registry.With(userID, func(e *session.Entry) error {
		if e.Engine == nil {
			return d.transport.Send(userID, needContextMsg)
		}
		e.Engine.SetTone(tone)
		d.transport.SendTyping(userID)
		return d.transport.Send(userID, fmt.Sprintf("Information «%s» has been added.", tone))
	})
	if err == session.ErrNoSession {
		err = d.transport.Send(userID, needContextMsg)
	}
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Tone change failed")
	}
}

// handleText advances onboarding or runs one conversation turn. A user
// with no live entry gets their snapshot restored if one exists, otherwise
// guidance.
func (d *Dispatcher) handleText(ctx context.Context, userID, text string) {
	if !d.registry.Exists(userID) && !d.restoreSnapshot(ctx, userID) {
		if err := d.transport.Send(userID, noSessionMsg); err != nil {
			logger.Warn().Err(err).Str("user_id", userID).Msg("Send failed")
		}
		return
	}

	err := d.registry.With(userID, func(e *session.Entry) error {
		switch {
		case e.Onboarding != nil:
			return d.advanceOnboarding(ctx, e, userID, text)
		case e.Engine != nil:
			return d.converse(ctx, e, userID, text)
		default:
			return session.ErrNoSession
		}
	})
	if err != nil {
		d.sendFallback(userID, err)
	}
}

// advanceOnboarding consumes one slot-filling input. The state machine
// advances exactly once per inbound message; only the outward sends sit
// inside the retry guard, so a transient transport failure can never
// replay an answer into the wrong slot. On completion it compiles the
// persona prompt, builds the conversation and promotes the entry; the
// onboarding state is discarded.
func (d *Dispatcher) advanceOnboarding(ctx context.Context, e *session.Entry, userID, text string) error {
	res := e.Onboarding.Advance(text)
	if !res.Done {
		return d.send(ctx, userID, res.Prompt)
	}

	if err := d.send(ctx, userID, res.Record.Describe()); err != nil {
		return err
	}
	if err := d.send(ctx, userID, savedMsg); err != nil {
		return err
	}
	d.transport.SendTyping(userID)

	prompt := persona.Compile(res.Record, d.template, d.style)
	buf := memory.NewBuffer(d.memoryLimit, d.model.Summarize)
	conv := engine.New(res.Record, prompt, res.Tone, buf, d.model)
	d.warnOnSummaries(userID, conv)
	e.Promote(conv)

	logger.Info().Str("user_id", userID).Str("persona", res.Record.Name).Msg("Conversation created")
	d.appendHistory(userID, text, "None")
	return d.send(ctx, userID, persona.Opening())
}

// converse runs one conversation turn: the model call and the reply send
// are each retried, the history append stays best-effort. Ask commits
// memory only on success, so retrying it is safe.
func (d *Dispatcher) converse(ctx context.Context, e *session.Entry, userID, text string) error {
	d.transport.SendTyping(userID)

	var reply string
	err := d.guard.Do(ctx, func(ctx context.Context) error {
		var askErr error
		reply, askErr = e.Engine.Ask(ctx, text)
		return askErr
	})
	if err != nil {
		return err
	}

	d.appendHistory(userID, text, reply)
	d.transport.SendTyping(userID)
	return d.send(ctx, userID, reply)
}

// send delivers one message through the transport, retrying transient
// failures. No state mutation ever sits inside this guard.
func (d *Dispatcher) send(ctx context.Context, userID, text string) error {
	return d.guard.Do(ctx, func(ctx context.Context) error {
		return d.transport.Send(userID, text)
	})
}

// restoreSnapshot rebuilds a conversation from the persisted snapshot, if
// one exists, and attaches it to the registry. Reports whether the user
// now has a live entry.
func (d *Dispatcher) restoreSnapshot(ctx context.Context, userID string) bool {
	if d.snapshots == nil {
		return false
	}
	snap, err := d.snapshots.Load(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Snapshot load failed")
		return false
	}
	if snap == nil {
		return false
	}

	buf := memory.NewBuffer(d.memoryLimit, d.model.Summarize)
	conv := engine.FromSnapshot(snap, buf, d.model)
	d.warnOnSummaries(userID, conv)
	if err := d.registry.Restore(userID, conv); err != nil {
		return true // lost the race to another worker; the entry is live
	}
	logger.Info().Str("user_id", userID).Str("persona", snap.Record.Name).Msg("Conversation restored from snapshot")
	return true
}

func (d *Dispatcher) warnOnSummaries(userID string, conv *engine.Conversation) {
	conv.OnSummarizeError(func(err error) {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Memory summarization failed, retrying next turn")
	})
}

func (d *Dispatcher) appendHistory(userID, userMessage, reply string) {
	if d.history == nil {
		return
	}
	if err := d.history.Append(userID, userMessage, reply, time.Now()); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("History append failed")
	}
}

func (d *Dispatcher) deleteSnapshot(ctx context.Context, userID string) {
	if d.snapshots == nil {
		return
	}
	if err := d.snapshots.Delete(ctx, userID); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Snapshot delete failed")
	}
}

func (d *Dispatcher) sendFallback(userID string, err error) {
	logger.Error().Err(err).Str("user_id", userID).Msg("Handler exhausted retries")
	if sendErr := d.transport.Send(userID, d.guard.Message(err)); sendErr != nil {
		logger.Warn().Err(sendErr).Str("user_id", userID).Msg("Fallback send failed")
	}
}
