package bot

import (
	"context"
	"errors"
	"sync"
	"testing"

	"companion_bot/internal/engine"

	"github.com/stretchr/testify/assert"
)

type recordingWriter struct {
	mu    sync.Mutex
	saved map[string]*engine.Snapshot
	fail  map[string]bool
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{saved: map[string]*engine.Snapshot{}, fail: map[string]bool{}}
}

func (w *recordingWriter) Save(ctx context.Context, userID string, snap *engine.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail[userID] {
		return errors.New("store unavailable")
	}
	w.saved[userID] = snap
	return nil
}

func TestSnapshotAll_WritesEveryLiveConversation(t *testing.T) {
	d, _, _ := newTestDispatcher(&scriptedModel{reply: "ok"})
	ctx := context.Background()

	onboard(ctx, d, "chatting")
	d.HandleMessage(ctx, "chatting", "hello")
	d.HandleMessage(ctx, "onboarding", "/start")

	w := newRecordingWriter()
	SnapshotAll(ctx, d.registry, w)

	assert.Len(t, w.saved, 1, "users still onboarding have nothing to snapshot")
	snap := w.saved["chatting"]
	assert.NotNil(t, snap)
	assert.Equal(t, "Alisa", snap.Record.Name)
	assert.Len(t, snap.Pending, 2)
}

func TestSnapshotAll_OneFailureDoesNotStopOthers(t *testing.T) {
	d, _, _ := newTestDispatcher(&scriptedModel{reply: "ok"})
	ctx := context.Background()
	onboard(ctx, d, "a")
	onboard(ctx, d, "b")

	w := newRecordingWriter()
	w.fail["a"] = true
	SnapshotAll(ctx, d.registry, w)

	assert.NotContains(t, w.saved, "a")
	assert.Contains(t, w.saved, "b")
}
