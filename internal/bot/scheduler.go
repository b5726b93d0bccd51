package bot

import (
	"context"
	"time"

	"companion_bot/internal/engine"
	"companion_bot/internal/logger"
	"companion_bot/internal/session"
)

// SnapshotWriter persists one conversation snapshot.
type SnapshotWriter interface {
	Save(ctx context.Context, userID string, snap *engine.Snapshot) error
}

// RunSnapshotLoop periodically snapshots every live conversation until ctx
// is cancelled. Failures are logged and skipped; the loop itself never
// stops on an error.
func RunSnapshotLoop(ctx context.Context, interval time.Duration, reg *session.Registry, store SnapshotWriter) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			SnapshotAll(ctx, reg, store)
		}
	}
}

// SnapshotAll writes one snapshot per live conversation.
func SnapshotAll(ctx context.Context, reg *session.Registry, store SnapshotWriter) {
	reg.ForEachConversation(func(userID string, conv *engine.Conversation) {
		if err := store.Save(ctx, userID, conv.Snapshot()); err != nil {
			logger.Warn().Err(err).Str("user_id", userID).Msg("Snapshot save failed")
		}
	})
}
