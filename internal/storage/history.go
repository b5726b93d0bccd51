package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var historyHeader = []string{"time", "user_message", "chatbot_response"}

// HistoryLog appends chat exchanges to one CSV file per user. It is
// write-only from the core's perspective and best-effort by contract:
// callers log failures but never surface them to the user.
type HistoryLog struct {
	mu  sync.Mutex
	dir string
}

// NewHistoryLog creates the history directory if needed.
func NewHistoryLog(dir string) (*HistoryLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &HistoryLog{dir: dir}, nil
}

// Append writes one exchange. The header row is written when the file is
// first created.
func (h *HistoryLog) Append(userID, userMessage, chatbotResponse string, ts time.Time) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	path := filepath.Join(h.dir, userID+".csv")
	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(historyHeader); err != nil {
			return fmt.Errorf("failed to write history header: %w", err)
		}
	}
	record := []string{
		fmt.Sprintf("%d", ts.Unix()),
		userMessage,
		chatbotResponse,
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("failed to write history record: %w", err)
	}
	w.Flush()
	return w.Error()
}
