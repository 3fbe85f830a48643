package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record is one logged chat interaction. Field names follow the existing
// chat-history consumers (Spanish keys for the two message sides).
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Channel   string    `json:"channel"`
	Cliente   string    `json:"cliente"`
	Agente    string    `json:"agente"`
}

// InteractionLog appends chat interactions to a JSON-lines file, one
// record per line. Safe for concurrent use.
type InteractionLog struct {
	mu   sync.Mutex
	path string
}

// NewInteractionLog creates the log directory if needed and returns a
// logger writing to path.
func NewInteractionLog(path string) (*InteractionLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	return &InteractionLog{path: path}, nil
}

// Append writes one record. A zero Timestamp is stamped with the current
// time and an empty Channel defaults to "unknown".
func (l *InteractionLog) Append(record Record) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if record.Channel == "" {
		record.Channel = "unknown"
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode interaction: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open interaction log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write interaction: %w", err)
	}
	return nil
}
