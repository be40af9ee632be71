package runtime

import (
	"log/slog"
	"sync"

	"babel-relay/contract"
	"babel-relay/domain"
)

// DefaultHistoryCapacity matches the original relay's persisted window.
const DefaultHistoryCapacity = 15

// History is the bounded conversational-context buffer fed to the translation
// backend. Append-only from the orchestrator; oldest entries are evicted first.
// It is advisory context, not a source of truth: persistence failures are
// logged and ignored.
type History struct {
	mu         sync.Mutex
	capacity   int
	entries    []domain.HistoryEntry
	repository contract.IHistoryRepository
	log        *slog.Logger
}

func NewHistory(capacity int, repository contract.IHistoryRepository, log *slog.Logger) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{capacity: capacity, repository: repository, log: log}
}

// Load seeds the buffer from persisted records. A missing or corrupt store
// degrades to an empty buffer, never a startup failure.
func (h *History) Load() {
	if h.repository == nil {
		return
	}
	entries, err := h.repository.Recent()
	if err != nil {
		h.log.Warn("History store unreadable, starting with empty context", "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(entries) > h.capacity {
		entries = entries[len(entries)-h.capacity:]
	}
	h.entries = entries
}

// Append records an accepted message, evicting the oldest entry when full,
// and persists it best-effort.
func (h *History) Append(entry domain.HistoryEntry) {
	h.mu.Lock()
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
	h.mu.Unlock()

	if h.repository == nil {
		return
	}
	if err := h.repository.Store(entry); err != nil {
		h.log.Warn("Failed to persist history entry", "error", err)
	}
}

// Snapshot returns up to the last n entries, oldest first.
// n <= 0 means the whole buffer.
func (h *History) Snapshot(n int) []domain.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n <= 0 || n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]domain.HistoryEntry, n)
	copy(out, h.entries[len(h.entries)-n:])
	return out
}

// Len reports the current buffer length.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
