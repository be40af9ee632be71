package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"babel-relay/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const historyPrefix = "hist:"

// HistoryRepository persists the recent-message record in BadgerDB so the
// translation context survives restarts. The store is advisory: readers
// tolerate corrupt values and an empty store is always a valid state.
type HistoryRepository struct {
	db       *badger.DB
	log      *slog.Logger
	capacity int
}

func NewHistoryRepository(db *badger.DB, log *slog.Logger, capacity int) HistoryRepository {
	return HistoryRepository{db: db, log: log, capacity: capacity}
}

type diskEntry struct {
	Handle  string    `json:"handle"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Store appends one record and prunes everything beyond the capacity.
// The key is formatted as "hist:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (r HistoryRepository) Store(entry domain.HistoryEntry) error {
	key := fmt.Sprintf("%s%019d:%s", historyPrefix, entry.At.UnixNano(), uuid.New())
	value, err := json.Marshal(diskEntry{Handle: entry.Handle, Content: entry.Content, At: entry.At})
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), value); err != nil {
			return err
		}
		return r.prune(txn)
	})
}

// prune deletes the oldest keys so at most capacity records remain.
// Runs inside the Store transaction, so a reader never observes an
// over-capacity window.
func (r HistoryRepository) prune(txn *badger.Txn) error {
	prefix := []byte(historyPrefix)
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	for len(keys) > r.capacity {
		if err := txn.Delete(keys[0]); err != nil {
			return err
		}
		keys = keys[1:]
	}
	return nil
}

// Recent returns the persisted records oldest-first. Unreadable values are
// skipped rather than failing the whole read: a partially corrupt store still
// yields whatever context it can.
func (r HistoryRepository) Recent() ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(historyPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var disk diskEntry
				if err := json.Unmarshal(value, &disk); err != nil {
					r.log.Warn("Skipping corrupt history record", "key", string(it.Item().Key()), "error", err)
					return nil
				}
				entries = append(entries, domain.HistoryEntry{
					Handle:  disk.Handle,
					Content: disk.Content,
					At:      disk.At.UTC(),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
