package repositories

import (
	"collab-lab/domain"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// MessageRepository persists addressed-message traces in BadgerDB.
// The key is formatted as "msg:{project_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two traces
//     arrive at the same nanosecond.
type MessageRepository struct {
	db          *badger.DB
	log         *slog.Logger
	limitTraces *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitTraces *int) *MessageRepository {
	return &MessageRepository{db: db, log: log, limitTraces: limitTraces}
}

func (m *MessageRepository) StoreTrace(trace domain.MessageTrace) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		trace.ProjectID,
		trace.At.UnixNano(),
		trace.ID,
	)
	bytes, err := json.Marshal(trace)
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetTraces retrieves traces for a project using a reverse prefix scan, most
// recent first. Thanks to the padded timestamp in the key, traces are naturally
// sorted by time. It stops once the configured limitTraces is reached and
// returns a cursor for the next page.
func (m *MessageRepository) GetTraces(id domain.ProjectID, cursor *string) ([]domain.MessageTrace, *string, error) {
	var traces []domain.MessageTrace
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", id)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible timestamp, then walk backwards
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitTraces != nil && len(traces) == *m.limitTraces {
				m.log.Debug(fmt.Sprintf("Maximum of %d trace(s) reached", *m.limitTraces))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			var trace domain.MessageTrace
			err := item.Value(func(value []byte) error {
				return json.Unmarshal(value, &trace)
			})
			if err != nil {
				return err
			}
			traces = append(traces, trace)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(traces) == 0 {
		return traces, nil, nil
	}
	return traces, &lastKey, nil
}
