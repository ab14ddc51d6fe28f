package repositories

import (
	"collab-lab/domain"
	liberrors "collab-lab/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ActionRepository is the append-only edit log.
// Keys:
//
//	act:{projectID}:{roleID}:{actionID_padded} -> ActionRecord (JSON)
//	actid:{projectID}:{roleID}                 -> latest admitted action id
//
// The action id is zero-padded to 19 digits so a prefix scan yields records
// in ascending id order without any additional index.
type ActionRepository struct {
	db  *badger.DB
	log *slog.Logger
	ttl time.Duration
}

// NewActionRepository creates the log. Records expire after ttl (badger entry
// TTL), bounding disk growth for projects that never compact; a zero ttl
// keeps records forever.
func NewActionRepository(db *badger.DB, log *slog.Logger, ttl time.Duration) *ActionRepository {
	return &ActionRepository{db: db, log: log, ttl: ttl}
}

func actionKey(id domain.ProjectID, roleID domain.RoleID, actionID int64) []byte {
	return []byte(fmt.Sprintf("act:%s:%s:%019d", id, roleID, actionID))
}

func actionPrefix(id domain.ProjectID, roleID domain.RoleID) []byte {
	return []byte(fmt.Sprintf("act:%s:%s:", id, roleID))
}

func latestIDKey(id domain.ProjectID, roleID domain.RoleID) []byte {
	return []byte(fmt.Sprintf("actid:%s:%s", id, roleID))
}

func (r *ActionRepository) Store(record domain.ActionRecord) error {
	bytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(actionKey(record.ProjectID, record.RoleID, record.Action.ID), bytes)
		if r.ttl > 0 {
			entry = entry.WithTTL(r.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// GetActionsAfter returns every retrievable record with id > afterID in
// ascending order. Records compacted away by ClearActionsAfter are skipped.
// A gap right after afterID means the caller can no longer be caught up from
// the log and must reload instead; that case surfaces as ErrMissingActions.
func (r *ActionRepository) GetActionsAfter(id domain.ProjectID, roleID domain.RoleID, afterID int64) ([]domain.ActionRecord, error) {
	var records []domain.ActionRecord
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = actionPrefix(id, roleID)
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(actionKey(id, roleID, afterID+1)); it.Valid(); it.Next() {
			var record domain.ActionRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			if record.Cleared {
				continue
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && records[0].Action.ID > afterID+1 {
		return nil, fmt.Errorf("%w: earliest retrievable id is %d, requested actions after %d",
			liberrors.ErrMissingActions, records[0].Action.ID, afterID)
	}
	return records, nil
}

// ClearActionsAfter tombstones every record with id > actionID recorded no
// later than before. Tombstoned records stay on disk until their TTL expires
// but become invisible to catch-up. Returns the number of cleared records.
func (r *ActionRepository) ClearActionsAfter(id domain.ProjectID, roleID domain.RoleID, actionID int64, before time.Time) (int, error) {
	count := 0
	err := r.db.Update(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = actionPrefix(id, roleID)
		it := txn.NewIterator(options)
		defer it.Close()

		type cleared struct {
			key   []byte
			value []byte
		}
		var pending []cleared

		for it.Seek(actionKey(id, roleID, actionID+1)); it.Valid(); it.Next() {
			item := it.Item()
			var record domain.ActionRecord
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			if record.Cleared || record.Time.After(before) {
				continue
			}
			record.Cleared = true
			bytes, err := json.Marshal(record)
			if err != nil {
				return err
			}
			pending = append(pending, cleared{key: item.KeyCopy(nil), value: bytes})
		}

		for _, p := range pending {
			entry := badger.NewEntry(p.key, p.value)
			if r.ttl > 0 {
				entry = entry.WithTTL(r.ttl)
			}
			if err := txn.SetEntry(entry); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.log.Debug(fmt.Sprintf("Cleared %d action(s) after %d in %s at role %s", count, actionID, id, roleID))
	return count, nil
}

// GetLatestActionID returns the admitted-id baseline, 0 when none was ever set.
func (r *ActionRepository) GetLatestActionID(id domain.ProjectID, roleID domain.RoleID) (int64, error) {
	var latest int64
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(latestIDKey(id, roleID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			_, err := fmt.Sscanf(string(val), "%d", &latest)
			return err
		})
	})
	return latest, err
}

func (r *ActionRepository) SetLatestActionID(id domain.ProjectID, roleID domain.RoleID, actionID int64) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(latestIDKey(id, roleID), []byte(fmt.Sprintf("%d", actionID)))
	})
}
