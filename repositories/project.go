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

// ProjectRepository persists project metadata and role documents in BadgerDB.
// Keys:
//
//	projmeta:{projectID}            -> ProjectMetadata (JSON)
//	projname:{owner}:{name}         -> projectID (owner+name lookup index)
//	rolecontent:{projectID}:{roleID} -> RoleContent (JSON)
//
// The name index is maintained alongside the metadata record inside a single
// transaction so lookups by (owner, name) never observe a half-created project.
type ProjectRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewProjectRepository(db *badger.DB, log *slog.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, log: log}
}

func metaKey(id domain.ProjectID) []byte {
	return []byte(fmt.Sprintf("projmeta:%s", id))
}

func nameKey(owner, name string) []byte {
	return []byte(fmt.Sprintf("projname:%s:%s", owner, name))
}

func contentKey(id domain.ProjectID, roleID domain.RoleID) []byte {
	return []byte(fmt.Sprintf("rolecontent:%s:%s", id, roleID))
}

func (r *ProjectRepository) GetProjectMetadataByID(id domain.ProjectID) (domain.ProjectMetadata, error) {
	var meta domain.ProjectMetadata
	err := r.db.View(func(txn *badger.Txn) error {
		return readJSON(txn, metaKey(id), &meta)
	})
	if err == badger.ErrKeyNotFound {
		return domain.ProjectMetadata{}, liberrors.ErrProjectNotFound
	}
	return meta, err
}

func (r *ProjectRepository) GetProjectMetadata(owner, name string) (domain.ProjectMetadata, error) {
	var meta domain.ProjectMetadata
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nameKey(owner, name))
		if err != nil {
			return err
		}
		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}
		return readJSON(txn, metaKey(domain.ProjectID(id)), &meta)
	})
	if err == badger.ErrKeyNotFound {
		return domain.ProjectMetadata{}, liberrors.ErrProjectNotFound
	}
	return meta, err
}

func (r *ProjectRepository) CreateProject(meta domain.ProjectMetadata) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if err := writeJSON(txn, metaKey(meta.ID), meta); err != nil {
			return err
		}
		return txn.Set(nameKey(meta.Owner, meta.Name), []byte(meta.ID))
	})
}

func (r *ProjectRepository) SetTransient(id domain.ProjectID, transient bool) error {
	return r.updateMeta(id, func(meta *domain.ProjectMetadata) error {
		meta.Transient = transient
		meta.DeleteAt = nil
		return nil
	})
}

func (r *ProjectRepository) AddCollaborator(id domain.ProjectID, username string) error {
	return r.updateMeta(id, func(meta *domain.ProjectMetadata) error {
		if meta.IsCollaborator(username) {
			return nil
		}
		meta.Collaborators = append(meta.Collaborators, username)
		return nil
	})
}

func (r *ProjectRepository) CreateRole(id domain.ProjectID, roleID domain.RoleID, content domain.RoleContent) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var meta domain.ProjectMetadata
		if err := readJSON(txn, metaKey(id), &meta); err != nil {
			return err
		}
		if meta.Roles == nil {
			meta.Roles = make(map[domain.RoleID]domain.RoleMetadata)
		}
		meta.Roles[roleID] = domain.RoleMetadata{
			Name:          content.Name,
			LastUpdatedAt: content.UpdatedAt,
		}
		if err := writeJSON(txn, metaKey(id), meta); err != nil {
			return err
		}
		return writeJSON(txn, contentKey(id, roleID), content)
	})
}

func (r *ProjectRepository) RenameRole(id domain.ProjectID, roleID domain.RoleID, name string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var meta domain.ProjectMetadata
		if err := readJSON(txn, metaKey(id), &meta); err != nil {
			return err
		}
		role, ok := meta.Roles[roleID]
		if !ok {
			return liberrors.ErrRoleNotFound
		}
		role.Name = name
		role.LastUpdatedAt = time.Now().UTC()
		meta.Roles[roleID] = role
		if err := writeJSON(txn, metaKey(id), meta); err != nil {
			return err
		}

		var content domain.RoleContent
		err := readJSON(txn, contentKey(id, roleID), &content)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		content.Name = name
		return writeJSON(txn, contentKey(id, roleID), content)
	})
}

func (r *ProjectRepository) RemoveRole(id domain.ProjectID, roleID domain.RoleID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var meta domain.ProjectMetadata
		if err := readJSON(txn, metaKey(id), &meta); err != nil {
			return err
		}
		if _, ok := meta.Roles[roleID]; !ok {
			return liberrors.ErrRoleNotFound
		}
		delete(meta.Roles, roleID)
		if err := writeJSON(txn, metaKey(id), meta); err != nil {
			return err
		}
		return txn.Delete(contentKey(id, roleID))
	})
}

func (r *ProjectRepository) GetRoleContent(id domain.ProjectID, roleID domain.RoleID) (domain.RoleContent, error) {
	var content domain.RoleContent
	err := r.db.View(func(txn *badger.Txn) error {
		return readJSON(txn, contentKey(id, roleID), &content)
	})
	if err == badger.ErrKeyNotFound {
		return domain.RoleContent{}, liberrors.ErrRoleNotFound
	}
	return content, err
}

func (r *ProjectRepository) SetRoleContent(id domain.ProjectID, roleID domain.RoleID, content domain.RoleContent) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var meta domain.ProjectMetadata
		if err := readJSON(txn, metaKey(id), &meta); err != nil {
			return err
		}
		role, ok := meta.Roles[roleID]
		if !ok {
			return liberrors.ErrRoleNotFound
		}
		role.Name = content.Name
		role.LastUpdatedAt = content.UpdatedAt
		role.LatestActionID = content.ActionID
		meta.Roles[roleID] = role
		if err := writeJSON(txn, metaKey(id), meta); err != nil {
			return err
		}
		return writeJSON(txn, contentKey(id, roleID), content)
	})
}

// MarkForDeletion stamps the project instead of removing it synchronously.
// The sweeper worker purges stamped projects once the grace period elapsed,
// which lets a quickly reconnecting client reclaim its transient project.
func (r *ProjectRepository) MarkForDeletion(id domain.ProjectID) error {
	now := time.Now().UTC()
	return r.updateMeta(id, func(meta *domain.ProjectMetadata) error {
		meta.DeleteAt = &now
		return nil
	})
}

// PurgeMarkedBefore removes every project marked for deletion before the
// cutoff, together with its name index entry and role documents.
func (r *ProjectRepository) PurgeMarkedBefore(cutoff time.Time) (int, error) {
	type victim struct {
		meta domain.ProjectMetadata
	}
	var victims []victim

	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = []byte("projmeta:")
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var meta domain.ProjectMetadata
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			})
			if err != nil {
				return err
			}
			if meta.DeleteAt != nil && meta.DeleteAt.Before(cutoff) {
				victims = append(victims, victim{meta: meta})
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, v := range victims {
		err := r.db.Update(func(txn *badger.Txn) error {
			if err := txn.Delete(metaKey(v.meta.ID)); err != nil {
				return err
			}
			if err := txn.Delete(nameKey(v.meta.Owner, v.meta.Name)); err != nil {
				return err
			}
			for roleID := range v.meta.Roles {
				if err := txn.Delete(contentKey(v.meta.ID, roleID)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return 0, err
		}
		r.log.Debug(fmt.Sprintf("Purged transient project %s (%s/%s)", v.meta.ID, v.meta.Owner, v.meta.Name))
	}
	return len(victims), nil
}

func (r *ProjectRepository) updateMeta(id domain.ProjectID, mutate func(*domain.ProjectMetadata) error) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		var meta domain.ProjectMetadata
		if err := readJSON(txn, metaKey(id), &meta); err != nil {
			return err
		}
		if err := mutate(&meta); err != nil {
			return err
		}
		return writeJSON(txn, metaKey(id), meta)
	})
	if err == badger.ErrKeyNotFound {
		return liberrors.ErrProjectNotFound
	}
	return err
}

func readJSON(txn *badger.Txn, key []byte, dst any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

func writeJSON(txn *badger.Txn, key []byte, src any) error {
	bytes, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return txn.Set(key, bytes)
}
