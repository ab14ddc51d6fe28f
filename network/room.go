package network

import (
	"collab-lab/domain"
	liberrors "collab-lab/errors"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Room is the session façade over one open project: a thin coordination layer
// between the topology registry and storage. It holds no state of its own, so
// a fresh one per request is fine.
type Room struct {
	services  *Services
	projectID domain.ProjectID
}

func NewRoom(services *Services, projectID domain.ProjectID) *Room {
	return &Room{services: services, projectID: projectID}
}

func (r *Room) metadata() (domain.ProjectMetadata, error) {
	return r.services.Projects.GetProjectMetadataByID(r.projectID)
}

// CreateRole adds a role whose display name is unique among the project's
// current roles and announces the new layout to the members.
func (r *Room) CreateRole(name string) (domain.RoleID, error) {
	meta, err := r.metadata()
	if err != nil {
		return "", err
	}
	if meta.HasRoleNamed(name) {
		return "", fmt.Errorf("%w: %q in %s", liberrors.ErrRoleNameTaken, name, r.projectID)
	}
	roleID := domain.RoleID(uuid.NewString())
	content := domain.RoleContent{Name: name, UpdatedAt: time.Now().UTC()}
	if err := r.services.Projects.CreateRole(r.projectID, roleID, content); err != nil {
		return "", err
	}
	if _, err := r.services.Topology.BroadcastRoomUpdate(r.projectID, true); err != nil {
		return "", err
	}
	return roleID, nil
}

func (r *Room) RenameRole(roleID domain.RoleID, name string) error {
	meta, err := r.metadata()
	if err != nil {
		return err
	}
	if existing, ok := meta.RoleIDByName(name); ok && existing != roleID {
		return fmt.Errorf("%w: %q in %s", liberrors.ErrRoleNameTaken, name, r.projectID)
	}
	if err := r.services.Projects.RenameRole(r.projectID, roleID, name); err != nil {
		return err
	}
	_, err = r.services.Topology.BroadcastRoomUpdate(r.projectID, true)
	return err
}

// RemoveRole drops the role, evicting whoever occupies it first.
func (r *Room) RemoveRole(roleID domain.RoleID) error {
	for _, occupant := range r.services.Topology.ConnectionsAt(r.projectID, roleID) {
		occupant.Evict()
	}
	if err := r.services.Projects.RemoveRole(r.projectID, roleID); err != nil {
		return err
	}
	_, err := r.services.Topology.BroadcastRoomUpdate(r.projectID, true)
	return err
}

// SaveRole persists the role's current document, preferring the live copy of
// an occupant over whatever storage last saw.
func (r *Room) SaveRole(ctx context.Context, roleID domain.RoleID) error {
	content, err := r.liveOrStored(ctx, roleID)
	if err != nil {
		return err
	}
	content.UpdatedAt = time.Now().UTC()
	return r.services.Projects.SetRoleContent(r.projectID, roleID, content)
}

// Save persists every role and flips the project to persisted, taking it off
// the transient-deletion path.
func (r *Room) Save(ctx context.Context) error {
	meta, err := r.metadata()
	if err != nil {
		return err
	}
	for _, roleID := range meta.RoleIDs() {
		if err := r.SaveRole(ctx, roleID); err != nil {
			return err
		}
	}
	if err := r.services.Projects.SetTransient(r.projectID, false); err != nil {
		return err
	}
	_, err = r.services.Topology.BroadcastRoomUpdate(r.projectID, true)
	return err
}

// Export assembles the whole project for the requester: live content from the
// first occupant of each role, stored content for empty or unresponsive ones.
func (r *Room) Export(ctx context.Context) (domain.ProjectExport, error) {
	meta, err := r.metadata()
	if err != nil {
		return domain.ProjectExport{}, err
	}
	export := domain.ProjectExport{Name: meta.Name}
	for _, roleID := range meta.RoleIDs() {
		content, err := r.liveOrStored(ctx, roleID)
		if err != nil {
			return domain.ProjectExport{}, err
		}
		name := content.Name
		if name == "" {
			name = meta.Roles[roleID].Name
		}
		export.Roles = append(export.Roles, domain.RoleExport{
			Name:       name,
			SourceCode: content.SourceCode,
			Media:      content.Media,
		})
	}
	return export, nil
}

// Fork copies the project under a new id for the given owner. The copy is
// transient until its new owner saves it.
func (r *Room) Fork(ctx context.Context, owner string) (domain.ProjectMetadata, error) {
	meta, err := r.metadata()
	if err != nil {
		return domain.ProjectMetadata{}, err
	}
	fork := domain.ProjectMetadata{
		ID:             domain.ProjectID(uuid.NewString()),
		Owner:          owner,
		Name:           meta.Name,
		Collaborators:  []string{},
		Roles:          make(map[domain.RoleID]domain.RoleMetadata, len(meta.Roles)),
		Transient:      true,
		Public:         false,
		RecordMessages: meta.RecordMessages,
		OriginTime:     time.Now().UTC(),
	}
	contents := make(map[domain.RoleID]domain.RoleContent, len(meta.Roles))
	for _, roleID := range meta.RoleIDs() {
		content, err := r.liveOrStored(ctx, roleID)
		if err != nil {
			return domain.ProjectMetadata{}, err
		}
		if content.Name == "" {
			content.Name = meta.Roles[roleID].Name
		}
		contents[roleID] = content
		fork.Roles[roleID] = domain.RoleMetadata{
			Name:          content.Name,
			LastUpdatedAt: time.Now().UTC(),
		}
	}
	if err := r.services.Projects.CreateProject(fork); err != nil {
		return domain.ProjectMetadata{}, err
	}
	for roleID, content := range contents {
		if err := r.services.Projects.CreateRole(fork.ID, roleID, content); err != nil {
			return domain.ProjectMetadata{}, err
		}
	}
	return fork, nil
}

// liveOrStored fetches the role document from its first occupant, falling
// back to storage when the role is empty or the occupant does not answer in
// time. A role that exists nowhere yields empty content rather than an error.
func (r *Room) liveOrStored(ctx context.Context, roleID domain.RoleID) (domain.RoleContent, error) {
	occupants := r.services.Topology.ConnectionsAt(r.projectID, roleID)
	if len(occupants) > 0 {
		content, err := occupants[0].RequestProjectContent(ctx, r.services.RequestTimeout)
		if err == nil {
			return content, nil
		}
		r.services.Log.Info(fmt.Sprintf("falling back to stored content for role %s of %s: %v", roleID, r.projectID, err))
	}
	content, err := r.services.Projects.GetRoleContent(r.projectID, roleID)
	if err != nil {
		if errors.Is(err, liberrors.ErrRoleNotFound) {
			return domain.RoleContent{}, nil
		}
		return domain.RoleContent{}, err
	}
	return content, nil
}
