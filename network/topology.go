package network

import (
	"collab-lab/contract"
	"collab-lab/domain"
	liberrors "collab-lab/errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Topology is the process-wide registry of live connections and their room
// occupancy. One coarse lock guards the whole registry; nothing below ever
// holds it across storage calls or socket sends.
type Topology struct {
	log       *slog.Logger
	projects  contract.ProjectStore
	sequencer *Sequencer

	mu      sync.RWMutex
	clients map[string]*Client
	byRoom  map[roomKey]map[string]*Client

	metaMu   sync.Mutex
	metadata map[domain.ProjectID]domain.ProjectMetadata
}

func NewTopology(log *slog.Logger, projects contract.ProjectStore, sequencer *Sequencer) *Topology {
	return &Topology{
		log:       log,
		projects:  projects,
		sequencer: sequencer,
		clients:   make(map[string]*Client),
		byRoom:    make(map[roomKey]map[string]*Client),
		metadata:  make(map[domain.ProjectID]domain.ProjectMetadata),
	}
}

func (t *Topology) Register(client *Client) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clients[client.ID()] = client
	t.indexLocked(client)
}

// RenameClient moves a registered connection to a client-chosen identifier.
// The claim commits only after the conflict check, so a refused claim leaves
// both the connection and the registry untouched.
func (t *Topology) RenameClient(client *Client, newID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	oldID := client.ID()
	if holder, taken := t.clients[newID]; taken && holder != client {
		return fmt.Errorf("%w: %s", liberrors.ErrClientIDConflict, newID)
	}
	if err := client.claimID(newID); err != nil {
		return err
	}
	if oldID == newID {
		return nil
	}
	if holder, ok := t.clients[oldID]; ok && holder == client {
		delete(t.clients, oldID)
	}
	t.clients[newID] = client
	if projectID, roleID, ok := client.Room(); ok {
		key := roomKey{project: projectID, role: roleID}
		if room, ok := t.byRoom[key]; ok {
			delete(room, oldID)
			room[newID] = client
		}
	}
	return nil
}

// Deregister removes the connection and, when it occupied a role, runs the
// leave sequence and re-broadcasts occupancy. Safe against racing close
// paths: only the call that actually removed the entry does the follow-up.
func (t *Topology) Deregister(client *Client) {
	t.mu.Lock()
	if holder, ok := t.clients[client.ID()]; !ok || holder != client {
		t.mu.Unlock()
		return
	}
	delete(t.clients, client.ID())
	projectID, roleID, hadRoom := client.Room()
	if hadRoom {
		t.removeFromIndexLocked(client, projectID, roleID)
	}
	t.mu.Unlock()

	if hadRoom {
		t.leaveSequence(projectID, roleID)
		if _, err := t.BroadcastRoomUpdate(projectID, true); err != nil {
			t.log.Warn(fmt.Sprintf("could not broadcast room update for %s after disconnect: %v", projectID, err))
		}
	}
}

// SetClientState binds a connection to a (project, role) pair. The old role
// runs its leave sequence, both the old and the new project get a fresh
// occupancy broadcast, and the returned snapshot reflects the new occupancy.
func (t *Topology) SetClientState(clientID string, projectID domain.ProjectID, roleID domain.RoleID, username string) (domain.RoomSnapshot, error) {
	t.mu.Lock()
	client, ok := t.clients[clientID]
	if !ok {
		t.mu.Unlock()
		t.log.Info(fmt.Sprintf("could not set client state for unknown client %s", clientID))
		return t.RoomSnapshot(projectID, true)
	}
	oldProject, oldRole, hadRoom := client.Room()
	client.setState(projectID, roleID, username)
	if hadRoom {
		t.removeFromIndexLocked(client, oldProject, oldRole)
	}
	t.indexLocked(client)
	t.mu.Unlock()

	if hadRoom && (oldProject != projectID || oldRole != roleID) {
		t.leaveSequence(oldProject, oldRole)
	}
	if hadRoom && oldProject != projectID {
		if _, err := t.BroadcastRoomUpdate(oldProject, true); err != nil {
			t.log.Warn(fmt.Sprintf("could not broadcast room update for vacated project %s: %v", oldProject, err))
		}
	}
	return t.BroadcastRoomUpdate(projectID, true)
}

// WithID returns the registered connection with the given client id.
func (t *Topology) WithID(clientID string) (*Client, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	client, ok := t.clients[clientID]
	return client, ok
}

// ConnectionsAt returns every connection currently bound to the role,
// ordered by client id so broadcasts and live-content picks are stable.
func (t *Topology) ConnectionsAt(id domain.ProjectID, roleID domain.RoleID) []*Client {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return sortedClients(t.byRoom[roomKey{project: id, role: roleID}])
}

// ConnectionsInProject returns every connection across all roles of a project.
func (t *Topology) ConnectionsInProject(id domain.ProjectID) []*Client {
	t.mu.RLock()
	defer t.mu.RUnlock()
	merged := make(map[string]*Client)
	for key, room := range t.byRoom {
		if key.project != id {
			continue
		}
		for clientID, client := range room {
			merged[clientID] = client
		}
	}
	return sortedClients(merged)
}

// ClientCount returns the number of live connections.
func (t *Topology) ClientCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.clients)
}

// OccupiedProjectCount returns the number of projects with at least one
// connection bound to one of their roles.
func (t *Topology) OccupiedProjectCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	projects := make(map[domain.ProjectID]struct{})
	for key, room := range t.byRoom {
		if len(room) > 0 {
			projects[key.project] = struct{}{}
		}
	}
	return len(projects)
}

// RoomSnapshot builds the occupancy picture of one project. With refresh set
// the metadata is re-read from storage, otherwise a cached copy may serve.
func (t *Topology) RoomSnapshot(id domain.ProjectID, refresh bool) (domain.RoomSnapshot, error) {
	meta, err := t.projectMetadata(id, refresh)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}

	t.mu.RLock()
	roles := make(map[domain.RoleID]domain.RoleState, len(meta.Roles))
	for roleID, role := range meta.Roles {
		occupants := []domain.Occupant{}
		for _, client := range sortedClients(t.byRoom[roomKey{project: id, role: roleID}]) {
			occupant := domain.Occupant{ClientID: client.ID()}
			if username, ok := client.AuthenticatedUsername(); ok {
				occupant.Username = &username
			}
			occupants = append(occupants, occupant)
		}
		roles[roleID] = domain.RoleState{Name: role.Name, Occupants: occupants}
	}
	t.mu.RUnlock()

	collaborators := meta.Collaborators
	if collaborators == nil {
		collaborators = []string{}
	}
	return domain.RoomSnapshot{
		Version:       time.Now().UnixMilli(),
		ID:            meta.ID,
		Owner:         meta.Owner,
		Name:          meta.Name,
		Saved:         !meta.Transient,
		Collaborators: collaborators,
		Roles:         roles,
	}, nil
}

// BroadcastRoomUpdate sends a fresh snapshot to every member of the project.
// The snapshot is built after any preceding index mutation, so members always
// observe post-transition occupancy.
func (t *Topology) BroadcastRoomUpdate(id domain.ProjectID, refresh bool) (domain.RoomSnapshot, error) {
	snapshot, err := t.RoomSnapshot(id, refresh)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	clients := t.ConnectionsInProject(id)
	t.log.Debug(fmt.Sprintf("About to send room update for %s to %d client(s)", id, len(clients)))
	message := roomRolesMessage{Type: msgRoomRoles, RoomSnapshot: snapshot}
	for _, client := range clients {
		client.Send(message)
	}
	return snapshot, nil
}

// leaveSequence runs after a role lost a connection. An empty role of an
// otherwise empty transient project marks the whole project for deletion; an
// empty role of a project that still matters resets the role's admission
// baseline and compacts its buffered log.
func (t *Topology) leaveSequence(id domain.ProjectID, roleID domain.RoleID) {
	t.mu.RLock()
	roleEmpty := len(t.byRoom[roomKey{project: id, role: roleID}]) == 0
	projectEmpty := true
	for key, room := range t.byRoom {
		if key.project == id && len(room) > 0 {
			projectEmpty = false
			break
		}
	}
	t.mu.RUnlock()

	if !roleEmpty {
		return
	}
	meta, err := t.projects.GetProjectMetadataByID(id)
	if err != nil {
		t.log.Warn(fmt.Sprintf("leave sequence for %s at role %s: %v", id, roleID, err))
		return
	}
	if projectEmpty && meta.Transient {
		if err := t.projects.MarkForDeletion(id); err != nil {
			t.log.Error(fmt.Sprintf("could not mark transient project %s for deletion: %v", id, err))
		}
		return
	}
	if err := t.sequencer.OnRoleVacated(id, roleID); err != nil {
		t.log.Error(fmt.Sprintf("could not compact vacated role %s of %s: %v", roleID, id, err))
	}
}

func (t *Topology) projectMetadata(id domain.ProjectID, refresh bool) (domain.ProjectMetadata, error) {
	if !refresh {
		t.metaMu.Lock()
		meta, ok := t.metadata[id]
		t.metaMu.Unlock()
		if ok {
			return meta, nil
		}
	}
	meta, err := t.projects.GetProjectMetadataByID(id)
	if err != nil {
		return domain.ProjectMetadata{}, err
	}
	t.metaMu.Lock()
	t.metadata[id] = meta
	t.metaMu.Unlock()
	return meta, nil
}

func (t *Topology) indexLocked(client *Client) {
	projectID, roleID, ok := client.Room()
	if !ok {
		return
	}
	key := roomKey{project: projectID, role: roleID}
	room, ok := t.byRoom[key]
	if !ok {
		room = make(map[string]*Client)
		t.byRoom[key] = room
	}
	room[client.ID()] = client
}

func (t *Topology) removeFromIndexLocked(client *Client, id domain.ProjectID, roleID domain.RoleID) {
	key := roomKey{project: id, role: roleID}
	room, ok := t.byRoom[key]
	if !ok {
		return
	}
	delete(room, client.ID())
	if len(room) == 0 {
		delete(t.byRoom, key)
	}
}

// sortedClients orders a room by client id so broadcasts and live-content
// picks are stable across calls.
func sortedClients(room map[string]*Client) []*Client {
	clients := lo.Values(room)
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID() < clients[j].ID() })
	return clients
}
