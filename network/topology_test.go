package network

import (
	"collab-lab/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTopology_DeregisterIsIdempotent(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", true, "player")
	client := h.connect(t)
	h.join(t, client, meta.ID, roleIDFor("player"), "alice")

	h.services.Topology.Deregister(client)
	h.services.Topology.Deregister(client)

	req.Zero(h.services.Topology.ClientCount())
	req.Empty(h.services.Topology.ConnectionsAt(meta.ID, roleIDFor("player")))
}

func TestTopology_SetClientStateBroadcastsPostTransitionOccupancy(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "driver", "navigator")

	first := h.connect(t)
	h.join(t, first, meta.ID, roleIDFor("driver"), "alice")
	takeSent(t, first)

	// When a second client joins the other role
	second := h.connect(t)
	h.join(t, second, meta.ID, roleIDFor("navigator"), "bob")

	// Then the first client's update already shows both occupants
	updates := sentOfType(t, first, msgRoomRoles)
	req.NotEmpty(updates)
	last := updates[len(updates)-1]
	roles := last["roles"].(map[string]any)
	driver := roles[string(roleIDFor("driver"))].(map[string]any)
	navigator := roles[string(roleIDFor("navigator"))].(map[string]any)
	req.Len(driver["occupants"].([]any), 1)
	req.Len(navigator["occupants"].([]any), 1)

	occupant := navigator["occupants"].([]any)[0].(map[string]any)
	req.Equal("bob", occupant["username"])
	req.Equal(second.ID(), occupant["uuid"])
}

func TestTopology_SnapshotHidesAnonymousIdentifiers(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "player")
	client := h.connect(t)

	// Given a connection that never authenticated
	h.join(t, client, meta.ID, roleIDFor("player"), "")

	snapshot, err := h.services.Topology.RoomSnapshot(meta.ID, true)
	req.NoError(err)
	occupants := snapshot.Roles[roleIDFor("player")].Occupants
	req.Len(occupants, 1)
	req.Nil(occupants[0].Username)
	req.Equal(client.ID(), occupants[0].ClientID)
}

func TestTopology_MovingProjectsBroadcastsToBothRooms(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	oldProject := h.createProject(t, "alice", "maze", false, "player")
	newProject := h.createProject(t, "alice", "pacman", false, "player")

	stayer := h.connect(t)
	h.join(t, stayer, oldProject.ID, roleIDFor("player"), "alice")
	mover := h.connect(t)
	h.join(t, mover, oldProject.ID, roleIDFor("player"), "bob")
	takeSent(t, stayer)
	takeSent(t, mover)

	// When the mover switches projects
	h.join(t, mover, newProject.ID, roleIDFor("player"), "bob")

	// Then the old room sees the departure
	updates := sentOfType(t, stayer, msgRoomRoles)
	req.NotEmpty(updates)
	last := updates[len(updates)-1]
	req.Equal(string(oldProject.ID), last["id"])
	occupants := last["roles"].(map[string]any)[string(roleIDFor("player"))].(map[string]any)["occupants"].([]any)
	req.Len(occupants, 1)

	// And the mover got the new room's snapshot
	moverUpdates := sentOfType(t, mover, msgRoomRoles)
	req.NotEmpty(moverUpdates)
	req.Equal(string(newProject.ID), moverUpdates[len(moverUpdates)-1]["id"])
}

func TestTopology_LastLeaveMarksTransientProjectForDeletion(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "scratchpad", true, "player")
	client := h.connect(t)
	h.join(t, client, meta.ID, roleIDFor("player"), "alice")

	// When the only occupant disconnects
	h.services.Topology.Deregister(client)

	// Then the project is stamped for deferred deletion, not removed
	stored, err := h.projects.GetProjectMetadataByID(meta.ID)
	req.NoError(err)
	req.NotNil(stored.DeleteAt)
}

func TestTopology_RoleVacancyOfPersistedProjectCompacts(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "player")
	roleID := roleIDFor("player")
	client := h.connect(t)
	h.join(t, client, meta.ID, roleID, "alice")

	for id := int64(1); id <= 3; id++ {
		_, err := h.services.Sequencer.Submit(client, domain.Action{ID: id})
		req.NoError(err)
	}
	req.NoError(h.projects.SetRoleContent(meta.ID, roleID, domain.RoleContent{Name: "player", ActionID: 1}))

	// When the occupant disconnects
	h.services.Topology.Deregister(client)

	// Then the baseline fell back to the saved document
	latest, err := h.actions.GetLatestActionID(meta.ID, roleID)
	req.NoError(err)
	req.EqualValues(1, latest)

	records, err := h.actions.GetActionsAfter(meta.ID, roleID, 1)
	req.NoError(err)
	req.Empty(records)
}

func TestTopology_SetClientStateForUnknownClientReturnsSnapshot(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "player")
	watcher := h.connect(t)
	h.join(t, watcher, meta.ID, roleIDFor("player"), "alice")
	takeSent(t, watcher)

	snapshot, err := h.services.Topology.SetClientState("never-registered", meta.ID, roleIDFor("player"), "ghost")
	req.NoError(err)
	req.Equal(meta.ID, snapshot.ID)
	req.Len(snapshot.Roles[roleIDFor("player")].Occupants, 1)

	// Nothing changed, so nobody in the room gets an update
	req.Empty(sentOfType(t, watcher, msgRoomRoles))
}
