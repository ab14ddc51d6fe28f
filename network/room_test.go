package network

import (
	"collab-lab/domain"
	liberrors "collab-lab/errors"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoom_CreateRoleEnforcesUniqueDisplayNames(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "driver")
	room := NewRoom(h.services, meta.ID)

	roleID, err := room.CreateRole("navigator")
	req.NoError(err)
	req.NotEmpty(roleID)

	_, err = room.CreateRole("driver")
	req.ErrorIs(err, liberrors.ErrRoleNameTaken)

	stored, err := h.projects.GetProjectMetadataByID(meta.ID)
	req.NoError(err)
	req.Len(stored.Roles, 2)
	req.True(stored.HasRoleNamed("navigator"))
}

func TestRoom_RenameRoleRejectsTakenNames(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "driver", "navigator")
	room := NewRoom(h.services, meta.ID)

	req.ErrorIs(room.RenameRole(roleIDFor("navigator"), "driver"), liberrors.ErrRoleNameTaken)

	// Renaming to its own current name is a no-op, not a conflict
	req.NoError(room.RenameRole(roleIDFor("navigator"), "navigator"))

	req.NoError(room.RenameRole(roleIDFor("navigator"), "copilot"))
	stored, err := h.projects.GetProjectMetadataByID(meta.ID)
	req.NoError(err)
	req.True(stored.HasRoleNamed("copilot"))
	req.False(stored.HasRoleNamed("navigator"))
}

func TestRoom_RemoveRoleEvictsOccupants(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "driver", "navigator")

	occupant := h.connect(t)
	h.join(t, occupant, meta.ID, roleIDFor("navigator"), "bob")
	takeSent(t, occupant)

	room := NewRoom(h.services, meta.ID)
	req.NoError(room.RemoveRole(roleIDFor("navigator")))

	req.Len(sentOfType(t, occupant, msgEvicted), 1)
	stored, err := h.projects.GetProjectMetadataByID(meta.ID)
	req.NoError(err)
	req.Len(stored.Roles, 1)
}

func TestRoom_SaveFlipsTransientOff(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "scratchpad", true, "driver")
	req.NoError(h.projects.SetRoleContent(meta.ID, roleIDFor("driver"), domain.RoleContent{
		Name:       "driver",
		SourceCode: "<draft/>",
	}))

	room := NewRoom(h.services, meta.ID)
	req.NoError(room.Save(context.Background()))

	stored, err := h.projects.GetProjectMetadataByID(meta.ID)
	req.NoError(err)
	req.False(stored.Transient)
	req.Nil(stored.DeleteAt)

	content, err := h.projects.GetRoleContent(meta.ID, roleIDFor("driver"))
	req.NoError(err)
	req.Equal("<draft/>", content.SourceCode)
}

func TestRoom_ForkCopiesContentUnderNewOwner(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "driver")
	req.NoError(h.projects.SetRoleContent(meta.ID, roleIDFor("driver"), domain.RoleContent{
		Name:       "driver",
		SourceCode: "<original/>",
	}))

	room := NewRoom(h.services, meta.ID)
	fork, err := room.Fork(context.Background(), "bob")
	req.NoError(err)
	req.NotEqual(meta.ID, fork.ID)
	req.Equal("bob", fork.Owner)
	req.Equal("maze", fork.Name)
	req.True(fork.Transient)

	content, err := h.projects.GetRoleContent(fork.ID, roleIDFor("driver"))
	req.NoError(err)
	req.Equal("<original/>", content.SourceCode)

	// The source project is untouched
	original, err := h.projects.GetProjectMetadataByID(meta.ID)
	req.NoError(err)
	req.Equal("alice", original.Owner)
}
