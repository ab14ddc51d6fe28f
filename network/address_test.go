package network

import (
	"collab-lab/domain"
	liberrors "collab-lab/errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveAddress_QualifiedRole(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "driver", "navigator")

	address, err := ResolveAddress(h.projects, "driver@maze@alice", "", "")
	req.NoError(err)
	req.Equal(meta.ID, address.ProjectID)
	req.Equal([]domain.RoleID{roleIDFor("driver")}, address.RoleIDs)
	req.Equal([]string{"driver@maze@alice"}, address.PublicIDs())
}

func TestResolveAddress_QualifiedProjectCoversAllRoles(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "driver", "navigator")

	address, err := ResolveAddress(h.projects, "maze@alice", "", "")
	req.NoError(err)
	req.Equal(meta.ID, address.ProjectID)
	req.ElementsMatch([]domain.RoleID{roleIDFor("driver"), roleIDFor("navigator")}, address.RoleIDs)
}

func TestResolveAddress_UnknownTargetsFail(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	h.createProject(t, "alice", "maze", false, "driver")

	_, err := ResolveAddress(h.projects, "maze@nobody", "", "")
	req.ErrorIs(err, liberrors.ErrAddressNotFound)

	_, err = ResolveAddress(h.projects, "pilot@maze@alice", "", "")
	req.ErrorIs(err, liberrors.ErrAddressNotFound)
}

func TestResolveAddress_ReservedTokens(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "driver", "navigator")

	everyone, err := ResolveAddress(h.projects, AddressEveryone, meta.ID, roleIDFor("driver"))
	req.NoError(err)
	req.ElementsMatch([]domain.RoleID{roleIDFor("driver"), roleIDFor("navigator")}, everyone.RoleIDs)

	others, err := ResolveAddress(h.projects, AddressOthers, meta.ID, roleIDFor("driver"))
	req.NoError(err)
	req.Equal([]domain.RoleID{roleIDFor("navigator")}, others.RoleIDs)
}

func TestResolveAddress_BareRoleName(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "driver", "navigator")

	address, err := ResolveAddress(h.projects, "navigator", meta.ID, roleIDFor("driver"))
	req.NoError(err)
	req.Equal([]domain.RoleID{roleIDFor("navigator")}, address.RoleIDs)

	// A name matching nothing resolves to nobody without failing
	address, err = ResolveAddress(h.projects, "copilot", meta.ID, roleIDFor("driver"))
	req.NoError(err)
	req.Empty(address.RoleIDs)
}

func TestAddress_ResolveUnionsLiveConnections(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "driver", "navigator")

	driver := h.connect(t)
	h.join(t, driver, meta.ID, roleIDFor("driver"), "alice")
	navigator := h.connect(t)
	h.join(t, navigator, meta.ID, roleIDFor("navigator"), "bob")

	address, err := ResolveAddress(h.projects, fmt.Sprintf("maze@%s", "alice"), "", "")
	req.NoError(err)
	clients := address.Resolve(h.services.Topology)
	req.Len(clients, 2)

	// Resolving an empty role is a delivery to nobody, not an error
	h.services.Topology.Deregister(navigator)
	address, err = ResolveAddress(h.projects, "navigator@maze@alice", "", "")
	req.NoError(err)
	req.Empty(address.Resolve(h.services.Topology))
}
