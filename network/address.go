package network

import (
	"collab-lab/contract"
	"collab-lab/domain"
	liberrors "collab-lab/errors"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Address is a resolved destination expression: one target project and the
// role ids within it a message should reach. Zero matching roles is a valid
// resolution; only a destination that cannot name an existing project or role
// fails.
type Address struct {
	ProjectID domain.ProjectID
	RoleIDs   []domain.RoleID

	owner       string
	projectName string
	roleNames   map[domain.RoleID]string
}

// ResolveAddress turns a destination expression into an Address.
// Supported forms:
//
//	role@project@owner   one named role of a project looked up by owner+name
//	project@owner        every role of that project
//	"everyone in room"   every role of the sender's project
//	"others in room"     every role of the sender's project except the sender's
//	anything else        roles of the sender's project with that display name
func ResolveAddress(projects contract.ProjectStore, dst string, srcProject domain.ProjectID, srcRole domain.RoleID) (*Address, error) {
	if parts := strings.Split(dst, "@"); len(parts) >= 2 {
		owner := parts[len(parts)-1]
		projectName := parts[len(parts)-2]
		roleName := strings.Join(parts[:len(parts)-2], "@")
		return resolveQualified(projects, dst, owner, projectName, roleName)
	}

	if srcProject == "" {
		return nil, fmt.Errorf("%w: %q requires the sender to be in a project", liberrors.ErrAddressNotFound, dst)
	}
	meta, err := projects.GetProjectMetadataByID(srcProject)
	if err != nil {
		if errors.Is(err, liberrors.ErrProjectNotFound) {
			return nil, fmt.Errorf("%w: %q", liberrors.ErrAddressNotFound, dst)
		}
		return nil, err
	}

	switch dst {
	case AddressEveryone:
		return addressOf(meta, meta.RoleIDs()), nil
	case AddressOthers:
		var roleIDs []domain.RoleID
		for _, roleID := range meta.RoleIDs() {
			if roleID != srcRole {
				roleIDs = append(roleIDs, roleID)
			}
		}
		return addressOf(meta, roleIDs), nil
	default:
		// A bare name matches roles by display name within the sender's
		// project. No match is an empty delivery set, not an error.
		var roleIDs []domain.RoleID
		for roleID, role := range meta.Roles {
			if role.Name == dst {
				roleIDs = append(roleIDs, roleID)
			}
		}
		return addressOf(meta, roleIDs), nil
	}
}

func resolveQualified(projects contract.ProjectStore, dst, owner, projectName, roleName string) (*Address, error) {
	meta, err := projects.GetProjectMetadata(owner, projectName)
	if err != nil {
		if errors.Is(err, liberrors.ErrProjectNotFound) {
			return nil, fmt.Errorf("%w: %q", liberrors.ErrAddressNotFound, dst)
		}
		return nil, err
	}
	if roleName == "" {
		return addressOf(meta, meta.RoleIDs()), nil
	}
	roleID, ok := meta.RoleIDByName(roleName)
	if !ok {
		return nil, fmt.Errorf("%w: no role named %q in %q", liberrors.ErrAddressNotFound, roleName, dst)
	}
	return addressOf(meta, []domain.RoleID{roleID}), nil
}

func addressOf(meta domain.ProjectMetadata, roleIDs []domain.RoleID) *Address {
	sort.Slice(roleIDs, func(i, j int) bool { return roleIDs[i] < roleIDs[j] })
	roleNames := make(map[domain.RoleID]string, len(roleIDs))
	for _, roleID := range roleIDs {
		roleNames[roleID] = meta.Roles[roleID].Name
	}
	return &Address{
		ProjectID:   meta.ID,
		RoleIDs:     roleIDs,
		owner:       meta.Owner,
		projectName: meta.Name,
		roleNames:   roleNames,
	}
}

// Resolve returns the union of live connections across the resolved roles.
func (a *Address) Resolve(topology *Topology) []*Client {
	seen := make(map[string]struct{})
	var clients []*Client
	for _, roleID := range a.RoleIDs {
		for _, client := range topology.ConnectionsAt(a.ProjectID, roleID) {
			if _, ok := seen[client.ID()]; ok {
				continue
			}
			seen[client.ID()] = struct{}{}
			clients = append(clients, client)
		}
	}
	return clients
}

// PublicIDs returns the fully qualified role@project@owner strings for the
// resolved roles, suitable for message receipts.
func (a *Address) PublicIDs() []string {
	return lo.Map(a.RoleIDs, func(roleID domain.RoleID, _ int) string {
		return fmt.Sprintf("%s@%s@%s", a.roleNames[roleID], a.projectName, a.owner)
	})
}
