package domain

// Occupant describes one connection currently bound to a role.
// Username is nil for anonymous connections so that auto-generated client
// identifiers never leak into occupancy lists.
type Occupant struct {
	ClientID string  `json:"uuid"`
	Username *string `json:"username"`
}

type RoleState struct {
	Name      string     `json:"name"`
	Occupants []Occupant `json:"occupants"`
}

// RoomSnapshot is the full occupancy picture of one open project,
// broadcast to its members whenever the topology changes.
type RoomSnapshot struct {
	Version       int64                `json:"version"`
	ID            ProjectID            `json:"id"`
	Owner         string               `json:"owner"`
	Name          string               `json:"name"`
	Saved         bool                 `json:"saved"`
	Collaborators []string             `json:"collaborators"`
	Roles         map[RoleID]RoleState `json:"roles"`
}
