// Package domain contains core concepts of the collaboration system.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"time"
)

type ProjectID string

// RoleID identifies an independently editable sub-document of a project.
// It is a stable opaque identifier, distinct from the mutable display name.
type RoleID string

type RoleMetadata struct {
	Name           string    `json:"name"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
	LatestActionID int64     `json:"latestActionId"`
}

type ProjectMetadata struct {
	ID             ProjectID               `json:"id"`
	Owner          string                  `json:"owner"`
	Name           string                  `json:"name"`
	Collaborators  []string                `json:"collaborators"`
	Roles          map[RoleID]RoleMetadata `json:"roles"`
	Transient      bool                    `json:"transient"`
	Public         bool                    `json:"public"`
	RecordMessages bool                    `json:"recordMessages"`
	OriginTime     time.Time               `json:"originTime"`

	// DeleteAt is set when the last occupant of a transient project leaves.
	// Actual removal is deferred to the sweeper worker.
	DeleteAt *time.Time `json:"deleteAt,omitempty"`
}

// RoleContent is the persisted document of a single role.
type RoleContent struct {
	Name       string    `json:"name"`
	SourceCode string    `json:"sourceCode"`
	Media      string    `json:"media"`
	ActionID   int64     `json:"actionId"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// HasRoleNamed reports whether any role carries the given display name.
// Display names are only guaranteed unique among the roles of one project.
func (m ProjectMetadata) HasRoleNamed(name string) bool {
	for _, role := range m.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}

// RoleIDByName returns the id of the role with the given display name.
func (m ProjectMetadata) RoleIDByName(name string) (RoleID, bool) {
	for id, role := range m.Roles {
		if role.Name == name {
			return id, true
		}
	}
	return "", false
}

func (m ProjectMetadata) RoleIDs() []RoleID {
	ids := make([]RoleID, 0, len(m.Roles))
	for id := range m.Roles {
		ids = append(ids, id)
	}
	return ids
}

func (m ProjectMetadata) IsCollaborator(username string) bool {
	for _, c := range m.Collaborators {
		if c == username {
			return true
		}
	}
	return false
}
