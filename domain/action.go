package domain

import (
	"encoding/json"
	"time"
)

// Action is a single edit operation submitted against a role.
// IsUserAction marks annotation-only traffic that is logged but does not
// advance the role's admitted-id baseline.
type Action struct {
	ID           int64           `json:"id"`
	Type         string          `json:"type,omitempty"`
	IsUserAction bool            `json:"isUserAction,omitempty"`
	Args         json.RawMessage `json:"args,omitempty"`
}

// ActionRecord is the persisted form of an admitted (or logged) action.
type ActionRecord struct {
	ProjectID ProjectID `json:"projectId"`
	RoleID    RoleID    `json:"roleId"`
	Action    Action    `json:"action"`
	Time      time.Time `json:"time"`

	// Cleared marks records compacted away after their role was vacated.
	// They stay on disk until the log expires but are invisible to catch-up.
	Cleared bool `json:"cleared,omitempty"`
}
