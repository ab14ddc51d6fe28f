package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageTrace is the stored record of one addressed message, kept only when
// the source project has message recording enabled.
type MessageTrace struct {
	ID        uuid.UUID       `json:"id"`
	ProjectID ProjectID       `json:"projectId"`
	Sender    string          `json:"sender"`
	DstIDs    []string        `json:"dstIds"`
	Recipients []string       `json:"recipients"`
	Content   json.RawMessage `json:"content"`
	At        time.Time       `json:"at"`
}
