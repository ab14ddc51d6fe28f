// Package network is the realtime core: the per-connection protocol state
// machine, the process-wide topology registry, the action sequencer, and the
// destination address resolver.
package network

import (
	"collab-lab/domain"
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// Inbound message types.
const (
	msgSetClientID                = "set-uuid"
	msgLogin                      = "login"
	msgLogout                     = "logout"
	msgSetState                   = "set-state"
	msgUserAction                 = "user-action"
	msgMessage                    = "message"
	msgProjectResponse            = "project-response"
	msgRequestRoomState           = "request-room-state"
	msgExportRoom                 = "export-room"
	msgElevatePermissions         = "elevate-permissions"
	msgPermissionElevationRequest = "permission-elevation-request"
	msgShareMsgType               = "share-msg-type"
	msgRequestActions             = "request-actions"
	msgPong                       = "pong"
)

// Outbound message types.
const (
	msgReportVersion          = "report-version"
	msgPing                   = "ping"
	msgConnected              = "connected"
	msgRoomRoles              = "room-roles"
	msgActionRejected         = "action-rejected"
	msgEvicted                = "evicted"
	msgProjectRequest         = "project-request"
	msgRequestActionsComplete = "request-actions-complete"
	msgReloadProject          = "reload-project"
	msgYourTurn               = "your-turn"
	msgRequestError           = "request-error"
)

// Reserved destination tokens resolved within the sender's own project.
const (
	AddressEveryone = "everyone in room"
	AddressOthers   = "others in room"
)

var validate = validator.New()

// decodeFrame unmarshals an inbound frame into its typed form and checks the
// fields the handler cannot work without.
func decodeFrame(raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

type setClientIDFrame struct {
	ClientID string `json:"clientId" validate:"required"`
}

type loginFrame struct {
	Token string `json:"token" validate:"required"`
}

type setStateFrame struct {
	ProjectID string `json:"projectId" validate:"required"`
	RoleID    string `json:"roleId" validate:"required"`
	Username  string `json:"username"`
}

type userActionFrame struct {
	Action domain.Action `json:"action"`
}

type messageFrame struct {
	DstID   json.RawMessage `json:"dstId" validate:"required"`
	Content json.RawMessage `json:"content"`
}

type projectResponseFrame struct {
	ID      string              `json:"id" validate:"required"`
	Project *roleContentPayload `json:"project" validate:"required"`
}

type roleContentPayload struct {
	Name       string `json:"name"`
	SourceCode string `json:"sourceCode"`
	Media      string `json:"media"`
	ActionID   int64  `json:"actionId"`
}

type elevatePermissionsFrame struct {
	Username  string `json:"username" validate:"required"`
	ProjectID string `json:"projectId" validate:"required"`
}

type permissionElevationRequestFrame struct {
	ProjectID string `json:"projectId" validate:"required"`
}

type requestActionsFrame struct {
	ProjectID string `json:"projectId"`
	RoleID    string `json:"roleId"`
	ActionID  int64  `json:"actionId"`
	Silent    *bool  `json:"silent"`
}

type reportVersionMessage struct {
	Type string `json:"type"`
	Body string `json:"body"`
}

type pingMessage struct {
	Type string `json:"type"`
}

type connectedMessage struct {
	Type string `json:"type"`
}

type evictedMessage struct {
	Type string `json:"type"`
}

type roomRolesMessage struct {
	Type string `json:"type"`
	domain.RoomSnapshot
}

type actionRejectedMessage struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	ActionID int64  `json:"actionId"`
}

type projectRequestMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type requestActionsCompleteMessage struct {
	Type string `json:"type"`
}

type reloadProjectMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Err     string `json:"err"`
}

type yourTurnMessage struct {
	Type string `json:"type"`
}

type requestErrorMessage struct {
	Type    string `json:"type"`
	Request string `json:"request"`
	Message string `json:"message"`
}

type exportRoomMessage struct {
	Type    string               `json:"type"`
	Content domain.ProjectExport `json:"content"`
}

type actionReplayMessage struct {
	Type      string           `json:"type"`
	ProjectID domain.ProjectID `json:"projectId"`
	RoleID    domain.RoleID    `json:"roleId"`
	Action    domain.Action    `json:"action"`
}

// forwardable reparses a raw inbound frame into a generic map so it can be
// forwarded to other connections with a few fields rewritten, preserving any
// payload fields this server does not model.
func forwardable(raw []byte, overrides map[string]any) map[string]any {
	msg := make(map[string]any)
	if err := json.Unmarshal(raw, &msg); err != nil {
		return overrides
	}
	for k, v := range overrides {
		msg[k] = v
	}
	return msg
}
