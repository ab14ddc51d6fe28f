package network

import (
	"collab-lab/domain"
	liberrors "collab-lab/errors"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type handlerFunc func(c *Client, raw []byte) error

// messageHandlers is the static dispatch table, built once at package init.
// Unknown types are logged and dropped by dispatch, not treated as errors.
var messageHandlers = map[string]handlerFunc{
	msgSetClientID:                (*Client).handleSetClientID,
	msgLogin:                      (*Client).handleLogin,
	msgLogout:                     (*Client).handleLogout,
	msgSetState:                   (*Client).handleSetState,
	msgUserAction:                 (*Client).handleUserAction,
	msgMessage:                    (*Client).handleMessage,
	msgProjectResponse:            (*Client).handleProjectResponse,
	msgRequestRoomState:           (*Client).handleRequestRoomState,
	msgExportRoom:                 (*Client).handleExportRoom,
	msgElevatePermissions:         (*Client).handleElevatePermissions,
	msgPermissionElevationRequest: (*Client).handlePermissionElevationRequest,
	msgShareMsgType:               (*Client).handleShareMsgType,
	msgRequestActions:             (*Client).handleRequestActions,
	msgPong:                       (*Client).handlePong,
}

func (c *Client) handlePong(_ []byte) error {
	return nil
}

// handleSetClientID adopts the client-chosen identifier. The registry entry
// moves to the new id; claiming a second, different id is an error.
func (c *Client) handleSetClientID(raw []byte) error {
	var frame setClientIDFrame
	if err := decodeFrame(raw, &frame); err != nil {
		return err
	}
	if err := c.services.Topology.RenameClient(c, frame.ClientID); err != nil {
		return err
	}
	c.Send(connectedMessage{Type: msgConnected})
	return nil
}

func (c *Client) handleLogin(raw []byte) error {
	var frame loginFrame
	if err := decodeFrame(raw, &frame); err != nil {
		return err
	}
	username, err := c.services.Tokens.ValidateToken(frame.Token)
	if err != nil {
		return err
	}
	c.setUsername(username, true)
	c.log.Info(fmt.Sprintf("client %s logged in as %s", c.ID(), username))
	if projectID, _, ok := c.Room(); ok {
		if _, err := c.services.Topology.BroadcastRoomUpdate(projectID, true); err != nil {
			return err
		}
	}
	return nil
}

// handleLogout reverts the identity and tears the connection down, which
// vacates the client's role through the registry.
func (c *Client) handleLogout(_ []byte) error {
	c.setUsername("", false)
	c.close(nil)
	return nil
}

func (c *Client) handleSetState(raw []byte) error {
	var frame setStateFrame
	if err := decodeFrame(raw, &frame); err != nil {
		return err
	}
	_, err := c.services.Topology.SetClientState(
		c.ID(),
		domain.ProjectID(frame.ProjectID),
		domain.RoleID(frame.RoleID),
		frame.Username,
	)
	return err
}

// handleUserAction submits one edit to the sequencer. Admitted actions go to
// the other occupants of the same role; rejections notify the submitter only.
func (c *Client) handleUserAction(raw []byte) error {
	var frame userActionFrame
	if err := decodeFrame(raw, &frame); err != nil {
		return err
	}
	if frame.Action.ID == 0 {
		return fmt.Errorf("action is missing an id")
	}
	projectID, roleID, ok := c.Room()
	if !ok {
		c.log.Error(fmt.Sprintf("attempted to send user action without a project (%s)", c.describe()))
		return nil
	}

	decision, err := c.services.Sequencer.Submit(c, frame.Action)
	if err != nil {
		return err
	}
	if !decision.Admitted {
		c.log.Info(fmt.Sprintf("rejecting action with id %d (latest is %d) from %s", frame.Action.ID, decision.LatestID, c.describe()))
		c.Send(actionRejectedMessage{
			Type:     msgActionRejected,
			Message:  liberrors.ErrStaleAction.Error(),
			ActionID: decision.LatestID,
		})
		return nil
	}

	message := forwardable(raw, map[string]any{
		"projectId": projectID,
		"roleId":    roleID,
	})
	for _, peer := range c.services.Topology.ConnectionsAt(projectID, roleID) {
		if peer != c {
			peer.Send(message)
		}
	}
	return nil
}

// handleMessage delivers an addressed message to every connection its dstId
// expressions resolve to, then persists a trace when the sender's project has
// message recording enabled. An unresolvable address comes back to the sender
// as a request-error notice; resolving to nobody is a silent success.
func (c *Client) handleMessage(raw []byte) error {
	var frame messageFrame
	if err := decodeFrame(raw, &frame); err != nil {
		return err
	}
	dstIDs, err := destinationList(frame.DstID)
	if err != nil {
		return err
	}
	srcProject, srcRole, _ := c.Room()

	var recipients []string
	for _, dst := range dstIDs {
		address, err := ResolveAddress(c.services.Projects, dst, srcProject, srcRole)
		if err != nil {
			if errors.Is(err, liberrors.ErrAddressNotFound) {
				c.Send(requestErrorMessage{Type: msgRequestError, Request: msgMessage, Message: err.Error()})
				continue
			}
			return err
		}
		message := forwardable(raw, map[string]any{"dstId": AddressEveryone})
		for _, target := range address.Resolve(c.services.Topology) {
			target.Send(message)
		}
		recipients = append(recipients, address.PublicIDs()...)
	}

	if srcProject == "" {
		return nil
	}
	meta, err := c.services.Projects.GetProjectMetadataByID(srcProject)
	if err != nil || !meta.RecordMessages {
		return nil
	}
	return c.services.Messages.StoreTrace(domain.MessageTrace{
		ID:         uuid.New(),
		ProjectID:  srcProject,
		Sender:     c.Username(),
		DstIDs:     dstIDs,
		Recipients: recipients,
		Content:    frame.Content,
		At:         time.Now().UTC(),
	})
}

func (c *Client) handleProjectResponse(raw []byte) error {
	var frame projectResponseFrame
	if err := decodeFrame(raw, &frame); err != nil {
		return err
	}
	c.completePending(frame.ID, domain.RoleContent{
		Name:       frame.Project.Name,
		SourceCode: frame.Project.SourceCode,
		Media:      frame.Project.Media,
		ActionID:   frame.Project.ActionID,
		UpdatedAt:  time.Now().UTC(),
	})
	return nil
}

func (c *Client) handleRequestRoomState(_ []byte) error {
	projectID, _, ok := c.Room()
	if !ok {
		return nil
	}
	snapshot, err := c.services.Topology.RoomSnapshot(projectID, false)
	if err != nil {
		return err
	}
	c.Send(roomRolesMessage{Type: msgRoomRoles, RoomSnapshot: snapshot})
	return nil
}

// handleExportRoom gathers the whole project and replies to the requester
// only. The gather runs off the read loop: it may request live content from
// this very connection, whose reply arrives through that loop.
func (c *Client) handleExportRoom(_ []byte) error {
	projectID, _, ok := c.Room()
	if !ok {
		return nil
	}
	room := NewRoom(c.services, projectID)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.services.RequestTimeout)
		defer cancel()
		export, err := room.Export(ctx)
		if err != nil {
			c.log.Error(fmt.Sprintf("could not export %s for %s: %v", projectID, c.describe(), err))
			c.Send(requestErrorMessage{Type: msgRequestError, Request: msgExportRoom, Message: err.Error()})
			return
		}
		c.Send(exportRoomMessage{Type: msgExportRoom, Content: export})
	}()
	return nil
}

// handleElevatePermissions grants collaborator status. Owner only.
func (c *Client) handleElevatePermissions(raw []byte) error {
	var frame elevatePermissionsFrame
	if err := decodeFrame(raw, &frame); err != nil {
		return err
	}
	projectID := domain.ProjectID(frame.ProjectID)
	meta, err := c.services.Projects.GetProjectMetadataByID(projectID)
	if err != nil {
		return err
	}
	if meta.Owner != c.Username() {
		return fmt.Errorf("%w: %s may not grant access to %s", liberrors.ErrNotOwner, c.Username(), projectID)
	}
	if err := c.services.Projects.AddCollaborator(projectID, frame.Username); err != nil {
		return err
	}
	_, err = c.services.Topology.BroadcastRoomUpdate(projectID, true)
	return err
}

// handlePermissionElevationRequest forwards the ask to the live connections
// of the project's owner.
func (c *Client) handlePermissionElevationRequest(raw []byte) error {
	var frame permissionElevationRequestFrame
	if err := decodeFrame(raw, &frame); err != nil {
		return err
	}
	projectID := domain.ProjectID(frame.ProjectID)
	meta, err := c.services.Projects.GetProjectMetadataByID(projectID)
	if err != nil {
		return err
	}
	message := forwardable(raw, map[string]any{"username": c.Username()})
	for _, peer := range c.services.Topology.ConnectionsInProject(projectID) {
		if peer.Username() == meta.Owner {
			peer.Send(message)
		}
	}
	return nil
}

// handleShareMsgType rebroadcasts a message-type definition to every
// connection in the caller's project, the sharer included.
func (c *Client) handleShareMsgType(raw []byte) error {
	projectID, _, ok := c.Room()
	if !ok {
		return nil
	}
	message := forwardable(raw, nil)
	for _, peer := range c.services.Topology.ConnectionsInProject(projectID) {
		peer.Send(message)
	}
	return nil
}

// handleRequestActions streams the log suffix after the given id, then a
// completion marker. When catch-up is impossible the client is told to reload
// unless it asked silently.
func (c *Client) handleRequestActions(raw []byte) error {
	var frame requestActionsFrame
	if err := decodeFrame(raw, &frame); err != nil {
		return err
	}
	projectID, roleID, ok := c.Room()
	if !ok {
		return nil
	}
	if frame.ProjectID != "" {
		projectID = domain.ProjectID(frame.ProjectID)
	}
	if frame.RoleID != "" {
		roleID = domain.RoleID(frame.RoleID)
	}
	silent := frame.Silent == nil || *frame.Silent

	records, err := c.services.Sequencer.ActionsAfter(projectID, roleID, frame.ActionID)
	if err != nil {
		c.log.Error(fmt.Sprintf("could not retrieve actions after %d for %s: %v", frame.ActionID, c.describe(), err))
		if !silent {
			c.Send(reloadProjectMessage{Type: msgReloadProject, Message: "project is out of sync", Err: err.Error()})
		}
		c.Send(requestActionsCompleteMessage{Type: msgRequestActionsComplete})
		return nil
	}
	for _, record := range records {
		c.Send(actionReplayMessage{
			Type:      msgUserAction,
			ProjectID: record.ProjectID,
			RoleID:    record.RoleID,
			Action:    record.Action,
		})
	}
	c.Send(requestActionsCompleteMessage{Type: msgRequestActionsComplete})
	return nil
}

// destinationList accepts a single destination string or a list of them.
func destinationList(raw json.RawMessage) ([]string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, fmt.Errorf("dstId must be a string or a list of strings: %w", err)
	}
	return many, nil
}
