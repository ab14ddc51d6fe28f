package network

import (
	"collab-lab/domain"
	liberrors "collab-lab/errors"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClient_DispatchSurvivesMalformedAndUnknownFrames(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	client := h.connect(t)

	client.dispatch([]byte(`{not json`))
	client.dispatch([]byte(`{"type":"no-such-message"}`))
	client.dispatch([]byte(`{"type":"set-state"}`))

	req.Equal(StateConnecting, client.State())
	req.Equal(1, h.services.Topology.ClientCount())
}

func TestClient_DispatchRecoversHandlerPanics(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	client := h.connect(t)

	messageHandlers["explode"] = func(*Client, []byte) error { panic("boom") }
	defer delete(messageHandlers, "explode")

	req.NotPanics(func() {
		client.dispatch([]byte(`{"type":"explode"}`))
	})
	req.Equal(1, h.services.Topology.ClientCount())
}

func TestClient_ClaimsChosenIDOnce(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	client := h.connect(t)

	// Given the client announces its own identifier
	err := client.handleSetClientID(frame(t, map[string]any{"type": msgSetClientID, "clientId": "_netsblox_1"}))
	req.NoError(err)
	req.Equal("_netsblox_1", client.ID())

	// Then the registry follows the rename
	found, ok := h.services.Topology.WithID("_netsblox_1")
	req.True(ok)
	req.Same(client, found)
	req.Len(sentOfType(t, client, msgConnected), 1)

	// And a second, different claim is refused
	err = client.handleSetClientID(frame(t, map[string]any{"type": msgSetClientID, "clientId": "other"}))
	req.ErrorIs(err, liberrors.ErrClientIDConflict)
}

func TestClient_ConflictingIDClaimLeavesOwnerRegistered(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "player")

	owner := h.connect(t)
	req.NoError(owner.handleSetClientID(frame(t, map[string]any{"type": msgSetClientID, "clientId": "shared-id"})))
	h.join(t, owner, meta.ID, roleIDFor("player"), "alice")

	// Given a second connection claiming the identifier already in use
	intruder := h.connect(t)
	h.join(t, intruder, meta.ID, roleIDFor("player"), "bob")
	err := intruder.handleSetClientID(frame(t, map[string]any{"type": msgSetClientID, "clientId": "shared-id"}))
	req.ErrorIs(err, liberrors.ErrClientIDConflict)

	// Then the refused connection keeps its generated id
	req.NotEqual("shared-id", intruder.ID())

	// When the refused connection goes away
	intruder.close(nil)

	// Then the legitimate owner keeps its registration and room slot
	found, ok := h.services.Topology.WithID("shared-id")
	req.True(ok)
	req.Same(owner, found)
	occupants := h.services.Topology.ConnectionsAt(meta.ID, roleIDFor("player"))
	req.Len(occupants, 1)
	req.Same(owner, occupants[0])
}

// silentConn never produces inbound frames; reads unblock only on Close.
type silentConn struct {
	once   sync.Once
	closed chan struct{}
}

func newSilentConn() *silentConn { return &silentConn{closed: make(chan struct{})} }

func (s *silentConn) ReadMessage() (int, []byte, error) {
	<-s.closed
	return 0, nil, fmt.Errorf("connection closed")
}

func (s *silentConn) WriteMessage(int, []byte) error { return nil }

func (s *silentConn) SetWriteDeadline(time.Time) error { return nil }

func (s *silentConn) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func TestClient_HeartbeatPingsThenDropsSilentConnection(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	h.services.HeartbeatInterval = 20 * time.Millisecond
	meta := h.createProject(t, "alice", "scratchpad", true, "player")

	client := NewClient(h.services, newSilentConn())
	h.services.Topology.Register(client)
	h.join(t, client, meta.ID, roleIDFor("player"), "alice")
	takeSent(t, client)

	go client.heartbeatLoop()

	// Then a quiet connection gets pinged after one interval of silence
	waitForType(t, client, msgPing)

	// And silence past twice the interval tears the connection down
	req.Eventually(func() bool {
		_, ok := h.services.Topology.WithID(client.ID())
		return !ok && client.State() == StateClosed
	}, 2*time.Second, 10*time.Millisecond)

	// The vacated transient project is stamped for deferred deletion
	stored, err := h.projects.GetProjectMetadataByID(meta.ID)
	req.NoError(err)
	req.NotNil(stored.DeleteAt)
}

func TestClient_ProjectContentRoundTrip(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	meta := h.createProject(t, "alice", "maze", false, "player")
	client := h.connect(t)
	h.join(t, client, meta.ID, roleIDFor("player"), "alice")
	takeSent(t, client)

	type outcome struct {
		content domain.RoleContent
		err     error
	}
	results := make(chan outcome, 1)
	go func() {
		content, err := client.RequestProjectContent(context.Background(), time.Second)
		results <- outcome{content: content, err: err}
	}()

	// When the client answers the request it received
	request := waitForType(t, client, msgProjectRequest)
	err := client.handleProjectResponse(frame(t, map[string]any{
		"type": msgProjectResponse,
		"id":   request["id"],
		"project": map[string]any{
			"name":       "player",
			"sourceCode": "<project/>",
			"actionId":   9,
		},
	}))
	req.NoError(err)

	result := <-results
	req.NoError(result.err)
	req.Equal("<project/>", result.content.SourceCode)
	req.EqualValues(9, result.content.ActionID)
}

func TestClient_ProjectContentRequestTimesOut(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	client := h.connect(t)

	_, err := client.RequestProjectContent(context.Background(), 20*time.Millisecond)
	req.ErrorIs(err, liberrors.ErrRequestTimeout)

	// A reply landing after the deadline is dropped, not an error
	request := waitForType(t, client, msgProjectRequest)
	err = client.handleProjectResponse(frame(t, map[string]any{
		"type":    msgProjectResponse,
		"id":      request["id"],
		"project": map[string]any{"name": "late"},
	}))
	req.NoError(err)
}

func TestClient_ProjectContentRejectedAfterMovingRooms(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	maze := h.createProject(t, "alice", "maze", false, "player")
	pacman := h.createProject(t, "alice", "pacman", false, "player")
	client := h.connect(t)
	h.join(t, client, maze.ID, roleIDFor("player"), "alice")
	takeSent(t, client)

	results := make(chan error, 1)
	go func() {
		_, err := client.RequestProjectContent(context.Background(), time.Second)
		results <- err
	}()
	request := waitForType(t, client, msgProjectRequest)

	// When the client moves before answering
	h.join(t, client, pacman.ID, roleIDFor("player"), "alice")
	err := client.handleProjectResponse(frame(t, map[string]any{
		"type":    msgProjectResponse,
		"id":      request["id"],
		"project": map[string]any{"name": "player"},
	}))
	req.NoError(err)

	req.ErrorIs(<-results, liberrors.ErrClientMoved)
}

func TestClient_CloseRejectsPendingRequestsExactlyOnce(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	client := h.connect(t)

	results := make(chan error, 1)
	go func() {
		_, err := client.RequestProjectContent(context.Background(), time.Minute)
		results <- err
	}()
	waitForType(t, client, msgProjectRequest)

	client.close(nil)
	client.close(nil)

	req.ErrorIs(<-results, liberrors.ErrConnectionClosed)
	req.Equal(StateClosed, client.State())
	req.Zero(h.services.Topology.ClientCount())
}

func TestClient_LoginAdoptsTokenIdentity(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	client := h.connect(t)

	token, err := h.services.Tokens.GenerateToken("alice")
	req.NoError(err)

	req.NoError(client.handleLogin(frame(t, map[string]any{"type": msgLogin, "token": token})))
	username, ok := client.AuthenticatedUsername()
	req.True(ok)
	req.Equal("alice", username)

	req.Error(client.handleLogin(frame(t, map[string]any{"type": msgLogin, "token": "garbage"})))
}
