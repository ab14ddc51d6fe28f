package network

import (
	"collab-lab/domain"
	liberrors "collab-lab/errors"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// State is the connection lifecycle phase.
type State int

const (
	StateConnecting State = iota
	StateActive
	StateClosing
	StateClosed
)

const writeWait = 10 * time.Second

// transport is the slice of a websocket connection the client needs. Tests
// substitute an in-memory fake.
type transport interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// projectRequest is one outstanding "give me your current document" round
// trip. The room the client occupied when the request went out is captured so
// a reply from a client that moved rooms in the meantime can be rejected.
type projectRequest struct {
	id        string
	projectID domain.ProjectID
	roleID    domain.RoleID
	result    chan projectRequestResult
}

type projectRequestResult struct {
	content domain.RoleContent
	err     error
}

// Client is the per-socket protocol state machine. Inbound frames for one
// connection are dispatched strictly sequentially from its read loop; sends
// go through a buffered channel drained by a single writer goroutine.
type Client struct {
	log      *slog.Logger
	services *Services
	conn     transport

	mu           sync.Mutex
	id           string
	idClaimed    bool
	username     string
	loggedIn     bool
	projectID    domain.ProjectID
	roleID       domain.RoleID
	state        State
	lastActivity time.Time
	pending      map[string]*projectRequest

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(services *Services, conn transport) *Client {
	id := uuid.NewString()
	return &Client{
		log:          services.Log,
		services:     services,
		conn:         conn,
		id:           id,
		username:     id,
		state:        StateConnecting,
		lastActivity: time.Now(),
		pending:      make(map[string]*projectRequest),
		send:         make(chan []byte, services.SendBufferSize),
		done:         make(chan struct{}),
	}
}

// Serve runs the connection until the transport fails, liveness times out, or
// the client logs out. It blocks; the caller owns the goroutine.
func (c *Client) Serve(ctx context.Context) {
	c.mu.Lock()
	c.state = StateActive
	c.mu.Unlock()

	go c.writeLoop()
	go c.heartbeatLoop()
	go func() {
		select {
		case <-ctx.Done():
			c.close(ctx.Err())
		case <-c.done:
		}
	}()

	c.Send(reportVersionMessage{Type: msgReportVersion, Body: c.services.Version})
	c.readLoop()
}

func (c *Client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.close(err)
			return
		}
		c.touch()
		c.dispatch(data)
	}
}

// dispatch parses the type tag and runs the matching handler. A handler
// panic or error is logged and the connection stays up; only transport
// failures tear a connection down.
func (c *Client) dispatch(data []byte) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		c.log.Error(fmt.Sprintf("failed to parse message from %s: %v (%s)", c.describe(), err, data))
		return
	}
	handler, ok := messageHandlers[head.Type]
	if !ok {
		c.log.Warn(fmt.Sprintf("message %q from %s not recognized", head.Type, c.describe()))
		return
	}
	if head.Type != msgPong {
		c.log.Debug(fmt.Sprintf("received %s message from %s", head.Type, c.describe()))
	}

	defer func() {
		if r := recover(); r != nil {
			c.log.Error(fmt.Sprintf("%s handler panicked for %s: %v", head.Type, c.describe(), r))
		}
	}()
	if err := handler(c, data); err != nil {
		c.log.Error(fmt.Sprintf("%s handler failed for %s: %v", head.Type, c.describe(), err))
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close(err)
				return
			}
		case <-c.done:
			return
		}
	}
}

// heartbeatLoop pings a connection that went quiet for the heartbeat interval
// and terminates one that stayed silent past twice the interval.
func (c *Client) heartbeatLoop() {
	ticker := time.NewTicker(c.services.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			silence := time.Since(c.LastActivity())
			switch {
			case silence > 2*c.services.HeartbeatInterval:
				c.close(liberrors.ErrSocketUnresponsive)
				return
			case silence >= c.services.HeartbeatInterval:
				c.Send(pingMessage{Type: msgPing})
			}
		case <-c.done:
			return
		}
	}
}

// Send queues an outbound message. A connection whose buffer is full is
// considered dead and closed rather than allowed to stall the sender.
func (c *Client) Send(message any) {
	data, err := json.Marshal(message)
	if err != nil {
		c.log.Error(fmt.Sprintf("could not marshal outbound message for %s: %v", c.describe(), err))
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	default:
		c.log.Warn(fmt.Sprintf("send buffer full for %s, closing slow connection", c.describe()))
		go c.close(liberrors.ErrSendBufferFull)
	}
}

// Evict notifies the client that it lost its place in the room.
func (c *Client) Evict() {
	c.Send(evictedMessage{Type: msgEvicted})
}

// close runs the teardown exactly once, whichever close path fired first:
// transport error, liveness timeout, explicit logout, or server shutdown.
func (c *Client) close(cause error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.state = StateClosing
		pending := c.pending
		c.pending = make(map[string]*projectRequest)
		c.mu.Unlock()

		close(c.done)
		for _, request := range pending {
			request.result <- projectRequestResult{err: liberrors.ErrConnectionClosed}
		}
		_ = c.conn.Close()
		c.services.Topology.Deregister(c)

		c.mu.Lock()
		c.state = StateClosed
		c.mu.Unlock()

		if cause != nil && !websocket.IsCloseError(cause, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
			!errors.Is(cause, context.Canceled) {
			c.log.Debug(fmt.Sprintf("closed socket for %s: %v", c.describe(), cause))
		} else {
			c.log.Debug(fmt.Sprintf("closed socket for %s", c.describe()))
		}
	})
}

// RequestProjectContent asks the live client for its current document and
// waits for the reply, the timeout, connection close, or context cancel.
// A late reply after any of those is dropped as unsolicited.
func (c *Client) RequestProjectContent(ctx context.Context, timeout time.Duration) (domain.RoleContent, error) {
	request := &projectRequest{
		id:     uuid.NewString(),
		result: make(chan projectRequestResult, 1),
	}
	c.mu.Lock()
	request.projectID = c.projectID
	request.roleID = c.roleID
	c.pending[request.id] = request
	c.mu.Unlock()

	c.Send(projectRequestMessage{Type: msgProjectRequest, ID: request.id})

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case result := <-request.result:
		return result.content, result.err
	case <-timer.C:
		c.dropPending(request.id)
		return domain.RoleContent{}, liberrors.ErrRequestTimeout
	case <-c.done:
		c.dropPending(request.id)
		return domain.RoleContent{}, liberrors.ErrConnectionClosed
	case <-ctx.Done():
		c.dropPending(request.id)
		return domain.RoleContent{}, ctx.Err()
	}
}

// completePending resolves one outstanding document request. The reply is
// rejected when the client moved rooms since the request went out.
func (c *Client) completePending(id string, content domain.RoleContent) {
	c.mu.Lock()
	request, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	projectID, roleID := c.projectID, c.roleID
	c.mu.Unlock()

	if !ok {
		c.log.Error(fmt.Sprintf("unsolicited or expired project response %s from %s", id, c.describe()))
		return
	}
	if request.projectID != projectID || request.roleID != roleID {
		request.result <- projectRequestResult{err: liberrors.ErrClientMoved}
		return
	}
	request.result <- projectRequestResult{content: content}
}

func (c *Client) dropPending(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) touch() {
	c.mu.Lock()
	c.lastActivity = time.Now()
	c.mu.Unlock()
}

func (c *Client) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

func (c *Client) Username() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.username
}

// AuthenticatedUsername returns the display name only for logged-in clients,
// keeping generated identifiers out of occupancy snapshots.
func (c *Client) AuthenticatedUsername() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loggedIn {
		return "", false
	}
	return c.username, true
}

// Room returns the bound (project, role), false when the client never joined.
func (c *Client) Room() (domain.ProjectID, domain.RoleID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectID, c.roleID, c.projectID != ""
}

func (c *Client) IsAt(id domain.ProjectID, roleID domain.RoleID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectID == id && c.roleID == roleID
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActivity
}

// setState mutates the bound room. The topology owns the call so the state
// change and the occupancy index stay in step.
func (c *Client) setState(id domain.ProjectID, roleID domain.RoleID, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projectID = id
	if roleID != "" {
		c.roleID = roleID
	}
	if username != "" {
		c.username = username
		c.loggedIn = username != c.id
	} else {
		c.username = c.id
		c.loggedIn = false
	}
}

func (c *Client) setUsername(username string, loggedIn bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if username == "" {
		username = c.id
	}
	c.username = username
	c.loggedIn = loggedIn
}

// claimID adopts a client-chosen identifier. Allowed once per connection.
// Only the topology calls it, under its own lock, so the claim and the
// registry move commit together.
func (c *Client) claimID(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idClaimed && c.id != id {
		return fmt.Errorf("%w: already connected as %s", liberrors.ErrClientIDConflict, c.id)
	}
	if c.username == c.id {
		c.username = id
	}
	c.id = id
	c.idClaimed = true
	return nil
}

func (c *Client) describe() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.username == c.id {
		return c.id
	}
	return fmt.Sprintf("%s (%s)", c.username, c.id)
}
