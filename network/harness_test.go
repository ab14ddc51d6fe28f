package network

import (
	"collab-lab/auth"
	"collab-lab/domain"
	"collab-lab/repositories"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// setupTestDB initializes a temporary Badger instance for testing
func setupTestDB(t *testing.T) *badger.DB {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type harness struct {
	services *Services
	projects *repositories.ProjectRepository
	actions  *repositories.ActionRepository
	messages *repositories.MessageRepository
}

func newHarness(t *testing.T) *harness {
	db := setupTestDB(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	projects := repositories.NewProjectRepository(db, log)
	actions := repositories.NewActionRepository(db, log, 0)
	messages := repositories.NewMessageRepository(db, log, nil)
	sequencer := NewSequencer(log, actions, projects)
	topology := NewTopology(log, projects, sequencer)

	services := &Services{
		Log:               log,
		Topology:          topology,
		Sequencer:         sequencer,
		Projects:          projects,
		Actions:           actions,
		Messages:          messages,
		Tokens:            auth.NewTokenService("test-secret", time.Hour),
		Version:           "test",
		HeartbeatInterval: time.Minute,
		RequestTimeout:    200 * time.Millisecond,
		SendBufferSize:    64,
	}
	return &harness{services: services, projects: projects, actions: actions, messages: messages}
}

// fakeConn is an in-memory transport. Tests drive handlers directly instead
// of running the read loop, so only the write side matters.
type fakeConn struct {
	mu     sync.Mutex
	closed bool
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	return 0, nil, fmt.Errorf("fake transport has no inbound frames")
}

func (f *fakeConn) WriteMessage(int, []byte) error { return nil }

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (h *harness) connect(t *testing.T) *Client {
	client := NewClient(h.services, &fakeConn{})
	h.services.Topology.Register(client)
	t.Cleanup(func() { client.close(nil) })
	return client
}

func (h *harness) join(t *testing.T, client *Client, id domain.ProjectID, roleID domain.RoleID, username string) {
	_, err := h.services.Topology.SetClientState(client.ID(), id, roleID, username)
	require.NoError(t, err)
}

// createProject persists metadata with one role per given display name. Role
// ids are derived from the names so tests can address them directly.
func (h *harness) createProject(t *testing.T, owner, name string, transient bool, roleNames ...string) domain.ProjectMetadata {
	meta := domain.ProjectMetadata{
		ID:            domain.ProjectID(uuid.NewString()),
		Owner:         owner,
		Name:          name,
		Collaborators: []string{},
		Roles:         make(map[domain.RoleID]domain.RoleMetadata),
		Transient:     transient,
		OriginTime:    time.Now().UTC(),
	}
	for _, roleName := range roleNames {
		meta.Roles[roleIDFor(roleName)] = domain.RoleMetadata{Name: roleName}
	}
	require.NoError(t, h.projects.CreateProject(meta))
	return meta
}

func roleIDFor(roleName string) domain.RoleID {
	return domain.RoleID("role-" + roleName)
}

// takeSent drains everything queued on the client's outbound buffer.
func takeSent(t *testing.T, client *Client) []map[string]any {
	var messages []map[string]any
	for {
		select {
		case data := <-client.send:
			var message map[string]any
			require.NoError(t, json.Unmarshal(data, &message))
			messages = append(messages, message)
		default:
			return messages
		}
	}
}

func sentOfType(t *testing.T, client *Client, messageType string) []map[string]any {
	return ofType(takeSent(t, client), messageType)
}

// ofType filters an already-drained slice, for tests that need to assert on
// several message types from a single drain.
func ofType(messages []map[string]any, messageType string) []map[string]any {
	var matching []map[string]any
	for _, message := range messages {
		if message["type"] == messageType {
			matching = append(matching, message)
		}
	}
	return matching
}

// waitForType polls the outbound buffer until a message of the wanted type
// shows up, for flows that complete on another goroutine.
func waitForType(t *testing.T, client *Client, messageType string) map[string]any {
	var found map[string]any
	require.Eventually(t, func() bool {
		for _, message := range takeSent(t, client) {
			if message["type"] == messageType {
				found = message
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
	return found
}

func frame(t *testing.T, fields map[string]any) []byte {
	data, err := json.Marshal(fields)
	require.NoError(t, err)
	return data
}
