package network

import (
	"collab-lab/contract"
	"collab-lab/domain"
	liberrors "collab-lab/errors"
	"errors"
	"log/slog"
	"sync"
	"time"
)

type roomKey struct {
	project domain.ProjectID
	role    domain.RoleID
}

// Decision is the admission outcome for one submitted action.
type Decision struct {
	Admitted bool
	// LatestID is the admitted-id high-water mark after the decision. On a
	// rejection it tells the submitter how far behind it is.
	LatestID int64
}

// Sequencer is the admission control point for collaborative edits. Every
// (project, role) pair carries a gate over admitted action ids; an action
// passes only when its id is strictly greater than the last admitted one and
// the submitter still occupies the role it was at when it submitted.
type Sequencer struct {
	log      *slog.Logger
	actions  contract.ActionStore
	projects contract.ProjectStore

	mu    sync.Mutex
	gates map[roomKey]*Gate[int64]
}

func NewSequencer(log *slog.Logger, actions contract.ActionStore, projects contract.ProjectStore) *Sequencer {
	return &Sequencer{
		log:      log,
		actions:  actions,
		projects: projects,
		gates:    make(map[roomKey]*Gate[int64]),
	}
}

// gateForLocked returns the gate for one role, seeding it from the persisted
// baseline on first use. Callers hold s.mu.
func (s *Sequencer) gateForLocked(id domain.ProjectID, roleID domain.RoleID) (*Gate[int64], error) {
	key := roomKey{project: id, role: roleID}
	if gate, ok := s.gates[key]; ok {
		return gate, nil
	}
	latest, err := s.actions.GetLatestActionID(id, roleID)
	if err != nil {
		return nil, err
	}
	gate := NewGate[int64](func(proposed, last int64) bool { return proposed > last })
	gate.Advance(latest)
	s.gates[key] = gate
	return gate, nil
}

// Submit decides one action. The submitter's room is captured up front; if
// the connection moved to another role while the decision was being made the
// action is rejected rather than applied to the wrong role. Admitted actions
// are persisted to the log, and the baseline advances unless the action is a
// user-level event that carries no document edit.
func (s *Sequencer) Submit(client *Client, action domain.Action) (Decision, error) {
	projectID, roleID, ok := client.Room()
	if !ok {
		return Decision{}, liberrors.ErrRoleNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gate, err := s.gateForLocked(projectID, roleID)
	if err != nil {
		return Decision{}, err
	}
	latest, _ := gate.Last()
	if !gate.Admit(action.ID) || !client.IsAt(projectID, roleID) {
		return Decision{Admitted: false, LatestID: latest}, nil
	}

	record := domain.ActionRecord{
		ProjectID: projectID,
		RoleID:    roleID,
		Action:    action,
		Time:      time.Now().UTC(),
	}
	if err := s.actions.Store(record); err != nil {
		return Decision{}, err
	}
	if !action.IsUserAction {
		if err := s.actions.SetLatestActionID(projectID, roleID, action.ID); err != nil {
			return Decision{}, err
		}
		gate.Advance(action.ID)
		latest = action.ID
	}
	return Decision{Admitted: true, LatestID: latest}, nil
}

// ActionsAfter returns the log suffix a lagging client needs to catch up.
func (s *Sequencer) ActionsAfter(id domain.ProjectID, roleID domain.RoleID, afterID int64) ([]domain.ActionRecord, error) {
	return s.actions.GetActionsAfter(id, roleID, afterID)
}

// LatestID returns the current admitted-id baseline for one role.
func (s *Sequencer) LatestID(id domain.ProjectID, roleID domain.RoleID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate, err := s.gateForLocked(id, roleID)
	if err != nil {
		return 0, err
	}
	latest, _ := gate.Last()
	return latest, nil
}

// OnRoleVacated resets the role's baseline to the action id of the persisted
// document and compacts the buffered log past it. Unsaved edits made after
// the last save are dropped on purpose: with nobody left at the role there is
// no live document they could still apply to.
func (s *Sequencer) OnRoleVacated(id domain.ProjectID, roleID domain.RoleID) error {
	content, err := s.projects.GetRoleContent(id, roleID)
	if err != nil {
		if !errors.Is(err, liberrors.ErrRoleNotFound) && !errors.Is(err, liberrors.ErrProjectNotFound) {
			return err
		}
		content = domain.RoleContent{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gate, err := s.gateForLocked(id, roleID)
	if err != nil {
		return err
	}
	if err := s.actions.SetLatestActionID(id, roleID, content.ActionID); err != nil {
		return err
	}
	gate.Reset()
	gate.Advance(content.ActionID)
	_, err = s.actions.ClearActionsAfter(id, roleID, content.ActionID, time.Now().UTC())
	return err
}
