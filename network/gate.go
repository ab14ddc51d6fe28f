package network

import (
	"collab-lab/domain"
	liberrors "collab-lab/errors"
	"context"
	"encoding/json"
	"sync"
)

// Gate is a single-writer admission primitive. A proposed token is admitted
// only when the newer predicate accepts it against the last recorded token;
// before anything was recorded every proposal passes. The sequencer uses it
// with monotonically increasing action ids, the turn-based wrapper with
// alternating role ids.
type Gate[T comparable] struct {
	mu    sync.Mutex
	last  T
	armed bool
	newer func(proposed, last T) bool
}

func NewGate[T comparable](newer func(proposed, last T) bool) *Gate[T] {
	return &Gate[T]{newer: newer}
}

// Admit reports whether the proposed token may write. It does not move the
// gate; call Advance once the write actually took place.
func (g *Gate[T]) Admit(proposed T) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.armed || g.newer(proposed, g.last)
}

func (g *Gate[T]) Advance(proposed T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = proposed
	g.armed = true
}

// Last returns the last recorded token, false when the gate never advanced.
func (g *Gate[T]) Last() (T, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last, g.armed
}

func (g *Gate[T]) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	var zero T
	g.last = zero
	g.armed = false
}

// ActionFunc and ResetFunc are the procedures a TurnBased wrapper guards.
type ActionFunc func(ctx context.Context, caller *Client, args json.RawMessage) error

type ResetFunc func(ctx context.Context, caller *Client) error

// TurnBased enforces alternating-turn semantics around a pair of procedures:
// the role that acted last may not act again until another role did. When a
// turn succeeds, the occupants of the previous actor's role are told it is
// their turn.
type TurnBased struct {
	mu       sync.Mutex
	gate     *Gate[domain.RoleID]
	topology *Topology
	action   ActionFunc
	reset    ResetFunc
}

func NewTurnBased(topology *Topology, action ActionFunc, reset ResetFunc) *TurnBased {
	return &TurnBased{
		gate:     NewGate[domain.RoleID](func(proposed, last domain.RoleID) bool { return proposed != last }),
		topology: topology,
		action:   action,
		reset:    reset,
	}
}

// Act runs the wrapped action for the caller's current role. A role acting
// twice in a row is rejected before the procedure runs; a failed procedure
// leaves the turn state untouched.
func (t *TurnBased) Act(ctx context.Context, caller *Client, args json.RawMessage) error {
	projectID, roleID, ok := caller.Room()
	if !ok {
		return liberrors.ErrRoleNotFound
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.gate.Admit(roleID) {
		return liberrors.ErrNotYourTurn
	}
	if err := t.action(ctx, caller, args); err != nil {
		return err
	}
	if previous, ok := t.gate.Last(); ok {
		for _, peer := range t.topology.ConnectionsAt(projectID, previous) {
			peer.Send(yourTurnMessage{Type: msgYourTurn})
		}
	}
	t.gate.Advance(roleID)
	return nil
}

// Reset runs the wrapped reset and, on success, clears the turn state so
// anyone may act next.
func (t *TurnBased) Reset(ctx context.Context, caller *Client) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.reset(ctx, caller); err != nil {
		return err
	}
	t.gate.Reset()
	return nil
}
