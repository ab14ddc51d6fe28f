package errors

import "fmt"

var (
	ErrAddressNotFound    = fmt.Errorf("address not found")
	ErrProjectNotFound    = fmt.Errorf("project not found")
	ErrRoleNotFound       = fmt.Errorf("role not found")
	ErrUnknownClient      = fmt.Errorf("unknown client")
	ErrStaleAction        = fmt.Errorf("concurrent action already accepted")
	ErrNotYourTurn        = fmt.Errorf("not your turn")
	ErrRequestTimeout     = fmt.Errorf("request timed out")
	ErrClientMoved        = fmt.Errorf("client moved to another role")
	ErrUnknownRequest     = fmt.Errorf("unknown or expired request id")
	ErrConnectionClosed   = fmt.Errorf("connection closed")
	ErrClientIDConflict   = fmt.Errorf("client id already set")
	ErrNotOwner           = fmt.Errorf("only the project owner may do this")
	ErrRoleNameTaken      = fmt.Errorf("role name already taken")
	ErrMissingActions     = fmt.Errorf("requested actions no longer available")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrUnoccupiedRole     = fmt.Errorf("role has no occupants")
	ErrSendBufferFull     = fmt.Errorf("send buffer full")
	ErrSocketUnresponsive = fmt.Errorf("websocket is unresponsive (timeout)")
)
