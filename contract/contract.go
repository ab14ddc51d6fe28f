//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"collab-lab/domain"
	"context"
	"reflect"
	"time"
)

// ProjectStore is the durable home of project metadata and role documents.
// The network core only ever reaches projects through this contract.
type ProjectStore interface {
	GetProjectMetadataByID(id domain.ProjectID) (domain.ProjectMetadata, error)
	GetProjectMetadata(owner, name string) (domain.ProjectMetadata, error)
	CreateProject(meta domain.ProjectMetadata) error
	SetTransient(id domain.ProjectID, transient bool) error
	AddCollaborator(id domain.ProjectID, username string) error

	CreateRole(id domain.ProjectID, roleID domain.RoleID, content domain.RoleContent) error
	RenameRole(id domain.ProjectID, roleID domain.RoleID, name string) error
	RemoveRole(id domain.ProjectID, roleID domain.RoleID) error
	GetRoleContent(id domain.ProjectID, roleID domain.RoleID) (domain.RoleContent, error)
	SetRoleContent(id domain.ProjectID, roleID domain.RoleID, content domain.RoleContent) error

	MarkForDeletion(id domain.ProjectID) error
	PurgeMarkedBefore(cutoff time.Time) (int, error)
}

// ActionStore is the append-only edit log behind the action sequencer.
type ActionStore interface {
	Store(record domain.ActionRecord) error
	GetActionsAfter(id domain.ProjectID, roleID domain.RoleID, afterID int64) ([]domain.ActionRecord, error)
	ClearActionsAfter(id domain.ProjectID, roleID domain.RoleID, actionID int64, before time.Time) (int, error)
	GetLatestActionID(id domain.ProjectID, roleID domain.RoleID) (int64, error)
	SetLatestActionID(id domain.ProjectID, roleID domain.RoleID, actionID int64) error
}

// MessageStore keeps trace records of addressed messages for projects that
// opted into message recording.
type MessageStore interface {
	StoreTrace(trace domain.MessageTrace) error
	GetTraces(id domain.ProjectID, cursor *string) ([]domain.MessageTrace, *string, error)
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes, avoiding the need for
// manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
