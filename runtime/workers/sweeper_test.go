package workers

import (
	"collab-lab/domain"
	"collab-lab/repositories"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *badger.DB {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSweeper_PurgesOnlyExpiredMarks(t *testing.T) {
	req := require.New(t)
	db := setupTestDB(t)
	projects := repositories.NewProjectRepository(db, slog.Default())

	// Given one abandoned project and one that was never marked
	abandoned := domain.ProjectMetadata{
		ID:        domain.ProjectID(uuid.NewString()),
		Owner:     "alice",
		Name:      "scratchpad",
		Transient: true,
	}
	kept := domain.ProjectMetadata{
		ID:    domain.ProjectID(uuid.NewString()),
		Owner: "alice",
		Name:  "maze",
	}
	req.NoError(projects.CreateProject(abandoned))
	req.NoError(projects.CreateProject(kept))
	req.NoError(projects.MarkForDeletion(abandoned.ID))

	sweeper := NewSweeper(projects, slog.Default(), 10*time.Millisecond, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sweeper.Run(ctx)
	}()

	// Then the marked project disappears while the other survives
	req.Eventually(func() bool {
		_, err := projects.GetProjectMetadataByID(abandoned.ID)
		return err != nil
	}, 2*time.Second, 20*time.Millisecond)

	_, err := projects.GetProjectMetadataByID(kept.ID)
	req.NoError(err)

	cancel()
	<-done
}
