// Package internal exposes the operator-facing stats endpoint. It is not part
// of the client protocol.
package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/shirou/gopsutil/process"
)

// TopologyStats is the slice of the topology registry the ops endpoint reads.
type TopologyStats interface {
	ClientCount() int
	OccupiedProjectCount() int
}

type opsStats struct {
	Clients          int     `json:"clients"`
	OccupiedProjects int     `json:"occupiedProjects"`
	StorageLSMBytes  int64   `json:"storageLsmBytes"`
	StorageVLogBytes int64   `json:"storageVlogBytes"`
	MemoryRSS        uint64  `json:"memoryRss"`
	CPUPercent       float64 `json:"cpuPercent"`
	ProcessStatus    string  `json:"processStatus"`
	UptimeSeconds    int64   `json:"uptimeSeconds"`
}

// OpsServer serves live occupancy counts, storage size, and process
// self-stats over HTTP. It runs as a supervised worker.
type OpsServer struct {
	log      *slog.Logger
	db       *badger.DB
	topology TopologyStats
	port     int
	started  time.Time
}

func NewOpsServer(log *slog.Logger, db *badger.DB, topology TopologyStats, port int) *OpsServer {
	return &OpsServer{log: log, db: db, topology: topology, port: port, started: time.Now()}
}

func (s *OpsServer) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return fmt.Errorf("could not open own process handle: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		lsm, vlog := s.db.Size()
		stats := opsStats{
			Clients:          s.topology.ClientCount(),
			OccupiedProjects: s.topology.OccupiedProjectCount(),
			StorageLSMBytes:  lsm,
			StorageVLogBytes: vlog,
			UptimeSeconds:    int64(time.Since(s.started).Seconds()),
		}
		if memInfo, err := proc.MemoryInfo(); err == nil {
			stats.MemoryRSS = memInfo.RSS
		}
		if cpuPercent, err := proc.CPUPercent(); err == nil {
			stats.CPUPercent = cpuPercent
		}
		if status, err := proc.Status(); err == nil {
			stats.ProcessStatus = status
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats)
	})

	server := &http.Server{Addr: fmt.Sprintf(":%d", s.port), Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.log.Info(fmt.Sprintf("ops endpoint listening on :%d", s.port))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
