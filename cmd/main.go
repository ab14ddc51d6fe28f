package main

import (
	"collab-lab/auth"
	"collab-lab/internal"
	"collab-lab/network"
	"collab-lab/repositories"
	"collab-lab/runtime/workers"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so deferred cleanup always executes.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories & network core
	projectRepository := repositories.NewProjectRepository(db, log)
	actionRepository := repositories.NewActionRepository(db, log, config.ActionTTL)
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitTraces)

	sequencer := network.NewSequencer(log, actionRepository, projectRepository)
	topology := network.NewTopology(log, projectRepository, sequencer)

	services := &network.Services{
		Log:               log,
		Topology:          topology,
		Sequencer:         sequencer,
		Projects:          projectRepository,
		Actions:           actionRepository,
		Messages:          messageRepository,
		Tokens:            auth.NewTokenService(config.AuthSecret, config.AuthTokenDuration),
		Version:           config.Version,
		HeartbeatInterval: config.HeartbeatInterval,
		RequestTimeout:    config.RequestTimeout,
		SendBufferSize:    config.SendBufferSize,
	}
	server := network.NewServer(services)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Supervised background workers
	sup := workers.NewSupervisor(log)
	sup.Add(
		workers.NewStorageGC(db, log, config.StorageGCTick),
		workers.NewSweeper(projectRepository, log, config.SweepInterval, config.SweepGrace),
		internal.NewOpsServer(log, db, topology, config.OpsPort),
	)
	supDone := make(chan struct{})
	go func() {
		defer close(supDone)
		sup.Run(ctx)
	}()

	// 6. HTTP server with the websocket endpoint
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: server.Router()}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting collaboration server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")

	return nil
}
