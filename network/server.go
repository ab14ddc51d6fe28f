package network

import (
	"collab-lab/auth"
	"collab-lab/contract"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Services bundles the shared collaborators handed to every connection.
type Services struct {
	Log       *slog.Logger
	Topology  *Topology
	Sequencer *Sequencer
	Projects  contract.ProjectStore
	Actions   contract.ActionStore
	Messages  contract.MessageStore
	Tokens    *auth.TokenService

	Version           string
	HeartbeatInterval time.Duration
	RequestTimeout    time.Duration
	SendBufferSize    int
}

// Server upgrades HTTP requests to websocket connections and hands them to
// the network core.
type Server struct {
	log      *slog.Logger
	services *Services
	upgrader websocket.Upgrader
}

func NewServer(services *Services) *Server {
	return &Server{
		log:      services.Log,
		services: services,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser editors connect from arbitrary origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/connect", s.handleConnect)
	return router
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error(fmt.Sprintf("could not upgrade connection from %s: %v", r.RemoteAddr, err))
		return
	}
	client := NewClient(s.services, conn)
	s.services.Topology.Register(client)
	s.log.Debug(fmt.Sprintf("new connection %s from %s", client.ID(), r.RemoteAddr))
	client.Serve(r.Context())
}
