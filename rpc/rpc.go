// rpc/rpc.go
package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/influence/logger"
	"github.com/wfunc/influence/models"
	"github.com/wfunc/influence/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. Services are registered by the caller
// through the net/rpc package.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// StatsQueryService exposes player statistics over net/rpc.
type StatsQueryService struct {
	statsService *services.StatsService
}

// NewStatsQueryService creates a new StatsQueryService.
func NewStatsQueryService(ss *services.StatsService) *StatsQueryService {
	return &StatsQueryService{statsService: ss}
}

// GetPlayerStats follows the net/rpc signature: exported method, exported
// arguments, second argument a pointer, error return.
type GetPlayerStatsArgs struct {
	Name string
}

type GetPlayerStatsReply struct {
	Stats *models.PlayerStats
}

func (qs *StatsQueryService) GetPlayerStats(args *GetPlayerStatsArgs, reply *GetPlayerStatsReply) error {
	stats, err := qs.statsService.PlayerStats(args.Name)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}
