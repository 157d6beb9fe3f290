package server

import (
	"encoding/json"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/influence/ai"
	"github.com/wfunc/influence/chat"
	"github.com/wfunc/influence/config"
	"github.com/wfunc/influence/game"
	"github.com/wfunc/influence/logger"
	"github.com/wfunc/influence/monitor"
	"github.com/wfunc/influence/network"
	"github.com/wfunc/influence/persistence"
	influence_rpc "github.com/wfunc/influence/rpc"
	"github.com/wfunc/influence/services"
	"github.com/wfunc/influence/session"
	"github.com/wfunc/influence/timer"
)

type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	gameManager    *game.Manager
	sessionManager *session.Manager
	statsService   *services.StatsService
	rpcServer      *influence_rpc.Server
	monitor        *monitor.Monitor
	timers         *timer.Manager
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database) *GameServer {
	s := &GameServer{
		cfg:            cfg,
		gameManager:    game.NewManager(),
		sessionManager: session.NewManager(),
		statsService:   services.NewStatsService(db),
		monitor:        monitor.NewMonitor("influence"),
		timers:         timer.NewManager(),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化RPC服务器
	rpcServer, err := influence_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	// 注册RPC服务
	statsQuery := influence_rpc.NewStatsQueryService(s.statsService)
	rpc.Register(statsQuery)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.monitor.StartServer(s.cfg.Server.MetricsAddress)

	idle := time.Duration(s.cfg.Game.IdleTimeout) * time.Second
	if idle > 0 {
		s.timers.Add(idle, idle/2, func() {
			for _, sess := range s.sessionManager.Idle(idle) {
				logger.Log.Infof("Closing idle session %s", sess.GetID())
				sess.Close()
			}
		})
	}

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.timers.Stop()
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	sess.PlayerID = uuid.New().String()
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	var handle game.Handle
	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		if handle != nil {
			handle.Leave(false)
		}
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		s.monitor.SetActiveGames(s.gameManager.Count())
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet, &handle)
		}
	}
}

// joinRequest is the body of both create and join packets.
type joinRequest struct {
	PlayerName string `json:"playerName"`
	GameName   string `json:"gameName"`
}

type chatRequest struct {
	Text string `json:"text"`
}

type errorReply struct {
	Error string `json:"error"`
}

type joinedReply struct {
	GameName string `json:"gameName"`
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet, handle *game.Handle) {
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.Touch()
	case network.MsgTypeCreateGame:
		s.handleCreateGame(sess, packet, handle)
	case network.MsgTypeJoinGame:
		s.handleJoinGame(sess, packet, handle)
	case network.MsgTypeLeaveGame:
		s.handleLeaveGame(sess, handle)
	case network.MsgTypeCommand:
		s.handleCommand(sess, packet, handle)
	case network.MsgTypeChat:
		s.handleChat(sess, packet, handle)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

func (s *GameServer) handleCreateGame(sess *session.Session, packet *network.Packet, handle *game.Handle) {
	if *handle != nil {
		sess.SendJSON(network.MsgTypeError, errorReply{Error: "already in a game"})
		return
	}
	var req joinRequest
	if len(packet.Data) > 0 {
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			sess.SendJSON(network.MsgTypeError, errorReply{Error: "malformed request"})
			return
		}
	}
	g := s.gameManager.CreateGame(s.gameConfig(req.GameName))
	s.seat(sess, g, req.PlayerName, handle)
	s.monitor.SetActiveGames(s.gameManager.Count())

	logger.Log.Infof("Session %s created game %s", sess.GetID(), g.Name())
}

func (s *GameServer) handleJoinGame(sess *session.Session, packet *network.Packet, handle *game.Handle) {
	if *handle != nil {
		sess.SendJSON(network.MsgTypeError, errorReply{Error: "already in a game"})
		return
	}
	var req joinRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		sess.SendJSON(network.MsgTypeError, errorReply{Error: "malformed request"})
		return
	}

	var g *game.Game
	if req.GameName != "" {
		found, exists := s.gameManager.GetGame(req.GameName)
		if !exists {
			sess.SendJSON(network.MsgTypeError, errorReply{Error: "game not found"})
			return
		}
		g = found
	} else if g = s.gameManager.FindAvailableGame(); g == nil {
		g = s.gameManager.CreateGame(s.gameConfig(""))
		s.monitor.SetActiveGames(s.gameManager.Count())
	}
	s.seat(sess, g, req.PlayerName, handle)

	logger.Log.Infof("Session %s joined game %s", sess.GetID(), g.Name())
}

func (s *GameServer) seat(sess *session.Session, g *game.Game, playerName string, handle *game.Handle) {
	if playerName == "" {
		playerName = "player"
	}
	sess.PlayerName = playerName
	sess.GameName = g.Name()
	*handle = g.Join(&seatRecipient{sess: sess})
	sess.SendJSON(network.MsgTypeJoined, joinedReply{GameName: g.Name()})
}

func (s *GameServer) handleLeaveGame(sess *session.Session, handle *game.Handle) {
	if *handle == nil {
		return
	}
	(*handle).Leave(false)
	*handle = nil
	sess.GameName = ""
	s.monitor.SetActiveGames(s.gameManager.Count())
}

func (s *GameServer) handleCommand(sess *session.Session, packet *network.Packet, handle *game.Handle) {
	if *handle == nil {
		sess.SendJSON(network.MsgTypeError, errorReply{Error: "not in a game"})
		return
	}
	var cmd game.Command
	if err := json.Unmarshal(packet.Data, &cmd); err != nil {
		sess.SendJSON(network.MsgTypeError, errorReply{Error: "malformed command"})
		return
	}

	start := time.Now()
	err := (*handle).Command(&cmd)
	s.monitor.ObserveCommandLatency(time.Since(start))
	if err != nil {
		// Rule violations go back to the submitting seat only.
		s.monitor.IncCommandsRejected()
		sess.SendJSON(network.MsgTypeError, errorReply{Error: err.Error()})
		return
	}
	s.monitor.IncCommandsProcessed()
}

func (s *GameServer) handleChat(sess *session.Session, packet *network.Packet, handle *game.Handle) {
	if *handle == nil {
		return
	}
	var req chatRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	(*handle).SendChatMessage(req.Text)
}

func (s *GameServer) gameConfig(name string) game.Config {
	return game.Config{
		GameName:    name,
		RandomSeed:  s.cfg.Game.RandomSeed,
		Debug:       s.cfg.Game.Debug,
		FirstPlayer: game.RandomFirstPlayer,
		Logger:      logger.Log,
		Recorder:    s.statsService,
		AIFactory:   func() game.AIDriver { return ai.NewBot() },
		Sanitize:    chat.Sanitize,
	}
}

// seatRecipient adapts a session to the engine's collaborator contract.
// Deliveries arrive on the seat's outbound queue goroutine; send errors are
// left to the read loop to notice.
type seatRecipient struct {
	sess *session.Session
}

type historyMessage struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	GroupID string `json:"groupId"`
}

type chatMessage struct {
	From int    `json:"from"`
	Text string `json:"text"`
}

func (r *seatRecipient) OnStateChange(view *game.StateView) {
	r.sess.SendJSON(network.MsgTypeState, view)
}

func (r *seatRecipient) OnHistoryEvent(message string, typ game.EventType, groupID string) {
	r.sess.SendJSON(network.MsgTypeHistory, historyMessage{Message: message, Type: string(typ), GroupID: groupID})
}

func (r *seatRecipient) OnChatMessage(from int, text string) {
	r.sess.SendJSON(network.MsgTypeChatRelay, chatMessage{From: from, Text: text})
}

func (r *seatRecipient) PlayerID() string { return r.sess.PlayerID }
func (r *seatRecipient) Name() string     { return r.sess.PlayerName }
func (r *seatRecipient) AI() bool         { return false }
