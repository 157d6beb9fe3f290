package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
)

const (
	MsgTypeJoinGame   = 101
	MsgTypeLeaveGame  = 102
	MsgTypeCreateGame = 103
	MsgTypeCommand    = 201
	MsgTypeChat       = 202
)

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func main() {
	addr := "localhost:8080"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]
			log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
		}
	}()

	log.Println("Commands: create <name>, join [game], start, play <action> [target],")
	log.Println("  challenge, block <role>, allow, reveal <role>, chat <text>, leave, quit")
	log.Println("Prefix game commands with the state id, e.g. '4 play steal 2'.")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		default:
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit":
			c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case "create":
			name := ""
			if len(fields) > 1 {
				name = fields[1]
			}
			send(c, MsgTypeCreateGame, map[string]string{"playerName": userName(), "gameName": name})
			continue
		case "join":
			name := ""
			if len(fields) > 1 {
				name = fields[1]
			}
			send(c, MsgTypeJoinGame, map[string]string{"playerName": userName(), "gameName": name})
			continue
		case "leave":
			send(c, MsgTypeLeaveGame, map[string]string{})
			continue
		case "chat":
			send(c, MsgTypeChat, map[string]string{"text": strings.TrimSpace(line[len("chat"):])})
			continue
		}

		// Everything else is a game command: "<stateId> <command> [args]".
		stateID, err := strconv.Atoi(fields[0])
		if err != nil || len(fields) < 2 {
			log.Println("Unknown input; game commands start with the state id")
			continue
		}
		cmd := map[string]interface{}{"stateId": stateID, "command": fields[1]}
		args := fields[2:]
		switch fields[1] {
		case "play", "play-action":
			cmd["command"] = "play-action"
			if len(args) > 0 {
				cmd["action"] = args[0]
			}
			if len(args) > 1 {
				if t, err := strconv.Atoi(args[1]); err == nil {
					cmd["target"] = t
				}
			}
		case "block":
			if len(args) > 0 {
				cmd["blockingRole"] = args[0]
			}
		case "reveal":
			if len(args) > 0 {
				cmd["role"] = args[0]
			}
		case "exchange":
			cmd["roles"] = args
		case "interrogate":
			cmd["forceExchange"] = len(args) > 0 && args[0] == "force"
		case "start":
			if len(args) > 0 {
				cmd["gameType"] = args[0]
			}
		}
		if err := send(c, MsgTypeCommand, cmd); err != nil {
			log.Println("Write error:", err)
			return
		}
	}
}

func userName() string {
	if n := os.Getenv("PLAYER_NAME"); n != "" {
		return n
	}
	return "player"
}
