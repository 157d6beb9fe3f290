// models/models.go
package models

import (
	"encoding/json"
	"time"
)

// GameSummary is the record handed to the persistence sink once a winner is
// determined. PlayerRank is ordered winner first; PlayerDisconnect lists
// mid-game leavers in order; Events is the serialized history log.
type GameSummary struct {
	GameName         string          `json:"gameName"`
	GameType         string          `json:"gameType"`
	Players          int             `json:"players"`
	HumanPlayers     int             `json:"humanPlayers"`
	PlayerRank       []string        `json:"playerRank"`
	PlayerDisconnect []string        `json:"playerDisconnect"`
	Events           json.RawMessage `json:"events"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// PlayerStats aggregates a player's results across finished games.
type PlayerStats struct {
	Name        string `json:"name"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Disconnects int    `json:"disconnects"`
}
