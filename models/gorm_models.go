// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormGameSummary 对局总结模型
type GormGameSummary struct {
	gorm.Model
	GameName         string   `gorm:"index;not null"`
	GameType         string   `gorm:"not null"`
	Players          int      `gorm:"not null"`
	HumanPlayers     int      `gorm:"not null"`
	PlayerRank       []string `gorm:"serializer:json;type:jsonb"`
	PlayerDisconnect []string `gorm:"serializer:json;type:jsonb"`
	Events           []byte   `gorm:"type:jsonb"`
}

// GormPlayerStat 玩家统计模型
type GormPlayerStat struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null"`
	GamesPlayed int    `gorm:"default:0"`
	Wins        int    `gorm:"default:0"`
	Losses      int    `gorm:"default:0"`
	Disconnects int    `gorm:"default:0"`
}

// GormDisconnect 断线记录模型
type GormDisconnect struct {
	gorm.Model
	PlayerName string `gorm:"index;not null"`
}
