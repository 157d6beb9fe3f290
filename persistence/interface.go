// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/influence/models"
)

// Database 数据库接口
type Database interface {
	SaveGameSummary(summary *models.GameSummary) error
	SaveDisconnect(playerName string) error
	GetPlayerStats(name string) (*models.PlayerStats, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
