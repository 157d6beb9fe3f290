// services/stats_service.go
package services

import (
	"github.com/wfunc/influence/logger"
	"github.com/wfunc/influence/models"
	"github.com/wfunc/influence/persistence"
)

// StatsService records finished-game summaries and disconnect statistics and
// answers stats queries. It satisfies the engine's Recorder contract; storage
// failures are logged, never surfaced into the game.
type StatsService struct {
	db persistence.Database
}

func NewStatsService(db persistence.Database) *StatsService {
	return &StatsService{db: db}
}

// RecordGame 保存对局总结
func (s *StatsService) RecordGame(summary *models.GameSummary) {
	if s.db == nil {
		return
	}
	if err := s.db.SaveGameSummary(summary); err != nil {
		logger.Log.Errorf("Failed to save game summary for %s: %v", summary.GameName, err)
	}
}

// RecordDisconnect 记录中途断线
func (s *StatsService) RecordDisconnect(playerName string) {
	if s.db == nil {
		return
	}
	if err := s.db.SaveDisconnect(playerName); err != nil {
		logger.Log.Errorf("Failed to record disconnect for %s: %v", playerName, err)
	}
}

// PlayerStats 查询玩家统计
func (s *StatsService) PlayerStats(name string) (*models.PlayerStats, error) {
	if s.db == nil {
		return nil, persistence.ErrRecordNotFound
	}
	return s.db.GetPlayerStats(name)
}
