// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/influence/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := db.AutoMigrate(
		&models.GormGameSummary{},
		&models.GormPlayerStat{},
		&models.GormDisconnect{},
	); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SaveGameSummary 保存对局总结并更新玩家胜负统计
func (p *GormPostgreSQL) SaveGameSummary(summary *models.GameSummary) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		row := models.GormGameSummary{
			GameName:         summary.GameName,
			GameType:         summary.GameType,
			Players:          summary.Players,
			HumanPlayers:     summary.HumanPlayers,
			PlayerRank:       summary.PlayerRank,
			PlayerDisconnect: summary.PlayerDisconnect,
			Events:           []byte(summary.Events),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		for i, name := range summary.PlayerRank {
			stat, err := upsertStat(tx, name)
			if err != nil {
				return err
			}
			updates := map[string]interface{}{
				"games_played": gorm.Expr("games_played + 1"),
			}
			if i == 0 {
				updates["wins"] = gorm.Expr("wins + 1")
			} else {
				updates["losses"] = gorm.Expr("losses + 1")
			}
			if err := tx.Model(stat).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveDisconnect 记录一次中途断线
func (p *GormPostgreSQL) SaveDisconnect(playerName string) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.GormDisconnect{PlayerName: playerName}).Error; err != nil {
			return err
		}
		stat, err := upsertStat(tx, playerName)
		if err != nil {
			return err
		}
		return tx.Model(stat).Update("disconnects", gorm.Expr("disconnects + 1")).Error
	})
}

// GetPlayerStats 获取玩家统计
func (p *GormPostgreSQL) GetPlayerStats(name string) (*models.PlayerStats, error) {
	var stat models.GormPlayerStat
	if err := p.db.Where("name = ?", name).First(&stat).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &models.PlayerStats{
		Name:        stat.Name,
		GamesPlayed: stat.GamesPlayed,
		Wins:        stat.Wins,
		Losses:      stat.Losses,
		Disconnects: stat.Disconnects,
	}, nil
}

func upsertStat(tx *gorm.DB, name string) (*models.GormPlayerStat, error) {
	var stat models.GormPlayerStat
	err := tx.Where("name = ?", name).First(&stat).Error
	if err == gorm.ErrRecordNotFound {
		stat = models.GormPlayerStat{Name: name}
		if err := tx.Create(&stat).Error; err != nil {
			return nil, err
		}
		return &stat, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
