// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/wfunc/influence/models"
)

// PostgreSQL 数据库实现
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 初始化表结构
	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS game_summaries (
            id SERIAL PRIMARY KEY,
            game_name VARCHAR(255) NOT NULL,
            game_type VARCHAR(100) NOT NULL,
            players INT NOT NULL,
            human_players INT NOT NULL,
            player_rank JSONB NOT NULL,
            player_disconnect JSONB NOT NULL,
            events JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS player_stats (
            id SERIAL PRIMARY KEY,
            name VARCHAR(255) UNIQUE NOT NULL,
            games_played INT NOT NULL DEFAULT 0,
            wins INT NOT NULL DEFAULT 0,
            losses INT NOT NULL DEFAULT 0,
            disconnects INT NOT NULL DEFAULT 0
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS disconnects (
            id SERIAL PRIMARY KEY,
            player_name VARCHAR(255) NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_game_summaries_game_name ON game_summaries(game_name);
        CREATE INDEX IF NOT EXISTS idx_game_summaries_created_at ON game_summaries(created_at);
        CREATE INDEX IF NOT EXISTS idx_disconnects_player_name ON disconnects(player_name);
    `)

	return err
}

// SaveGameSummary 保存对局总结并更新玩家胜负统计
func (p *PostgreSQL) SaveGameSummary(summary *models.GameSummary) error {
	rankJSON, err := json.Marshal(summary.PlayerRank)
	if err != nil {
		return err
	}
	disconnectJSON, err := json.Marshal(summary.PlayerDisconnect)
	if err != nil {
		return err
	}
	events := summary.Events
	if len(events) == 0 {
		events = json.RawMessage("[]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO game_summaries (game_name, game_type, players, human_players, player_rank, player_disconnect, events)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, summary.GameName, summary.GameType, summary.Players, summary.HumanPlayers,
		rankJSON, disconnectJSON, []byte(events))
	if err != nil {
		return err
	}

	for i, name := range summary.PlayerRank {
		win := 0
		loss := 1
		if i == 0 {
			win = 1
			loss = 0
		}
		_, err = tx.ExecContext(ctx, `
            INSERT INTO player_stats (name, games_played, wins, losses)
            VALUES ($1, 1, $2, $3)
            ON CONFLICT (name)
            DO UPDATE SET games_played = player_stats.games_played + 1,
                          wins = player_stats.wins + $2,
                          losses = player_stats.losses + $3
        `, name, win, loss)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveDisconnect 记录一次中途断线
func (p *PostgreSQL) SaveDisconnect(playerName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO disconnects (player_name) VALUES ($1)`, playerName); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO player_stats (name, disconnects)
        VALUES ($1, 1)
        ON CONFLICT (name)
        DO UPDATE SET disconnects = player_stats.disconnects + 1
    `, playerName); err != nil {
		return err
	}

	return tx.Commit()
}

// GetPlayerStats 获取玩家统计
func (p *PostgreSQL) GetPlayerStats(name string) (*models.PlayerStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats := &models.PlayerStats{Name: name}
	query := `SELECT games_played, wins, losses, disconnects FROM player_stats WHERE name = $1`
	err := p.db.QueryRowContext(ctx, query, name).Scan(
		&stats.GamesPlayed, &stats.Wins, &stats.Losses, &stats.Disconnects)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return stats, nil
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
