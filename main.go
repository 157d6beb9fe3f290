package main

import (
	"github.com/wfunc/influence/config"
	"github.com/wfunc/influence/logger"
	"github.com/wfunc/influence/persistence"
	"github.com/wfunc/influence/server"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Game.Debug {
		logger.InitDevelopment()
	}

	// Initialize Database
	db, err := persistence.NewGormPostgreSQL(
		cfg.Database.Postgres.Host,
		cfg.Database.Postgres.Port,
		cfg.Database.Postgres.User,
		cfg.Database.Postgres.Password,
		cfg.Database.Postgres.DBName,
	)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Log.Info("Database connection successful.")
	defer db.Close()

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg, db)

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
