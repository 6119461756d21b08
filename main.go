package main

import (
	"fmt"
	"log"

	"pocketbook/internal/config"
	"pocketbook/internal/database"
	"pocketbook/internal/logging"
	"pocketbook/internal/router"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.Setup(cfg.Log.Level)

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatalf("migrate database: %v", err)
	}

	// setup router
	r := router.SetupRouter(cfg, db, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Infof("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("run server: %v", err)
	}
}
