package main

import (
	"travelhub/internal/config" // Custom import path (Config)
	"travelhub/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus"
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	if !cfg.HasDatabase() {
		logrus.Fatal("database settings are required to run migrations")
	}
	db.Migrate(cfg.DSN())
}
