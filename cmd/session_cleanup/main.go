package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"summittrek/internal/config"
	"summittrek/internal/database"
	"summittrek/internal/session"
)

// Prunes sessions whose sliding TTL window has lapsed. Run from cron.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	store := session.NewStore(db, cfg.SessionTTL)
	if err := store.Migrate(); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	removed, err := store.ClearExpired(context.Background(), time.Now())
	if err != nil {
		log.Fatalf("session cleanup failed: %v", err)
	}
	log.Printf("session cleanup completed: removed=%d", removed)
}
