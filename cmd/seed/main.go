package main

import (
	"context"
	"log"
	"time"

	"talentbridge/internal/app"
	"talentbridge/internal/config"
	dbseeder "talentbridge/internal/database/seeder"

	"github.com/joho/godotenv"
)

// Seeds demo data for local development. Migrations run as part of
// container startup, so a fresh database works out of the box.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Best-effort guard against overlapping seed runs. When Redis is down the
	// lock is a no-op and seeding proceeds; the seeders are upserts anyway.
	if ok, err := c.Cache.SetIfNotExists(ctx, "seed:lock", "1", 2*time.Minute); err == nil && !ok && c.Cache.Ping(ctx) == nil {
		log.Fatalf("another seed run appears to be in progress")
	}

	r := dbseeder.Runner{Seeders: dbseeder.Defaults()}
	if err := r.Run(ctx, c.DB); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Printf("seed completed")
}
