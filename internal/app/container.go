package app

import (
	"context"
	"log"
	"os"
	"time"

	"talentbridge/internal/config"
	"talentbridge/internal/database"
	"talentbridge/internal/database/migration"
	dbpostgres "talentbridge/internal/database/postgres"
	"talentbridge/internal/infrastructure/cache"
	"talentbridge/internal/ws"
)

// Container holds the long-lived process dependencies shared by the HTTP
// and websocket layers.
type Container struct {
	Config config.Config
	Logger *log.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	runner := migration.Runner{Dir: cfg.App.MigrationsDir, Logger: logger}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, logger),
		Hub:    ws.NewHub(logger),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var firstErr error
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
