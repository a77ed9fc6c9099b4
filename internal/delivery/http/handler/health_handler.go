package handler

import (
	"talentbridge/internal/database"
	"talentbridge/internal/infrastructure/cache"
	"talentbridge/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	db    database.DB
	cache *cache.Redis
}

func NewHealthHandler(db database.DB, cache *cache.Redis) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}

	app.Get("/healthz", h.Liveness)
	app.Get("/readyz", h.Readiness)
}

func (h *HealthHandler) Liveness(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{"status": "up"})
}

func (h *HealthHandler) Readiness(c fiber.Ctx) error {
	checks := map[string]string{
		"database": "ok",
		"cache":    "ok",
	}
	status := fiber.StatusOK

	if h.db == nil {
		checks["database"] = "unconfigured"
		status = fiber.StatusServiceUnavailable
	} else if err := h.db.Ping(c.Context()); err != nil {
		checks["database"] = err.Error()
		status = fiber.StatusServiceUnavailable
	}

	// Cache is a soft dependency, the API degrades without it.
	if h.cache == nil {
		checks["cache"] = "unconfigured"
	} else if err := h.cache.Ping(c.Context()); err != nil {
		checks["cache"] = err.Error()
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "not ready", checks)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, checks)
}
