package v1

import (
	"talentbridge/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterJobs(r fiber.Router, jobHandler *handler.JobHandler) {
	if r == nil || jobHandler == nil {
		return
	}

	jobHandler.RegisterRoutes(r)
}
