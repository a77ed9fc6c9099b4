package v1

import (
	"talentbridge/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterCandidates(r fiber.Router, candidateHandler *handler.CandidateHandler) {
	if r == nil || candidateHandler == nil {
		return
	}

	candidateHandler.RegisterRoutes(r)
}
