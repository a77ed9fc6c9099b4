package v1

import (
	"talentbridge/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterChat(r fiber.Router, chatHandler *handler.ChatHandler) {
	if r == nil || chatHandler == nil {
		return
	}

	chatHandler.RegisterRoutes(r)
}
