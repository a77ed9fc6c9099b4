package v1

import (
	"talentbridge/internal/delivery/http/handler"
	"talentbridge/internal/delivery/http/middleware"
	"talentbridge/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

func RegisterNotifications(r fiber.Router, notificationHandler *handler.NotificationHandler) {
	if r == nil || notificationHandler == nil {
		return
	}

	group := r.Group("/notifications")
	notificationHandler.RegisterRoutes(group)

	adminOnly := middleware.RequireRole(string(user.RoleAdmin), string(user.RoleSchool))
	notificationHandler.RegisterAdminRoutes(group.Group("/admin", adminOnly))
}
