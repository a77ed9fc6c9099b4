package v1

import (
	"context"
	"log"

	"talentbridge/internal/config"
	"talentbridge/internal/database"
	"talentbridge/internal/delivery/http/handler"
	"talentbridge/internal/delivery/http/middleware"
	"talentbridge/internal/domain/matching"
	"talentbridge/internal/domain/user"
	"talentbridge/internal/infrastructure/persistence/postgres"
	"talentbridge/internal/pkg/jwt"
	"talentbridge/internal/repository"
	"talentbridge/internal/usecase"
	useruc "talentbridge/internal/usecase/user"
	"talentbridge/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// Deps carries the process-wide dependencies the v1 routes are built from.
type Deps struct {
	Config config.Config
	DB     database.DB
	Cache  usecase.Cache
	Hub    *ws.Hub
	Logger *log.Logger
}

func Register(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		deps.Config.JWT.AccessSecret,
		deps.Config.JWT.RefreshSecret,
		deps.Config.JWT.AccessExpiresIn,
		deps.Config.JWT.RefreshExpiresIn,
	)

	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := postgres.NewUserRepository(deps.DB)
	jobRepo := repository.NewPostgresJobRepository(deps.DB)
	studentRepo := repository.NewPostgresStudentRepository(deps.DB)
	notificationRepo := repository.NewPostgresNotificationRepository(deps.DB)
	conversationRepo := repository.NewPostgresConversationRepository(deps.DB)

	var gateway usecase.Gateway = deps.Hub

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc)
	userUC := useruc.NewService(userRepo)
	candidateUC := usecase.NewCandidateAggregator(
		jobRepo,
		studentRepo,
		strategyFromConfig(deps.Config.Matching),
		deps.Cache,
		deps.Logger,
		deps.Config.Matching,
		deps.Config.Cache.CandidatesTTL,
	)
	notificationUC := usecase.NewNotificationDispatcher(
		notificationRepo,
		deps.Cache,
		gateway,
		deps.Logger,
		deps.Config.Cache.NotificationCountTTL,
		deps.Config.Cache.NotificationsTTL,
	)
	chatUC := usecase.NewChatUsecase(conversationRepo, notificationUC, gateway, deps.Logger)
	jobUC := usecase.NewJobUsecase(jobRepo, deps.Cache, deps.Logger, deps.Config.Cache.JobsTTL)

	authHandler := handler.NewAuthHandler(authUC)
	userHandler := handler.NewUserHandler(userUC)
	candidateHandler := handler.NewCandidateHandler(candidateUC)
	notificationHandler := handler.NewNotificationHandler(notificationUC)
	chatHandler := handler.NewChatHandler(chatUC)
	jobHandler := handler.NewJobHandler(jobUC)
	wsAuthorize := func(ctx context.Context, userID uuid.UUID, channel string) bool {
		conversationID, ok := usecase.ConversationChannelID(channel)
		if !ok {
			return false
		}
		conv, err := conversationRepo.FindByID(ctx, conversationID)
		if err != nil {
			return false
		}
		return conv.HasParticipant(userID)
	}
	wsHandler := ws.NewHandler(deps.Hub, deps.Logger, wsAuthorize)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	protected := r.Group("", authMw.Middleware())

	usersGroup := protected.Group("/users")
	userHandler.RegisterRoutes(usersGroup)

	employerOnly := middleware.RequireRole(string(user.RoleEmployer), string(user.RoleAdmin))
	RegisterCandidates(protected.Group("/employers/candidates", employerOnly), candidateHandler)
	RegisterJobs(protected.Group("/jobs", employerOnly), jobHandler)

	RegisterNotifications(protected, notificationHandler)
	RegisterChat(protected.Group("/conversations"), chatHandler)

	protected.Get("/ws", wsHandler.HandleWS)
}

func strategyFromConfig(cfg config.MatchingConfig) matching.Strategy {
	switch cfg.Strategy {
	case "proficiency":
		return matching.ProficiencyWeighted{}
	default:
		return matching.ExactMatch{}
	}
}
