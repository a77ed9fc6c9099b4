package handler

import (
	"errors"

	"talentbridge/internal/delivery/http/dto"
	"talentbridge/internal/delivery/http/middleware"
	"talentbridge/internal/domain/chat"
	"talentbridge/internal/pkg/response"
	"talentbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ChatHandler struct {
	uc usecase.ChatUsecase
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

func NewChatHandler(uc usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("", h.ListConversations)
	r.Get("/:id/messages", h.ListMessages)
	r.Post("/:id/messages", h.SendMessage)
	r.Patch("/:id/read", h.MarkRead)
}

func (h *ChatHandler) ListConversations(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	views, err := h.uc.ListConversations(c.Context(), userID)
	if err != nil {
		return mapChatUsecaseError(err)
	}

	out := make([]dto.ConversationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, dto.ConversationResponse{
			ID:           v.Conversation.ID,
			Participants: v.Conversation.Participants,
			Unread:       v.Unread,
			CreatedAt:    dto.FormatTimestamp(v.Conversation.CreatedAt),
			UpdatedAt:    dto.FormatTimestamp(v.Conversation.UpdatedAt),
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ChatHandler) ListMessages(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	limit, err := parseQueryInt(c, "limit", 50)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	offset, err := parseQueryInt(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	msgs, err := h.uc.ListMessages(c.Context(), convID, userID, limit, offset)
	if err != nil {
		return mapChatUsecaseError(err)
	}

	out := make([]dto.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageResponse(m))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ChatHandler) SendMessage(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req sendMessageRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	msg, err := h.uc.SendMessage(c.Context(), convID, userID, req.Body)
	if err != nil {
		return mapChatUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, messageResponse(msg))
}

func (h *ChatHandler) MarkRead(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.MarkConversationRead(c.Context(), convID, userID); err != nil {
		return mapChatUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func messageResponse(m chat.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		CreatedAt:      dto.FormatTimestamp(m.CreatedAt),
	}
}

func mapChatUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrConversationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Conversation not found", nil, err)
	case errors.Is(err, usecase.ErrNotParticipant):
		return middleware.NewAppError(fiber.StatusForbidden, response.MessageForbidden, nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
