package handler

import (
	"context"
	"errors"

	"talentbridge/internal/delivery/http/dto"
	"talentbridge/internal/delivery/http/middleware"
	"talentbridge/internal/domain/notification"
	"talentbridge/internal/pkg/response"
	"talentbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	uc usecase.NotificationUsecase
}

type createNotificationRequest struct {
	RecipientID uuid.UUID                  `json:"recipient_id"`
	Type        string                     `json:"type"`
	Title       string                     `json:"title"`
	Message     string                     `json:"message"`
	Priority    string                     `json:"priority"`
	Related     *dto.RelatedEntityResponse `json:"related_entity"`
}

type bulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func NewNotificationHandler(uc usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("", h.List)
	r.Get("/count", h.Count)
	r.Patch("/read-all", h.MarkAllRead)
	r.Patch("/:id/read", h.MarkRead)
	r.Patch("/:id/dismiss", h.Dismiss)
	r.Delete("/:id", h.Delete)
	r.Delete("", h.BulkDelete)
}

// RegisterAdminRoutes exposes the write side used by back-office tooling.
func (h *NotificationHandler) RegisterAdminRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("", h.Create)
	r.Post("/bulk", h.BulkCreate)
}

func (h *NotificationHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	limit, err := parseQueryInt(c, "limit", 20)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	offset, err := parseQueryInt(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.List(c.Context(), userID, limit, offset)
	if err != nil {
		return mapNotificationUsecaseError(err)
	}

	out := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, notificationResponse(n))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *NotificationHandler) Count(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	counts, err := h.uc.GetCount(c.Context(), userID)
	if err != nil {
		return mapNotificationUsecaseError(err)
	}

	byType := make(map[string]int, len(counts.ByType))
	for t, n := range counts.ByType {
		byType[string(t)] = n
	}
	res := dto.NotificationCountResponse{
		Total:  counts.Total,
		Unread: counts.Unread,
		ByType: byType,
		Recent: counts.Recent,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *NotificationHandler) Create(c fiber.Ctx) error {
	var req createNotificationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	in, err := createInputFromRequest(req)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	n, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return mapNotificationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, notificationResponse(n))
}

func (h *NotificationHandler) BulkCreate(c fiber.Ctx) error {
	var reqs []createNotificationRequest
	if err := c.Bind().Body(&reqs); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	in := make([]usecase.CreateNotificationInput, 0, len(reqs))
	for _, req := range reqs {
		item, err := createInputFromRequest(req)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
		}
		in = append(in, item)
	}

	report, err := h.uc.BulkCreate(c.Context(), in)
	if err != nil {
		return mapNotificationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, report)
}

func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	return h.transition(c, h.uc.MarkRead)
}

func (h *NotificationHandler) Dismiss(c fiber.Ctx) error {
	return h.transition(c, h.uc.Dismiss)
}

func (h *NotificationHandler) transition(c fiber.Ctx, fn func(ctx context.Context, notificationID, requestorID uuid.UUID) (notification.Notification, error)) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	n, err := fn(c.Context(), id, userID)
	if err != nil {
		return mapNotificationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, notificationResponse(n))
}

func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	updated, err := h.uc.MarkAllRead(c.Context(), userID)
	if err != nil {
		return mapNotificationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{"updated": updated})
}

func (h *NotificationHandler) Delete(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.Delete(c.Context(), id, userID); err != nil {
		return mapNotificationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *NotificationHandler) BulkDelete(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req bulkDeleteRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	report, err := h.uc.BulkDelete(c.Context(), req.IDs, userID)
	if err != nil {
		return mapNotificationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, report)
}

func createInputFromRequest(req createNotificationRequest) (usecase.CreateNotificationInput, error) {
	typ, ok := notification.ParseType(req.Type)
	if !ok {
		return usecase.CreateNotificationInput{}, errors.New("unknown notification type: " + req.Type)
	}

	priority := notification.Priority(req.Priority)
	if priority == "" {
		priority = notification.PriorityNormal
	}

	in := usecase.CreateNotificationInput{
		RecipientID: req.RecipientID,
		Type:        typ,
		Title:       req.Title,
		Message:     req.Message,
		Priority:    priority,
	}
	if req.Related != nil {
		in.Related = &notification.RelatedEntity{Kind: req.Related.Kind, ID: req.Related.ID}
	}
	return in, nil
}

func notificationResponse(n notification.Notification) dto.NotificationResponse {
	res := dto.NotificationResponse{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        string(n.Type),
		Title:       n.Title,
		Message:     n.Message,
		Priority:    string(n.Priority),
		State:       string(n.State),
		CreatedAt:   dto.FormatTimestamp(n.CreatedAt),
	}
	if n.Related != nil {
		res.Related = &dto.RelatedEntityResponse{Kind: n.Related.Kind, ID: n.Related.ID}
	}
	if n.ReadAt != nil {
		res.ReadAt = dto.FormatTimestamp(*n.ReadAt)
	}
	return res
}

func mapNotificationUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrNotificationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Notification not found", nil, err)
	case errors.Is(err, usecase.ErrEmptyBatch), errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Invalid state transition", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, response.MessageForbidden, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
