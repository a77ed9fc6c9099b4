package handler

import (
	"errors"

	"talentbridge/internal/delivery/http/dto"
	"talentbridge/internal/delivery/http/middleware"
	"talentbridge/internal/domain/job"
	"talentbridge/internal/domain/matching"
	"talentbridge/internal/pkg/response"
	"talentbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobHandler struct {
	uc usecase.JobUsecase
}

type updateJobStatusRequest struct {
	Status string `json:"status"`
}

func NewJobHandler(uc usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("", h.List)
	r.Patch("/:id/status", h.UpdateStatus)
}

func (h *JobHandler) List(c fiber.Ctx) error {
	employerID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	postings, err := h.uc.ListByEmployer(c.Context(), employerID)
	if err != nil {
		return mapJobUsecaseError(err)
	}

	items := make([]dto.JobResponse, 0, len(postings))
	for _, p := range postings {
		items = append(items, jobResponse(p))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func jobResponse(p job.Posting) dto.JobResponse {
	skills := make([]dto.JobSkillResponse, 0, len(p.RequiredSkills))
	for _, s := range p.RequiredSkills {
		sk := dto.JobSkillResponse{Name: s.Name}
		if s.Proficiency != matching.ProficiencyUnknown {
			sk.Proficiency = s.Proficiency.String()
		}
		skills = append(skills, sk)
	}

	out := dto.JobResponse{
		ID:             p.ID,
		Title:          p.Title,
		Status:         string(p.Status),
		RequiredSkills: skills,
		PostedAt:       dto.FormatTimestamp(p.PostedAt),
	}
	if p.ApplicationDeadline != nil {
		out.ApplicationDeadline = dto.FormatTimestamp(*p.ApplicationDeadline)
	}
	return out
}

func (h *JobHandler) UpdateStatus(c fiber.Ctx) error {
	employerID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req updateJobStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	if err := h.uc.UpdateStatus(c.Context(), jobID, employerID, req.Status); err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func mapJobUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, response.MessageForbidden, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
