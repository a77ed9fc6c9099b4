package handler

import (
	"errors"
	"strconv"

	"talentbridge/internal/delivery/http/dto"
	"talentbridge/internal/delivery/http/middleware"
	"talentbridge/internal/pkg/response"
	"talentbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CandidateHandler struct {
	uc usecase.CandidateUsecase
}

func NewCandidateHandler(uc usecase.CandidateUsecase) *CandidateHandler {
	return &CandidateHandler{uc: uc}
}

func (h *CandidateHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/matched", h.Matched)
	r.Get("/potential", h.Potential)
}

func (h *CandidateHandler) Matched(c fiber.Ctx) error {
	employerID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	params, err := candidateParamsFromQuery(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	page, err := h.uc.MatchedCandidates(c.Context(), employerID, params)
	if err != nil {
		return mapCandidateUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, candidatePageResponse(page))
}

func (h *CandidateHandler) Potential(c fiber.Ctx) error {
	employerID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	params, err := candidateParamsFromQuery(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	page, err := h.uc.PotentialCandidates(c.Context(), employerID, params)
	if err != nil {
		return mapCandidateUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, candidatePageResponse(page))
}

func candidateParamsFromQuery(c fiber.Ctx) (usecase.CandidateParams, error) {
	var params usecase.CandidateParams
	var err error

	params.Page, err = parseQueryInt(c, "page", 1)
	if err != nil {
		return params, err
	}
	params.Limit, err = parseQueryInt(c, "limit", 0)
	if err != nil {
		return params, err
	}
	params.SortBy = c.Query("sort_by")
	params.SortOrder = c.Query("sort_order")

	params.MinMatch, err = parseQueryIntPtr(c, "min_match")
	if err != nil {
		return params, err
	}
	params.MaxMatch, err = parseQueryIntPtr(c, "max_match")
	if err != nil {
		return params, err
	}

	return params, nil
}

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}

func parseQueryIntPtr(c fiber.Ctx, key string) (*int, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func candidatePageResponse(page usecase.CandidatePage) dto.CandidatePageResponse {
	items := make([]dto.CandidateResponse, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, dto.CandidateResponse{
			StudentID:         it.StudentID,
			StudentName:       it.StudentName,
			MatchPercentage:   it.MatchPercentage,
			MatchedAt:         dto.FormatTimestamp(it.MatchedAt),
			BestMatchJobID:    it.BestMatchJobID,
			BestMatchJobTitle: it.BestMatchJobTitle,
		})
	}

	return dto.CandidatePageResponse{
		Items: items,
		Summary: dto.CandidateSummaryResponse{
			TotalConsidered: page.Summary.TotalConsidered,
			MatchedCount:    page.Summary.MatchedCount,
			PotentialCount:  page.Summary.PotentialCount,
			AverageScore:    page.Summary.AverageScore,
			NoActiveJobs:    page.Summary.NoActiveJobs,
		},
		Page:  page.Page,
		Limit: page.Limit,
		Total: page.Total,
	}
}

func mapCandidateUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidMatchRange):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid match range", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
