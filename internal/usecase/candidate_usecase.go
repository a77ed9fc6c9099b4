package usecase

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"talentbridge/internal/config"
	"talentbridge/internal/domain/job"
	"talentbridge/internal/domain/matching"
	"talentbridge/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidMatchRange = errors.New("invalid match range")
)

const (
	SortByMatchPercentage = "match_percentage"
	SortByMatchedAt       = "matched_at"

	candidateLimitDefault = 20
	candidateLimitMax     = 100
)

type CandidateParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string

	// MinMatch/MaxMatch only apply to the potential bucket; nil picks the
	// configured defaults.
	MinMatch *int
	MaxMatch *int
}

type CandidateItem struct {
	StudentID         uuid.UUID `json:"student_id"`
	StudentName       string    `json:"student_name"`
	MatchPercentage   int       `json:"match_percentage"`
	MatchedAt         time.Time `json:"matched_at"`
	BestMatchJobID    uuid.UUID `json:"best_match_job_id"`
	BestMatchJobTitle string    `json:"best_match_job_title"`
}

type CandidateSummary struct {
	TotalConsidered int     `json:"total_considered"`
	MatchedCount    int     `json:"matched_count"`
	PotentialCount  int     `json:"potential_count"`
	AverageScore    float64 `json:"average_score"`
	NoActiveJobs    bool    `json:"no_active_jobs"`
}

type CandidatePage struct {
	Items   []CandidateItem  `json:"items"`
	Summary CandidateSummary `json:"summary"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
	Total   int              `json:"total"`
}

type CandidateUsecase interface {
	MatchedCandidates(ctx context.Context, employerID uuid.UUID, params CandidateParams) (CandidatePage, error)
	PotentialCandidates(ctx context.Context, employerID uuid.UUID, params CandidateParams) (CandidatePage, error)
}

type CandidateAggregator struct {
	jobs     repository.JobRepository
	students repository.StudentRepository
	strategy matching.Strategy
	cache    Cache
	logger   *log.Logger

	matchCfg config.MatchingConfig
	cacheTTL time.Duration
}

func NewCandidateAggregator(
	jobs repository.JobRepository,
	students repository.StudentRepository,
	strategy matching.Strategy,
	cache Cache,
	logger *log.Logger,
	matchCfg config.MatchingConfig,
	cacheTTL time.Duration,
) *CandidateAggregator {
	if strategy == nil {
		strategy = matching.ExactMatch{}
	}
	return &CandidateAggregator{
		jobs:     jobs,
		students: students,
		strategy: strategy,
		cache:    cache,
		logger:   logger,
		matchCfg: matchCfg,
		cacheTTL: cacheTTL,
	}
}

func (u *CandidateAggregator) MatchedCandidates(ctx context.Context, employerID uuid.UUID, params CandidateParams) (CandidatePage, error) {
	if employerID == uuid.Nil {
		return CandidatePage{}, ErrUnauthorized
	}
	params = normalizeCandidateParams(params)

	threshold := u.matchCfg.MatchedThreshold
	return u.aggregate(ctx, "matched", employerID, params, threshold, 100, threshold, threshold)
}

func (u *CandidateAggregator) PotentialCandidates(ctx context.Context, employerID uuid.UUID, params CandidateParams) (CandidatePage, error) {
	if employerID == uuid.Nil {
		return CandidatePage{}, ErrUnauthorized
	}

	minMatch := u.matchCfg.PotentialMinDefault
	if params.MinMatch != nil {
		minMatch = *params.MinMatch
	}
	maxMatch := u.matchCfg.PotentialMaxDefault
	if params.MaxMatch != nil {
		maxMatch = *params.MaxMatch
	}

	// Range violations are hard errors and must be rejected before any
	// store access.
	if minMatch < 0 || maxMatch > 100 || minMatch > maxMatch {
		return CandidatePage{}, ErrInvalidMatchRange
	}

	params = normalizeCandidateParams(params)
	return u.aggregate(ctx, "potential", employerID, params, minMatch, maxMatch, minMatch, maxMatch)
}

func (u *CandidateAggregator) aggregate(ctx context.Context, mode string, employerID uuid.UUID, params CandidateParams, bucketMin, bucketMax, cacheMin, cacheMax int) (CandidatePage, error) {
	cacheKey := candidateCacheKey(mode, employerID, params, cacheMin, cacheMax)
	if u.cache != nil {
		var cached CandidatePage
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit {
			if u.logger != nil {
				u.logger.Printf("[Candidates] Cache HIT: %s", cacheKey)
			}
			return cached, nil
		}
		if err != nil && u.logger != nil {
			u.logger.Printf("[Candidates] Cache read error (ignored): %v", err)
		}
	}

	jobs, err := u.jobs.ListActiveByEmployer(ctx, employerID)
	if err != nil {
		return CandidatePage{}, ErrInternal
	}
	if len(jobs) == 0 {
		return CandidatePage{
			Items:   []CandidateItem{},
			Summary: CandidateSummary{NoActiveJobs: true},
			Page:    params.Page,
			Limit:   params.Limit,
		}, nil
	}

	students, err := u.students.ListWithSkills(ctx)
	if err != nil {
		return CandidatePage{}, ErrInternal
	}

	best := make([]CandidateItem, 0, len(students))
	summary := CandidateSummary{}
	var scoreSum int

	for _, s := range students {
		item, ok := u.bestPair(s, jobs)
		if !ok {
			continue
		}
		best = append(best, item)
		scoreSum += item.MatchPercentage

		if item.MatchPercentage >= u.matchCfg.MatchedThreshold {
			summary.MatchedCount++
		} else if item.MatchPercentage >= u.matchCfg.PotentialMinDefault && item.MatchPercentage <= u.matchCfg.PotentialMaxDefault {
			summary.PotentialCount++
		}
	}

	summary.TotalConsidered = len(best)
	if len(best) > 0 {
		summary.AverageScore = float64(scoreSum) / float64(len(best))
	}

	bucket := best[:0:0]
	for _, item := range best {
		if item.MatchPercentage >= bucketMin && item.MatchPercentage <= bucketMax {
			bucket = append(bucket, item)
		}
	}

	sortCandidates(bucket, params.SortBy, params.SortOrder)

	page := CandidatePage{
		Items:   paginateCandidates(bucket, params.Page, params.Limit),
		Summary: summary,
		Page:    params.Page,
		Limit:   params.Limit,
		Total:   len(bucket),
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cacheKey, page, u.cacheTTL); err != nil && u.logger != nil {
			u.logger.Printf("[Candidates] Cache write error (ignored): %v", err)
		}
	}
	return page, nil
}

// bestPair keeps the single highest-scoring (job, score) pair per student.
// Ties go to the most recently posted job, then to the lower job id so the
// result is deterministic.
func (u *CandidateAggregator) bestPair(s repository.Student, jobs []job.Posting) (CandidateItem, bool) {
	studentSet := s.SkillSet()

	var bestItem CandidateItem
	found := false
	for _, j := range jobs {
		if !j.IsActive() {
			continue
		}

		score := u.strategy.Score(studentSet, j.RequiredSkillSet())
		candidate := CandidateItem{
			StudentID:         s.ID,
			StudentName:       s.Name,
			MatchPercentage:   score,
			MatchedAt:         j.PostedAt,
			BestMatchJobID:    j.ID,
			BestMatchJobTitle: j.Title,
		}

		if !found || betterPair(candidate, bestItem) {
			bestItem = candidate
			found = true
		}
	}
	return bestItem, found
}

func betterPair(a, b CandidateItem) bool {
	if a.MatchPercentage != b.MatchPercentage {
		return a.MatchPercentage > b.MatchPercentage
	}
	if !a.MatchedAt.Equal(b.MatchedAt) {
		return a.MatchedAt.After(b.MatchedAt)
	}
	return bytes.Compare(a.BestMatchJobID[:], b.BestMatchJobID[:]) < 0
}

func normalizeCandidateParams(p CandidateParams) CandidateParams {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 || p.Limit > candidateLimitMax {
		p.Limit = candidateLimitDefault
	}

	switch normalizeCacheValue(p.SortBy) {
	case SortByMatchedAt:
		p.SortBy = SortByMatchedAt
	default:
		p.SortBy = SortByMatchPercentage
	}

	switch normalizeCacheValue(p.SortOrder) {
	case "asc":
		p.SortOrder = "asc"
	default:
		p.SortOrder = "desc"
	}
	return p
}

func sortCandidates(items []CandidateItem, sortBy, sortOrder string) {
	asc := sortOrder == "asc"

	cmp := func(a, b CandidateItem) int {
		switch sortBy {
		case SortByMatchedAt:
			if !a.MatchedAt.Equal(b.MatchedAt) {
				if a.MatchedAt.Before(b.MatchedAt) {
					return -1
				}
				return 1
			}
			return a.MatchPercentage - b.MatchPercentage
		default:
			if a.MatchPercentage != b.MatchPercentage {
				return a.MatchPercentage - b.MatchPercentage
			}
			if a.MatchedAt.Before(b.MatchedAt) {
				return -1
			}
			if a.MatchedAt.After(b.MatchedAt) {
				return 1
			}
			return 0
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(items[i], items[j])
		if asc {
			return c < 0
		}
		return c > 0
	})
}

// paginateCandidates slices a stable page out of the full bucket. Pages past
// the end yield an empty list, never an error.
func paginateCandidates(items []CandidateItem, page, limit int) []CandidateItem {
	start := (page - 1) * limit
	if start >= len(items) {
		return []CandidateItem{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	out := make([]CandidateItem, end-start)
	copy(out, items[start:end])
	return out
}
