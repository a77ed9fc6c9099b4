package dto

import (
	"time"

	"github.com/google/uuid"
)

type CandidateResponse struct {
	StudentID         uuid.UUID `json:"student_id"`
	StudentName       string    `json:"student_name"`
	MatchPercentage   int       `json:"match_percentage"`
	MatchedAt         string    `json:"matched_at"`
	BestMatchJobID    uuid.UUID `json:"best_match_job_id"`
	BestMatchJobTitle string    `json:"best_match_job_title"`
}

type CandidateSummaryResponse struct {
	TotalConsidered int     `json:"total_considered"`
	MatchedCount    int     `json:"matched_count"`
	PotentialCount  int     `json:"potential_count"`
	AverageScore    float64 `json:"average_score"`
	NoActiveJobs    bool    `json:"no_active_jobs"`
}

type CandidatePageResponse struct {
	Items   []CandidateResponse      `json:"items"`
	Summary CandidateSummaryResponse `json:"summary"`
	Page    int                      `json:"page"`
	Limit   int                      `json:"limit"`
	Total   int                      `json:"total"`
}

func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
