package job

import (
	"strings"
	"time"

	"talentbridge/internal/domain/matching"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusClosed  Status = "closed"
	StatusExpired Status = "expired"
	StatusDraft   Status = "draft"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, true
	case StatusClosed:
		return StatusClosed, true
	case StatusExpired:
		return StatusExpired, true
	case StatusDraft:
		return StatusDraft, true
	default:
		return "", false
	}
}

// Posting is an employer's job ad. Only active postings participate in
// candidate matching.
type Posting struct {
	ID                  uuid.UUID
	EmployerID          uuid.UUID
	Title               string
	Status              Status
	RequiredSkills      []matching.Skill
	ApplicationDeadline *time.Time
	PostedAt            time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (p Posting) IsActive() bool {
	return p.Status == StatusActive
}

// RequiredSkillSet builds the deduplicated, normalized set the matcher
// consumes.
func (p Posting) RequiredSkillSet() matching.SkillSet {
	return matching.NewSkillSet(p.RequiredSkills...)
}
