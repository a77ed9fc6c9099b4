package dto

import (
	"github.com/google/uuid"
)

type JobSkillResponse struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

type JobResponse struct {
	ID                  uuid.UUID          `json:"id"`
	Title               string             `json:"title"`
	Status              string             `json:"status"`
	RequiredSkills      []JobSkillResponse `json:"required_skills"`
	ApplicationDeadline string             `json:"application_deadline,omitempty"`
	PostedAt            string             `json:"posted_at"`
}
