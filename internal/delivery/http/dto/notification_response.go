package dto

import (
	"github.com/google/uuid"
)

type RelatedEntityResponse struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

type NotificationResponse struct {
	ID          uuid.UUID              `json:"id"`
	RecipientID uuid.UUID              `json:"recipient_id"`
	Type        string                 `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Priority    string                 `json:"priority"`
	State       string                 `json:"state"`
	Related     *RelatedEntityResponse `json:"related_entity,omitempty"`
	CreatedAt   string                 `json:"created_at"`
	ReadAt      string                 `json:"read_at,omitempty"`
}

type NotificationCountResponse struct {
	Total  int            `json:"total"`
	Unread int            `json:"unread"`
	ByType map[string]int `json:"by_type"`
	Recent int            `json:"recent"`
}
