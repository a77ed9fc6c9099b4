package chat

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID           uuid.UUID
	Participants []uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Body           string
	CreatedAt      time.Time
}
