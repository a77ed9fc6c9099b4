package usecase

import "github.com/google/uuid"

// Gateway is the realtime push transport. Pushes are fire-and-forget: a
// disconnected recipient is not an error, and the REST read path is the
// recovery mechanism.
type Gateway interface {
	EmitToUser(userID uuid.UUID, event string, payload any)
	EmitToChannel(channelID string, event string, payload any)
	IsUserConnected(userID uuid.UUID) bool
}
