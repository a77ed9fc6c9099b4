package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"talentbridge/internal/domain/chat"
	"talentbridge/internal/domain/notification"
	"talentbridge/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("not a conversation participant")
)

const (
	EventMessageReceived  = "message_received"
	EventConversationRead = "conversation_read"
)

type ConversationView struct {
	Conversation chat.Conversation `json:"conversation"`
	Unread       int               `json:"unread"`
}

type ChatUsecase interface {
	SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, body string) (chat.Message, error)
	ListMessages(ctx context.Context, conversationID, requestorID uuid.UUID, limit, offset int) ([]chat.Message, error)
	ListConversations(ctx context.Context, requestorID uuid.UUID) ([]ConversationView, error)
	MarkConversationRead(ctx context.Context, conversationID, requestorID uuid.UUID) error
}

type Chat struct {
	conversations repository.ConversationRepository
	notifications NotificationUsecase
	gateway       Gateway
	logger        *log.Logger
}

func NewChatUsecase(
	conversations repository.ConversationRepository,
	notifications NotificationUsecase,
	gateway Gateway,
	logger *log.Logger,
) *Chat {
	return &Chat{
		conversations: conversations,
		notifications: notifications,
		gateway:       gateway,
		logger:        logger,
	}
}

func (u *Chat) SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, body string) (chat.Message, error) {
	if senderID == uuid.Nil {
		return chat.Message{}, ErrUnauthorized
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return chat.Message{}, ErrInvalidInput
	}

	conv, err := u.conversations.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return chat.Message{}, ErrConversationNotFound
		}
		return chat.Message{}, ErrInternal
	}
	if !conv.HasParticipant(senderID) {
		return chat.Message{}, ErrNotParticipant
	}

	msg, err := u.conversations.CreateMessage(ctx, chat.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
	})
	if err != nil {
		return chat.Message{}, ErrInternal
	}

	// The counter bump happens in the store, in one statement, so two
	// near-simultaneous messages never lose an update.
	if err := u.conversations.IncrementUnread(ctx, conversationID, senderID); err != nil {
		return chat.Message{}, ErrInternal
	}

	if u.gateway != nil {
		u.gateway.EmitToChannel(conversationChannel(conversationID), EventMessageReceived, msg)
	}
	u.notifyOfflineParticipants(ctx, conv, msg)

	return msg, nil
}

func (u *Chat) ListMessages(ctx context.Context, conversationID, requestorID uuid.UUID, limit, offset int) ([]chat.Message, error) {
	conv, err := u.conversations.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, ErrInternal
	}
	if !conv.HasParticipant(requestorID) {
		return nil, ErrNotParticipant
	}

	msgs, err := u.conversations.ListMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, ErrInternal
	}
	return msgs, nil
}

func (u *Chat) ListConversations(ctx context.Context, requestorID uuid.UUID) ([]ConversationView, error) {
	if requestorID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	convs, err := u.conversations.ListByParticipant(ctx, requestorID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		unread, err := u.conversations.UnreadCount(ctx, c.ID, requestorID)
		if err != nil && !errors.Is(err, repository.ErrConversationNotFound) {
			return nil, ErrInternal
		}
		out = append(out, ConversationView{Conversation: c, Unread: unread})
	}
	return out, nil
}

func (u *Chat) MarkConversationRead(ctx context.Context, conversationID, requestorID uuid.UUID) error {
	conv, err := u.conversations.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return ErrConversationNotFound
		}
		return ErrInternal
	}
	if !conv.HasParticipant(requestorID) {
		return ErrNotParticipant
	}

	if err := u.conversations.ResetUnread(ctx, conversationID, requestorID); err != nil {
		return ErrInternal
	}

	if u.gateway != nil {
		u.gateway.EmitToChannel(conversationChannel(conversationID), EventConversationRead, map[string]string{
			"conversation_id": conversationID.String(),
			"user_id":         requestorID.String(),
		})
	}
	return nil
}

// notifyOfflineParticipants creates a message_received notification for
// everyone who will not see the realtime push. Failures only log; the send
// already succeeded.
func (u *Chat) notifyOfflineParticipants(ctx context.Context, conv chat.Conversation, msg chat.Message) {
	if u.notifications == nil {
		return
	}
	for _, p := range conv.Participants {
		if p == msg.SenderID {
			continue
		}
		if u.gateway != nil && u.gateway.IsUserConnected(p) {
			continue
		}
		_, err := u.notifications.Create(ctx, CreateNotificationInput{
			RecipientID: p,
			Type:        notification.TypeMessageReceived,
			Title:       "New message",
			Message:     msg.Body,
			Priority:    notification.PriorityNormal,
			Related:     &notification.RelatedEntity{Kind: "conversation", ID: conv.ID},
		})
		if err != nil && u.logger != nil {
			u.logger.Printf("[Chat] Offline notification error (ignored): %v", err)
		}
	}
}

const conversationChannelPrefix = "conversation:"

func conversationChannel(conversationID uuid.UUID) string {
	return conversationChannelPrefix + conversationID.String()
}

// ConversationChannelID parses a conversation channel name back to its id.
func ConversationChannelID(channel string) (uuid.UUID, bool) {
	raw, ok := strings.CutPrefix(channel, conversationChannelPrefix)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
