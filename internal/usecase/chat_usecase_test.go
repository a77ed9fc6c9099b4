package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"talentbridge/internal/domain/chat"
	"talentbridge/internal/domain/notification"
	"talentbridge/internal/repository"

	"github.com/google/uuid"
)

type mockConversationRepo struct {
	mu       sync.Mutex
	conv     chat.Conversation
	messages []chat.Message
	unread   map[uuid.UUID]int

	incrementCalls int
	resetCalls     int
	msgErr         error
}

func newMockConversationRepo(participants ...uuid.UUID) *mockConversationRepo {
	return &mockConversationRepo{
		conv: chat.Conversation{
			ID:           uuid.New(),
			Participants: participants,
			CreatedAt:    time.Now().UTC(),
			UpdatedAt:    time.Now().UTC(),
		},
		unread: map[uuid.UUID]int{},
	}
}

func (m *mockConversationRepo) FindByID(_ context.Context, id uuid.UUID) (chat.Conversation, error) {
	if id != m.conv.ID {
		return chat.Conversation{}, repository.ErrConversationNotFound
	}
	return m.conv, nil
}

func (m *mockConversationRepo) ListByParticipant(_ context.Context, userID uuid.UUID) ([]chat.Conversation, error) {
	if m.conv.HasParticipant(userID) {
		return []chat.Conversation{m.conv}, nil
	}
	return []chat.Conversation{}, nil
}

func (m *mockConversationRepo) CreateMessage(_ context.Context, msg chat.Message) (chat.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.msgErr != nil {
		return chat.Message{}, m.msgErr
	}
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now().UTC()
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *mockConversationRepo) ListMessages(_ context.Context, conversationID uuid.UUID, limit, offset int) ([]chat.Message, error) {
	return m.messages, nil
}

// IncrementUnread mirrors the single UPDATE the real store issues, so
// it must stay atomic under concurrent senders.
func (m *mockConversationRepo) IncrementUnread(_ context.Context, conversationID, senderID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incrementCalls++
	for _, p := range m.conv.Participants {
		if p != senderID {
			m.unread[p]++
		}
	}
	return nil
}

func (m *mockConversationRepo) ResetUnread(_ context.Context, conversationID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCalls++
	m.unread[userID] = 0
	return nil
}

func (m *mockConversationRepo) UnreadCount(_ context.Context, conversationID, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unread[userID], nil
}

func TestChat_SendMessage_BumpsCounterOnceAndBroadcasts(t *testing.T) {
	sender := uuid.New()
	peer := uuid.New()
	repo := newMockConversationRepo(sender, peer)
	gw := newMockGateway(sender, peer)

	uc := NewChatUsecase(repo, nil, gw, nil)

	msg, err := uc.SendMessage(context.Background(), repo.conv.ID, sender, "  hello  ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if msg.Body != "hello" {
		t.Fatalf("expected trimmed body, got %q", msg.Body)
	}

	if repo.incrementCalls != 1 {
		t.Fatalf("expected exactly one counter bump, got %d", repo.incrementCalls)
	}
	if repo.unread[peer] != 1 || repo.unread[sender] != 0 {
		t.Fatalf("counter must exclude the sender: %v", repo.unread)
	}

	broadcasts := gw.eventsNamed(EventMessageReceived)
	if len(broadcasts) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(broadcasts))
	}
	if broadcasts[0].Channel != conversationChannel(repo.conv.ID) {
		t.Fatalf("unexpected channel %q", broadcasts[0].Channel)
	}
}

func TestChat_SendMessage_ConcurrentSendsCountEveryMessage(t *testing.T) {
	sender := uuid.New()
	peerA := uuid.New()
	peerB := uuid.New()
	repo := newMockConversationRepo(sender, peerA, peerB)
	uc := NewChatUsecase(repo, nil, nil, nil)

	const n = 32

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := uc.SendMessage(context.Background(), repo.conv.ID, sender, "msg "+strconv.Itoa(i)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(repo.messages) != n {
		t.Fatalf("expected %d persisted messages, got %d", n, len(repo.messages))
	}
	if repo.unread[peerA] != n || repo.unread[peerB] != n {
		t.Fatalf("every non-sender counter must reach %d: %v", n, repo.unread)
	}
	if repo.unread[sender] != 0 {
		t.Fatalf("sender counter must stay 0, got %d", repo.unread[sender])
	}
}

func TestChat_SendMessage_Rejections(t *testing.T) {
	sender := uuid.New()
	peer := uuid.New()
	repo := newMockConversationRepo(sender, peer)
	uc := NewChatUsecase(repo, nil, nil, nil)

	if _, err := uc.SendMessage(context.Background(), repo.conv.ID, uuid.New(), "hi"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
	if _, err := uc.SendMessage(context.Background(), uuid.New(), sender, "hi"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
	if _, err := uc.SendMessage(context.Background(), repo.conv.ID, sender, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank body, got %v", err)
	}
	if len(repo.messages) != 0 || repo.incrementCalls != 0 {
		t.Fatalf("rejected sends must not touch the store")
	}
}

func TestChat_SendMessage_NotifiesOfflineParticipantsOnly(t *testing.T) {
	sender := uuid.New()
	online := uuid.New()
	offline := uuid.New()
	repo := newMockConversationRepo(sender, online, offline)
	gw := newMockGateway(sender, online)

	notifRepo := newMockNotificationRepo()
	dispatcher := NewNotificationDispatcher(notifRepo, nil, gw, nil, time.Minute, time.Minute)

	uc := NewChatUsecase(repo, dispatcher, gw, nil)

	if _, err := uc.SendMessage(context.Background(), repo.conv.ID, sender, "hello"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(notifRepo.store) != 1 {
		t.Fatalf("expected 1 offline notification, got %d", len(notifRepo.store))
	}
	for _, n := range notifRepo.store {
		if n.RecipientID != offline {
			t.Fatalf("notification went to %s, want offline participant %s", n.RecipientID, offline)
		}
		if n.Type != notification.TypeMessageReceived {
			t.Fatalf("unexpected type %s", n.Type)
		}
		if n.Related == nil || n.Related.Kind != "conversation" || n.Related.ID != repo.conv.ID {
			t.Fatalf("expected related conversation entity, got %+v", n.Related)
		}
	}
}

func TestChat_MarkConversationRead_IdempotentReset(t *testing.T) {
	sender := uuid.New()
	reader := uuid.New()
	repo := newMockConversationRepo(sender, reader)
	gw := newMockGateway(sender, reader)
	uc := NewChatUsecase(repo, nil, gw, nil)

	if _, err := uc.SendMessage(context.Background(), repo.conv.ID, sender, "one"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := uc.SendMessage(context.Background(), repo.conv.ID, sender, "two"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.unread[reader] != 2 {
		t.Fatalf("expected 2 unread, got %d", repo.unread[reader])
	}

	if err := uc.MarkConversationRead(context.Background(), repo.conv.ID, reader); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.unread[reader] != 0 {
		t.Fatalf("expected counter reset, got %d", repo.unread[reader])
	}

	// A second read is a no-op, not an error.
	if err := uc.MarkConversationRead(context.Background(), repo.conv.ID, reader); err != nil {
		t.Fatalf("repeated read must succeed: %v", err)
	}
	if repo.resetCalls != 2 {
		t.Fatalf("expected reset per call, got %d", repo.resetCalls)
	}

	if err := uc.MarkConversationRead(context.Background(), repo.conv.ID, uuid.New()); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}

	reads := gw.eventsNamed(EventConversationRead)
	if len(reads) != 2 {
		t.Fatalf("expected read receipts broadcast, got %d", len(reads))
	}
}

func TestChat_ListConversations_CarriesUnread(t *testing.T) {
	sender := uuid.New()
	reader := uuid.New()
	repo := newMockConversationRepo(sender, reader)
	uc := NewChatUsecase(repo, nil, nil, nil)

	if _, err := uc.SendMessage(context.Background(), repo.conv.ID, sender, "ping"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	views, err := uc.ListConversations(context.Background(), reader)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(views))
	}
	if views[0].Unread != 1 {
		t.Fatalf("expected unread 1, got %d", views[0].Unread)
	}

	if _, err := uc.ListConversations(context.Background(), uuid.Nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestConversationChannelID_RoundTrip(t *testing.T) {
	id := uuid.New()
	got, ok := ConversationChannelID(conversationChannel(id))
	if !ok || got != id {
		t.Fatalf("round trip failed: %v %v", got, ok)
	}

	if _, ok := ConversationChannelID("user:" + id.String()); ok {
		t.Fatal("expected rejection of foreign channel namespace")
	}
	if _, ok := ConversationChannelID("conversation:not-a-uuid"); ok {
		t.Fatal("expected rejection of malformed id")
	}
}

func TestChat_ListMessages_ParticipantOnly(t *testing.T) {
	sender := uuid.New()
	peer := uuid.New()
	repo := newMockConversationRepo(sender, peer)
	uc := NewChatUsecase(repo, nil, nil, nil)

	if _, err := uc.SendMessage(context.Background(), repo.conv.ID, sender, "hello"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	msgs, err := uc.ListMessages(context.Background(), repo.conv.ID, peer, 50, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}

	if _, err := uc.ListMessages(context.Background(), repo.conv.ID, uuid.New(), 50, 0); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}
