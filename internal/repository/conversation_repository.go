package repository

import (
	"context"
	"database/sql"
	"errors"

	"talentbridge/internal/database"
	"talentbridge/internal/domain/chat"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
)

type ConversationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (chat.Conversation, error)
	ListByParticipant(ctx context.Context, userID uuid.UUID) ([]chat.Conversation, error)
	CreateMessage(ctx context.Context, m chat.Message) (chat.Message, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]chat.Message, error)

	// IncrementUnread bumps the counter of every participant except the
	// sender in a single statement; the database, not the application,
	// performs the read-modify-write.
	IncrementUnread(ctx context.Context, conversationID, senderID uuid.UUID) error
	ResetUnread(ctx context.Context, conversationID, userID uuid.UUID) error
	UnreadCount(ctx context.Context, conversationID, userID uuid.UUID) (int, error)
}

type PostgresConversationRepository struct {
	db database.DB
}

func NewPostgresConversationRepository(db database.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

func (r *PostgresConversationRepository) FindByID(ctx context.Context, id uuid.UUID) (chat.Conversation, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, created_at, updated_at FROM conversations WHERE id = $1`,
		id,
	)

	var c chat.Conversation
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return chat.Conversation{}, ErrConversationNotFound
		}
		return chat.Conversation{}, err
	}

	participants, err := r.participants(ctx, id)
	if err != nil {
		return chat.Conversation{}, err
	}
	c.Participants = participants
	return c, nil
}

func (r *PostgresConversationRepository) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]chat.Conversation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.created_at, c.updated_at
		 FROM conversations c
		 JOIN conversation_participants p ON p.conversation_id = c.id
		 WHERE p.user_id = $1
		 ORDER BY c.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]chat.Conversation, 0)
	for rows.Next() {
		var c chat.Conversation
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		participants, err := r.participants(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Participants = participants
	}
	return out, nil
}

func (r *PostgresConversationRepository) participants(ctx context.Context, conversationID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM conversation_participants WHERE conversation_id = $1 ORDER BY user_id`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresConversationRepository) CreateMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, body, created_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING created_at`,
		m.ID, m.ConversationID, m.SenderID, m.Body,
	)
	if err := row.Scan(&m.CreatedAt); err != nil {
		return chat.Message{}, err
	}

	_, err := r.db.Exec(ctx,
		`UPDATE conversations SET updated_at = NOW() WHERE id = $1`,
		m.ConversationID,
	)
	if err != nil {
		return chat.Message{}, err
	}
	return m, nil
}

func (r *PostgresConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, conversation_id, sender_id, COALESCE(body, ''), created_at
		 FROM messages
		 WHERE conversation_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		conversationID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]chat.Message, 0)
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresConversationRepository) IncrementUnread(ctx context.Context, conversationID, senderID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE conversation_participants
		 SET unread = unread + 1
		 WHERE conversation_id = $1 AND user_id <> $2`,
		conversationID, senderID,
	)
	return err
}

// ResetUnread is idempotent: resetting an already-zero counter touches no
// rows and is not an error.
func (r *PostgresConversationRepository) ResetUnread(ctx context.Context, conversationID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE conversation_participants
		 SET unread = 0
		 WHERE conversation_id = $1 AND user_id = $2 AND unread <> 0`,
		conversationID, userID,
	)
	return err
}

func (r *PostgresConversationRepository) UnreadCount(ctx context.Context, conversationID, userID uuid.UUID) (int, error) {
	var count int
	row := r.db.QueryRow(ctx,
		`SELECT COALESCE(unread, 0)
		 FROM conversation_participants
		 WHERE conversation_id = $1 AND user_id = $2`,
		conversationID, userID,
	)
	if err := row.Scan(&count); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrConversationNotFound
		}
		return 0, err
	}
	return count, nil
}
