package seeder

import (
	"context"
	"time"

	"talentbridge/internal/database"

	"github.com/google/uuid"
)

var DemoConversationID = uuid.MustParse("7f3c2a10-0000-4000-8000-000000000401")

type DemoConversationsSeeder struct{}

func (DemoConversationsSeeder) Name() string { return "demo_conversations" }

func (DemoConversationsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := ensureTableColumns(ctx, db, "conversations", "id", "created_at", "updated_at"); err != nil {
		return err
	}
	if err := ensureTableColumns(ctx, db, "conversation_participants",
		"conversation_id", "user_id", "unread", "joined_at",
	); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx,
		`INSERT INTO conversations (id, created_at, updated_at)
		 VALUES ($1, $2, $2)
		 ON CONFLICT (id) DO NOTHING`,
		DemoConversationID, now,
	); err != nil {
		return err
	}

	participants := []uuid.UUID{DemoEmployerID, DemoStudentUserIDs[0]}
	for _, p := range participants {
		if _, err := tx.Exec(ctx,
			`INSERT INTO conversation_participants (conversation_id, user_id, unread, joined_at)
			 VALUES ($1, $2, 0, $3)
			 ON CONFLICT (conversation_id, user_id) DO NOTHING`,
			DemoConversationID, p, now,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
