package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"talentbridge/internal/database"
	"talentbridge/internal/domain/notification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// NotificationCounts is the aggregate behind the unread badge. Recent counts
// creations inside the rolling window passed to Counts.
type NotificationCounts struct {
	Total  int
	Unread int
	ByType map[notification.Type]int
	Recent int
}

type NotificationRepository interface {
	Create(ctx context.Context, n notification.Notification) (notification.Notification, error)
	FindByID(ctx context.Context, id uuid.UUID) (notification.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]notification.Notification, error)
	UpdateState(ctx context.Context, id, recipientID uuid.UUID, state notification.State) (notification.Notification, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, recipientID uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID, recipientID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
	Counts(ctx context.Context, recipientID uuid.UUID, recentWindow time.Duration) (NotificationCounts, error)
}

type PostgresNotificationRepository struct {
	db database.DB
}

func NewPostgresNotificationRepository(db database.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.State == "" {
		n.State = notification.StateUnread
	}
	if n.Priority == "" {
		n.Priority = notification.PriorityNormal
	}

	var relatedKind *string
	var relatedID *uuid.UUID
	if n.Related != nil {
		relatedKind = &n.Related.Kind
		relatedID = &n.Related.ID
	}

	// created_at comes from the database clock so per-recipient ordering
	// follows a single monotonic source.
	row := r.db.QueryRow(ctx,
		`INSERT INTO notifications (id, recipient_id, type, title, message, priority, state, related_kind, related_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		 RETURNING created_at`,
		n.ID, n.RecipientID, n.Type, n.Title, n.Message, n.Priority, n.State, relatedKind, relatedID,
	)
	if err := row.Scan(&n.CreatedAt); err != nil {
		return notification.Notification{}, err
	}
	return n, nil
}

func (r *PostgresNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (notification.Notification, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, recipient_id, type, COALESCE(title, ''), COALESCE(message, ''), priority, state, related_kind, related_id, created_at, read_at
		 FROM notifications
		 WHERE id = $1`,
		id,
	)
	n, err := scanNotification(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return notification.Notification{}, ErrNotificationNotFound
		}
		return notification.Notification{}, err
	}
	return n, nil
}

func (r *PostgresNotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]notification.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, recipient_id, type, COALESCE(title, ''), COALESCE(message, ''), priority, state, related_kind, related_id, created_at, read_at
		 FROM notifications
		 WHERE recipient_id = $1 AND state <> $2
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		recipientID, notification.StateDismissed, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notification.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateState enforces ownership and the legal transitions in one statement:
// missing rows, foreign rows and illegal transitions all surface as NotFound.
func (r *PostgresNotificationRepository) UpdateState(ctx context.Context, id, recipientID uuid.UUID, state notification.State) (notification.Notification, error) {
	var readAt any
	switch state {
	case notification.StateRead:
		readAt = time.Now().UTC()
	default:
		readAt = nil
	}

	row := r.db.QueryRow(ctx,
		`UPDATE notifications
		 SET state = $1, read_at = COALESCE($2, read_at)
		 WHERE id = $3 AND recipient_id = $4 AND state <> $5
		 RETURNING id, recipient_id, type, COALESCE(title, ''), COALESCE(message, ''), priority, state, related_kind, related_id, created_at, read_at`,
		state, readAt, id, recipientID, notification.StateDismissed,
	)
	n, err := scanNotification(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return notification.Notification{}, ErrNotificationNotFound
		}
		return notification.Notification{}, err
	}
	return n, nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE notifications
		 SET state = $1, read_at = NOW()
		 WHERE recipient_id = $2 AND state = $3`,
		notification.StateRead, recipientID, notification.StateUnread,
	)
}

func (r *PostgresNotificationRepository) Delete(ctx context.Context, id, recipientID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`,
		id, recipientID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) DeleteMany(ctx context.Context, ids []uuid.UUID, recipientID uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.db.Exec(ctx,
		`DELETE FROM notifications WHERE id = ANY($1) AND recipient_id = $2`,
		ids, recipientID,
	)
}

func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND state = $2`,
		recipientID, notification.StateUnread,
	)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresNotificationRepository) Counts(ctx context.Context, recipientID uuid.UUID, recentWindow time.Duration) (NotificationCounts, error) {
	counts := NotificationCounts{ByType: make(map[notification.Type]int)}

	since := time.Now().UTC().Add(-recentWindow)
	row := r.db.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE state = $2),
			COUNT(*) FILTER (WHERE created_at >= $3)
		 FROM notifications
		 WHERE recipient_id = $1`,
		recipientID, notification.StateUnread, since,
	)
	if err := row.Scan(&counts.Total, &counts.Unread, &counts.Recent); err != nil {
		return NotificationCounts{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT type, COUNT(*) FROM notifications WHERE recipient_id = $1 GROUP BY type`,
		recipientID,
	)
	if err != nil {
		return NotificationCounts{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var t string
		var c int
		if err := rows.Scan(&t, &c); err != nil {
			return NotificationCounts{}, err
		}
		counts.ByType[notification.Type(t)] = c
	}
	if err := rows.Err(); err != nil {
		return NotificationCounts{}, err
	}
	return counts, nil
}

func scanNotification(row database.Row) (notification.Notification, error) {
	var n notification.Notification
	var typ, priority, state string
	var relatedKind *string
	var relatedID *uuid.UUID

	if err := row.Scan(&n.ID, &n.RecipientID, &typ, &n.Title, &n.Message, &priority, &state, &relatedKind, &relatedID, &n.CreatedAt, &n.ReadAt); err != nil {
		return notification.Notification{}, err
	}

	n.Type = notification.Type(typ)
	n.Priority = notification.Priority(priority)
	n.State = notification.State(state)
	if relatedKind != nil && relatedID != nil {
		n.Related = &notification.RelatedEntity{Kind: *relatedKind, ID: *relatedID}
	}
	return n, nil
}
