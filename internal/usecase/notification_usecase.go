package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"talentbridge/internal/domain/notification"
	"talentbridge/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrEmptyBatch           = errors.New("empty batch")
)

const (
	EventNotificationCreated = "notification_created"
	EventUnreadCount         = "unread_count"

	recentNotificationWindow = 24 * time.Hour
)

type CreateNotificationInput struct {
	RecipientID uuid.UUID
	Type        notification.Type
	Title       string
	Message     string
	Priority    notification.Priority
	Related     *notification.RelatedEntity
}

type BulkCreateEntry struct {
	Index          int       `json:"index"`
	NotificationID uuid.UUID `json:"notification_id,omitempty"`
	Error          string    `json:"error,omitempty"`
}

type BulkCreateReport struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Entries   []BulkCreateEntry `json:"entries"`
}

type BulkDeleteReport struct {
	DeletedCount int64 `json:"deleted_count"`
	SkippedCount int   `json:"skipped_count"`
}

type NotificationCountResult struct {
	Total  int                       `json:"total"`
	Unread int                       `json:"unread"`
	ByType map[notification.Type]int `json:"by_type"`
	Recent int                       `json:"recent"`
}

type NotificationUsecase interface {
	Create(ctx context.Context, in CreateNotificationInput) (notification.Notification, error)
	BulkCreate(ctx context.Context, in []CreateNotificationInput) (BulkCreateReport, error)
	List(ctx context.Context, requestorID uuid.UUID, limit, offset int) ([]notification.Notification, error)
	MarkRead(ctx context.Context, notificationID, requestorID uuid.UUID) (notification.Notification, error)
	Dismiss(ctx context.Context, notificationID, requestorID uuid.UUID) (notification.Notification, error)
	MarkAllRead(ctx context.Context, requestorID uuid.UUID) (int64, error)
	Delete(ctx context.Context, notificationID, requestorID uuid.UUID) error
	BulkDelete(ctx context.Context, ids []uuid.UUID, requestorID uuid.UUID) (BulkDeleteReport, error)
	GetCount(ctx context.Context, requestorID uuid.UUID) (NotificationCountResult, error)
}

// NotificationDispatcher persists notifications and, for connected
// recipients, pushes them over the realtime gateway. Gateway failures never
// fail the originating write.
type NotificationDispatcher struct {
	repo    repository.NotificationRepository
	cache   Cache
	gateway Gateway
	logger  *log.Logger

	countTTL time.Duration
	listTTL  time.Duration
}

func NewNotificationDispatcher(
	repo repository.NotificationRepository,
	cache Cache,
	gateway Gateway,
	logger *log.Logger,
	countTTL time.Duration,
	listTTL time.Duration,
) *NotificationDispatcher {
	return &NotificationDispatcher{
		repo:     repo,
		cache:    cache,
		gateway:  gateway,
		logger:   logger,
		countTTL: countTTL,
		listTTL:  listTTL,
	}
}

func (u *NotificationDispatcher) Create(ctx context.Context, in CreateNotificationInput) (notification.Notification, error) {
	if err := validateCreateInput(in); err != nil {
		return notification.Notification{}, err
	}

	created, err := u.repo.Create(ctx, notification.Notification{
		RecipientID: in.RecipientID,
		Type:        in.Type,
		Title:       in.Title,
		Message:     in.Message,
		Priority:    in.Priority,
		State:       notification.StateUnread,
		Related:     in.Related,
	})
	if err != nil {
		return notification.Notification{}, ErrInternal
	}

	// Invalidate before responding so a caller re-reading immediately after
	// the ack never sees the stale cached count.
	u.invalidateFor(ctx, in.RecipientID)
	u.pushCreated(ctx, created)

	return created, nil
}

func (u *NotificationDispatcher) BulkCreate(ctx context.Context, in []CreateNotificationInput) (BulkCreateReport, error) {
	if len(in) == 0 {
		return BulkCreateReport{}, ErrEmptyBatch
	}

	report := BulkCreateReport{Entries: make([]BulkCreateEntry, 0, len(in))}
	for i, entry := range in {
		created, err := u.Create(ctx, entry)
		if err != nil {
			report.Failed++
			report.Entries = append(report.Entries, BulkCreateEntry{Index: i, Error: err.Error()})
			continue
		}
		report.Succeeded++
		report.Entries = append(report.Entries, BulkCreateEntry{Index: i, NotificationID: created.ID})
	}
	return report, nil
}

func (u *NotificationDispatcher) List(ctx context.Context, requestorID uuid.UUID, limit, offset int) ([]notification.Notification, error) {
	if requestorID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	key := notificationListKey(requestorID, limit, offset)
	if u.cache != nil {
		var cached []notification.Notification
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			return cached, nil
		}
		if err != nil && u.logger != nil {
			u.logger.Printf("[Dispatch] List cache read error (ignored): %v", err)
		}
	}

	items, err := u.repo.ListByRecipient(ctx, requestorID, limit, offset)
	if err != nil {
		return nil, ErrInternal
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, items, u.listTTL); err != nil && u.logger != nil {
			u.logger.Printf("[Dispatch] List cache write error (ignored): %v", err)
		}
	}
	return items, nil
}

func (u *NotificationDispatcher) MarkRead(ctx context.Context, notificationID, requestorID uuid.UUID) (notification.Notification, error) {
	return u.transition(ctx, notificationID, requestorID, notification.StateRead)
}

func (u *NotificationDispatcher) Dismiss(ctx context.Context, notificationID, requestorID uuid.UUID) (notification.Notification, error) {
	return u.transition(ctx, notificationID, requestorID, notification.StateDismissed)
}

func (u *NotificationDispatcher) transition(ctx context.Context, notificationID, requestorID uuid.UUID, state notification.State) (notification.Notification, error) {
	if requestorID == uuid.Nil || notificationID == uuid.Nil {
		return notification.Notification{}, ErrNotificationNotFound
	}

	updated, err := u.repo.UpdateState(ctx, notificationID, requestorID, state)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return notification.Notification{}, ErrNotificationNotFound
		}
		return notification.Notification{}, ErrInternal
	}

	u.invalidateFor(ctx, requestorID)
	u.emitUnreadCount(ctx, requestorID)
	return updated, nil
}

func (u *NotificationDispatcher) MarkAllRead(ctx context.Context, requestorID uuid.UUID) (int64, error) {
	if requestorID == uuid.Nil {
		return 0, ErrUnauthorized
	}

	affected, err := u.repo.MarkAllRead(ctx, requestorID)
	if err != nil {
		return 0, ErrInternal
	}

	u.invalidateFor(ctx, requestorID)
	u.emitUnreadCount(ctx, requestorID)
	return affected, nil
}

func (u *NotificationDispatcher) Delete(ctx context.Context, notificationID, requestorID uuid.UUID) error {
	if requestorID == uuid.Nil || notificationID == uuid.Nil {
		return ErrNotificationNotFound
	}

	if err := u.repo.Delete(ctx, notificationID, requestorID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return ErrInternal
	}

	u.invalidateFor(ctx, requestorID)
	u.emitUnreadCount(ctx, requestorID)
	return nil
}

func (u *NotificationDispatcher) BulkDelete(ctx context.Context, ids []uuid.UUID, requestorID uuid.UUID) (BulkDeleteReport, error) {
	if requestorID == uuid.Nil {
		return BulkDeleteReport{}, ErrUnauthorized
	}
	if len(ids) == 0 {
		return BulkDeleteReport{}, ErrEmptyBatch
	}

	valid := make([]uuid.UUID, 0, len(ids))
	skipped := 0
	for _, id := range ids {
		if id == uuid.Nil {
			skipped++
			continue
		}
		valid = append(valid, id)
	}

	deleted, err := u.repo.DeleteMany(ctx, valid, requestorID)
	if err != nil {
		return BulkDeleteReport{}, ErrInternal
	}

	u.invalidateFor(ctx, requestorID)
	u.emitUnreadCount(ctx, requestorID)

	// Ids that existed but belonged to someone else simply do not count;
	// the report stays tolerant of mixed batches.
	skipped += len(valid) - int(deleted)
	return BulkDeleteReport{DeletedCount: deleted, SkippedCount: skipped}, nil
}

func (u *NotificationDispatcher) GetCount(ctx context.Context, requestorID uuid.UUID) (NotificationCountResult, error) {
	if requestorID == uuid.Nil {
		return NotificationCountResult{}, ErrUnauthorized
	}

	key := notificationCountKey(requestorID)
	if u.cache != nil {
		var cached NotificationCountResult
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			return cached, nil
		}
		if err != nil && u.logger != nil {
			u.logger.Printf("[Dispatch] Count cache read error (ignored): %v", err)
		}
	}

	counts, err := u.repo.Counts(ctx, requestorID, recentNotificationWindow)
	if err != nil {
		return NotificationCountResult{}, ErrInternal
	}

	result := NotificationCountResult{
		Total:  counts.Total,
		Unread: counts.Unread,
		ByType: counts.ByType,
		Recent: counts.Recent,
	}
	if result.ByType == nil {
		result.ByType = make(map[notification.Type]int)
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, result, u.countTTL); err != nil && u.logger != nil {
			u.logger.Printf("[Dispatch] Count cache write error (ignored): %v", err)
		}
	}
	return result, nil
}

func (u *NotificationDispatcher) invalidateFor(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Delete(ctx, notificationCountKey(userID)); err != nil && u.logger != nil {
		u.logger.Printf("[Dispatch] Cache invalidate error (ignored): %v", err)
	}
	if err := u.cache.DeleteByPrefix(ctx, notificationListPrefix(userID)); err != nil && u.logger != nil {
		u.logger.Printf("[Dispatch] Cache invalidate error (ignored): %v", err)
	}
}

func (u *NotificationDispatcher) pushCreated(ctx context.Context, n notification.Notification) {
	if u.gateway == nil {
		return
	}
	if u.gateway.IsUserConnected(n.RecipientID) {
		u.gateway.EmitToUser(n.RecipientID, EventNotificationCreated, n)
	}
	u.emitUnreadCount(ctx, n.RecipientID)
}

// emitUnreadCount reads the count back from the store after the write so the
// pushed number reflects persisted state rather than a client-side increment.
func (u *NotificationDispatcher) emitUnreadCount(ctx context.Context, userID uuid.UUID) {
	if u.gateway == nil {
		return
	}
	count, err := u.repo.CountUnread(ctx, userID)
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Dispatch] Unread count read error (push skipped): %v", err)
		}
		return
	}
	u.gateway.EmitToUser(userID, EventUnreadCount, map[string]int{"unread": count})
}

func validateCreateInput(in CreateNotificationInput) error {
	if in.RecipientID == uuid.Nil {
		return ErrInvalidInput
	}
	if _, ok := notification.ParseType(string(in.Type)); !ok {
		return ErrInvalidInput
	}
	if in.Title == "" {
		return ErrInvalidInput
	}
	return nil
}
