package notification

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/notification/domain"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventNotificationUpserted = "notification.upserted"
	EventUnreadCount          = "notification.unread-count"
)

// Publisher delivers events to connected clients. Delivery is best
// effort.
type Publisher interface {
	PublishToUser(ctx context.Context, userID uuid.UUID, event string, payload any) error
	PublishToSession(ctx context.Context, sessionID uuid.UUID, event string, payload any) error
}

type UnreadCount struct {
	Count int `json:"count"`
}

const notificationColumns = `
	id, user_id, type, session_id, title, message, url, dedup_key,
	count, is_read, created_at, updated_at, read_at`

// Dispatcher writes notification rows and pushes them to their
// recipients. Writes take the caller's transaction so a notification
// commits together with the event that caused it. Push runs after
// commit and never fails the caller.
type Dispatcher struct {
	db        *sql.DB
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewDispatcher(db *sql.DB, publisher Publisher, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		db:        db,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (d *Dispatcher) Create(ctx context.Context, q core.DBTX, in domain.CreateInput) (domain.Notification, error) {
	if err := in.Validate(); err != nil {
		return domain.Notification{}, err
	}

	now := d.now().UTC()

	query := `
		INSERT INTO
			notification (user_id, type, session_id, title, message, url, dedup_key, count, is_read, created_at, updated_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, 1, false, $8, $8)
		RETURNING` + notificationColumns + `;`
	n, err := tql.QueryFirst[domain.Notification](
		ctx,
		q,
		query,
		in.UserID,
		string(in.Type),
		in.SessionID,
		in.Title,
		in.Message,
		in.URL,
		in.Key,
		now,
	)
	if err != nil {
		return domain.Notification{}, core.TranslateDBError(err, "NotificationKeyTaken")
	}

	return n, nil
}

// CreateMany creates one notification per recipient from a template.
func (d *Dispatcher) CreateMany(
	ctx context.Context,
	q core.DBTX,
	userIDs []uuid.UUID,
	template domain.CreateInput,
) ([]domain.Notification, error) {
	created := make([]domain.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		in := template
		in.UserID = userID

		n, err := d.Create(ctx, q, in)
		if err != nil {
			return nil, err
		}
		created = append(created, n)
	}
	return created, nil
}

// UpsertCounter creates the row for (user, key) or bumps its count.
// A row that was read since the last bump is re-armed with count 1.
func (d *Dispatcher) UpsertCounter(ctx context.Context, q core.DBTX, in domain.CounterInput) (domain.Notification, error) {
	if err := in.Validate(); err != nil {
		return domain.Notification{}, err
	}

	now := d.now().UTC()

	query := `
		INSERT INTO
			notification (user_id, type, session_id, title, message, url, dedup_key, count, is_read, created_at, updated_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, 1, false, $8, $8)
		ON CONFLICT (user_id, dedup_key) DO UPDATE
		SET
			count = CASE WHEN notification.is_read THEN 1 ELSE notification.count + 1 END,
			is_read = false,
			read_at = NULL,
			type = EXCLUDED.type,
			session_id = EXCLUDED.session_id,
			title = EXCLUDED.title,
			message = EXCLUDED.message,
			url = EXCLUDED.url,
			updated_at = EXCLUDED.updated_at
		RETURNING` + notificationColumns + `;`
	n, err := tql.QueryFirst[domain.Notification](
		ctx,
		q,
		query,
		in.UserID,
		string(in.Type),
		in.SessionID,
		in.Title,
		in.Message,
		in.URL,
		in.Key,
		now,
	)
	if err != nil {
		return domain.Notification{}, core.TranslateDBError(err, "NotificationKeyTaken")
	}

	return n, nil
}

// MarkRead acknowledges one of the caller's notifications. Marking an
// already read notification again succeeds.
func (d *Dispatcher) MarkRead(ctx context.Context, userID uuid.UUID, notificationID int64) (domain.Notification, error) {
	query := `
		UPDATE
			notification
		SET
			is_read = true,
			count = 0,
			read_at = COALESCE(read_at, $3)
		WHERE
			id = $1 AND user_id = $2
		RETURNING` + notificationColumns + `;`
	n, err := tql.QueryFirst[domain.Notification](ctx, d.db, query, notificationID, userID, d.now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Notification{}, core.NotFound("NotificationNotFound")
		}
		return domain.Notification{}, err
	}

	d.Push(ctx, n)

	return n, nil
}

// MarkChatRead acknowledges the chat counter of a session. It returns
// nil without error when the caller has no such counter.
func (d *Dispatcher) MarkChatRead(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID) (*domain.Notification, error) {
	query := `
		UPDATE
			notification
		SET
			is_read = true,
			count = 0,
			read_at = COALESCE(read_at, $3)
		WHERE
			user_id = $1 AND dedup_key = $2
		RETURNING` + notificationColumns + `;`
	n, err := tql.QueryFirst[domain.Notification](ctx, d.db, query, userID, domain.ChatKey(sessionID), d.now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	d.Push(ctx, n)

	return &n, nil
}

func (d *Dispatcher) GetMine(ctx context.Context, userID uuid.UUID, unreadOnly bool, take int) ([]domain.Notification, error) {
	query := `
		SELECT` + notificationColumns + `
		FROM
			notification
		WHERE
			user_id = $1 AND (NOT $2 OR NOT is_read)
		ORDER BY
			updated_at DESC, id DESC
		LIMIT $3;`
	return tql.Query[domain.Notification](ctx, d.db, query, userID, unreadOnly, domain.ClampTake(take))
}

func (d *Dispatcher) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	const query = `
		SELECT
			COUNT(*)
		FROM
			notification
		WHERE
			user_id = $1 AND NOT is_read;`
	return tql.QueryFirst[int](ctx, d.db, query, userID)
}

// Push delivers each notification and the recipient's refreshed unread
// count. Failures are logged and dropped.
func (d *Dispatcher) Push(ctx context.Context, notifications ...domain.Notification) {
	for _, n := range notifications {
		unread, err := d.UnreadCount(ctx, n.UserID)
		if err != nil {
			d.logger.Warn(
				"failed to load unread count for push",
				zap.Int64("notification_id", n.ID),
				zap.Stringer("user_id", n.UserID),
				zap.Error(err),
			)
			continue
		}

		d.publish(ctx, n, unread)
	}
}

func (d *Dispatcher) publish(ctx context.Context, n domain.Notification, unread int) {
	if err := d.publisher.PublishToUser(ctx, n.UserID, EventNotificationUpserted, n); err != nil {
		d.logger.Warn(
			"failed to push notification",
			zap.Int64("notification_id", n.ID),
			zap.Stringer("user_id", n.UserID),
			zap.Error(err),
		)
	}

	if err := d.publisher.PublishToUser(ctx, n.UserID, EventUnreadCount, UnreadCount{Count: unread}); err != nil {
		d.logger.Warn(
			"failed to push unread count",
			zap.Stringer("user_id", n.UserID),
			zap.Error(err),
		)
	}
}
