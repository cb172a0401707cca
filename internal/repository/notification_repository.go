package repository

import (
	"context"
	"time"

	"github.com/MohdZaidRapid/BooksBackend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresNotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *PostgresNotificationRepository) ListForReceiver(ctx context.Context, receiverID uuid.UUID, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	db := r.db.WithContext(ctx).Where("receiver_id = ?", receiverID)
	if unreadOnly {
		db = db.Where("read = ?", false)
	}

	var notifications []domain.Notification
	err := db.Order("created_at DESC").Limit(limit).Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead is idempotent: marking an already-read, missing, or foreign
// notification is a no-op.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, receiverID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("id = ? AND receiver_id = ? AND read = ?", id, receiverID, false).
		Update("read", true).Error
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, receiverID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("receiver_id = ? AND read = ?", receiverID, false).
		Update("read", true).Error
}

func (r *PostgresNotificationRepository) MarkReadByLink(ctx context.Context, receiverID uuid.UUID, link string) error {
	return r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("receiver_id = ? AND link = ? AND read = ?", receiverID, link, false).
		Update("read", true).Error
}

func (r *PostgresNotificationRepository) UnreadCount(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("receiver_id = ? AND read = ?", receiverID, false).
		Count(&count).Error
	return count, err
}

type senderDigestRow struct {
	SenderID          uuid.NullUUID
	Count             int64
	MostRecentContent string
	MostRecentLink    string
	MostRecentAt      time.Time
}

func (r *PostgresNotificationRepository) UnreadGroupedBySender(ctx context.Context, receiverID uuid.UUID) ([]domain.SenderDigest, error) {
	var rows []senderDigestRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT * FROM (
			SELECT DISTINCT ON (sender_id)
				sender_id,
				COUNT(*) OVER (PARTITION BY sender_id) AS count,
				content    AS most_recent_content,
				link       AS most_recent_link,
				created_at AS most_recent_at
			FROM notifications
			WHERE receiver_id = ? AND read = FALSE
			ORDER BY sender_id, created_at DESC
		) digest
		ORDER BY most_recent_at DESC`, receiverID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	digests := make([]domain.SenderDigest, 0, len(rows))
	for _, row := range rows {
		digests = append(digests, domain.SenderDigest{
			SenderID:          row.SenderID,
			Count:             row.Count,
			MostRecentContent: row.MostRecentContent,
			MostRecentLink:    row.MostRecentLink,
			MostRecentAt:      row.MostRecentAt,
		})
	}
	return digests, nil
}
