package repository

import (
	"context"
	"errors"
	"time"

	"github.com/minhvt/restaurant-reservation/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, actorID string, recipients []models.Recipient) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uint, actorID string, recipients []models.Recipient) (bool, error)
	MarkAllRead(ctx context.Context, actorID string, recipients []models.Recipient) error
	Delete(ctx context.Context, id uint, actorID string, recipients []models.Recipient) (bool, error)
	UnreadCount(ctx context.Context, actorID string, recipients []models.Recipient) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// recipientScope builds the OR filter matching any of the given recipients.
// Broadcast kinds carry an empty id, so the same shared row is visible to
// every member of the role; per-member read state lives in receipts.
func recipientScope(db *gorm.DB, recipients []models.Recipient) *gorm.DB {
	scope := db.Session(&gorm.Session{NewDB: true})
	for _, rcpt := range recipients {
		scope = scope.Or("recipient_kind = ? AND recipient_id = ?", rcpt.Kind, rcpt.ID)
	}
	return scope
}

// receiptsFor loads the actor's receipts for the given broadcast rows.
func (r *notificationRepository) receiptsFor(ctx context.Context, actorID string, ids []uint) (map[uint]models.NotificationReceipt, error) {
	out := make(map[uint]models.NotificationReceipt, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var receipts []models.NotificationReceipt
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND notification_id IN ?", actorID, ids).
		Find(&receipts).Error
	if err != nil {
		return nil, err
	}
	for _, rc := range receipts {
		out[rc.NotificationID] = rc
	}
	return out, nil
}

func (r *notificationRepository) List(ctx context.Context, actorID string, recipients []models.Recipient) ([]models.Notification, error) {
	var ns []models.Notification
	err := r.db.WithContext(ctx).
		Where(recipientScope(r.db, recipients)).
		Order("id DESC").
		Find(&ns).Error
	if err != nil {
		return nil, err
	}

	var broadcastIDs []uint
	for i := range ns {
		if ns[i].Broadcast() {
			broadcastIDs = append(broadcastIDs, ns[i].ID)
		}
	}
	receipts, err := r.receiptsFor(ctx, actorID, broadcastIDs)
	if err != nil {
		return nil, err
	}

	out := ns[:0]
	for _, n := range ns {
		if n.Broadcast() {
			rc, ok := receipts[n.ID]
			if ok && rc.DismissedAt != nil {
				continue
			}
			n.IsRead = ok && rc.ReadAt != nil
			n.ReadAt = nil
			if n.IsRead {
				n.ReadAt = rc.ReadAt
			}
		}
		out = append(out, n)
	}
	return out, nil
}

// find loads a single row the actor is allowed to see.
func (r *notificationRepository) find(ctx context.Context, id uint, recipients []models.Recipient) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where(recipientScope(r.db, recipients)).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) upsertReceipt(ctx context.Context, notificationID uint, actorID string, set map[string]any) error {
	now := time.Now()
	receipt := models.NotificationReceipt{
		NotificationID: notificationID,
		ActorID:        actorID,
		CreatedAt:      now,
	}
	if at, ok := set["read_at"]; ok {
		t := at.(time.Time)
		receipt.ReadAt = &t
	}
	if at, ok := set["dismissed_at"]; ok {
		t := at.(time.Time)
		receipt.DismissedAt = &t
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "notification_id"}, {Name: "actor_id"}},
			DoUpdates: clause.Assignments(set),
		}).
		Create(&receipt).Error
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint, actorID string, recipients []models.Recipient) (bool, error) {
	n, err := r.find(ctx, id, recipients)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	now := time.Now()
	if n.Broadcast() {
		if err := r.upsertReceipt(ctx, n.ID, actorID, map[string]any{"read_at": now}); err != nil {
			return false, err
		}
		return true, nil
	}

	err = r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", n.ID).
		Updates(map[string]any{"is_read": true, "read_at": now}).Error
	return err == nil, err
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, actorID string, recipients []models.Recipient) error {
	now := time.Now()

	// Direct rows carry their own state.
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("is_read = ? AND recipient_id <> ''", false).
		Where(recipientScope(r.db, recipients)).
		Updates(map[string]any{"is_read": true, "read_at": now}).Error
	if err != nil {
		return err
	}

	// Broadcast rows get a read receipt per member.
	var broadcast []models.Notification
	err = r.db.WithContext(ctx).
		Where("recipient_id = ''").
		Where(recipientScope(r.db, recipients)).
		Find(&broadcast).Error
	if err != nil {
		return err
	}
	for _, n := range broadcast {
		if err := r.upsertReceipt(ctx, n.ID, actorID, map[string]any{"read_at": now}); err != nil {
			return err
		}
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uint, actorID string, recipients []models.Recipient) (bool, error) {
	n, err := r.find(ctx, id, recipients)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	// Deleting a shared broadcast row would remove it for the whole group;
	// a dismissal receipt hides it for this member only.
	if n.Broadcast() {
		if err := r.upsertReceipt(ctx, n.ID, actorID, map[string]any{"dismissed_at": time.Now()}); err != nil {
			return false, err
		}
		return true, nil
	}

	res := r.db.WithContext(ctx).Delete(&models.Notification{}, n.ID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, actorID string, recipients []models.Recipient) (int64, error) {
	var direct int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("is_read = ? AND recipient_id <> ''", false).
		Where(recipientScope(r.db, recipients)).
		Count(&direct).Error
	if err != nil {
		return 0, err
	}

	seen := r.db.WithContext(ctx).
		Model(&models.NotificationReceipt{}).
		Select("notification_id").
		Where("actor_id = ? AND (read_at IS NOT NULL OR dismissed_at IS NOT NULL)", actorID)

	var broadcast int64
	err = r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ''").
		Where(recipientScope(r.db, recipients)).
		Where("id NOT IN (?)", seen).
		Count(&broadcast).Error
	if err != nil {
		return 0, err
	}
	return direct + broadcast, nil
}
