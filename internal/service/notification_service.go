package service

import (
	"context"
	"log"

	"github.com/minhvt/restaurant-reservation/internal/models"
	"github.com/minhvt/restaurant-reservation/internal/realtime"
	"github.com/minhvt/restaurant-reservation/internal/repository"
)

// NotificationService is the dispatcher: durable row first, best-effort
// real-time push second. A dead socket or a down broker never loses a
// notification — clients catch up from the rows on reconnect.
type NotificationService interface {
	Enqueue(ctx context.Context, rcpt models.Recipient, typ models.NotificationType, title, message string, bookingID *uint) error
	List(ctx context.Context, actor models.Actor) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uint, actor models.Actor) error
	MarkAllRead(ctx context.Context, actor models.Actor) error
	Delete(ctx context.Context, id uint, actor models.Actor) error
	UnreadCount(ctx context.Context, actor models.Actor) (int64, error)
}

type notificationService struct {
	repo repository.NotificationRepository
	bus  realtime.EventBus
}

func NewNotificationService(repo repository.NotificationRepository, bus realtime.EventBus) NotificationService {
	return &notificationService{repo: repo, bus: bus}
}

func (s *notificationService) Enqueue(ctx context.Context, rcpt models.Recipient, typ models.NotificationType, title, message string, bookingID *uint) error {
	n := &models.Notification{
		RecipientKind: rcpt.Kind,
		RecipientID:   rcpt.ID,
		Type:          typ,
		Title:         title,
		Message:       message,
		BookingID:     bookingID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	// Push failures are logged and swallowed; the persisted row is the
	// source of truth.
	if err := s.bus.Publish(realtime.EventNewNotification, n); err != nil {
		log.Printf("[Notification] push failed for notification %d: %v", n.ID, err)
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, actor models.Actor) ([]models.Notification, error) {
	return s.repo.List(ctx, actor.ID, actor.Recipients())
}

func (s *notificationService) MarkRead(ctx context.Context, id uint, actor models.Actor) error {
	ok, err := s.repo.MarkRead(ctx, id, actor.ID, actor.Recipients())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, actor models.Actor) error {
	return s.repo.MarkAllRead(ctx, actor.ID, actor.Recipients())
}

func (s *notificationService) Delete(ctx context.Context, id uint, actor models.Actor) error {
	ok, err := s.repo.Delete(ctx, id, actor.ID, actor.Recipients())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, actor models.Actor) (int64, error) {
	return s.repo.UnreadCount(ctx, actor.ID, actor.Recipients())
}
