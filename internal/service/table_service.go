package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/minhvt/restaurant-reservation/internal/models"
	"github.com/minhvt/restaurant-reservation/internal/realtime"
	"github.com/minhvt/restaurant-reservation/internal/repository"
	"gorm.io/gorm"
)

// TableService is the registry owning table occupancy. The atomic
// check-and-set itself lives in the repository UPDATE; this layer maps its
// outcome onto the error taxonomy and handles the administrative paths.
type TableService interface {
	Get(ctx context.Context, id uint) (*models.Table, error)
	List(ctx context.Context, status *models.TableStatus) ([]models.Table, error)
	ForceReturn(ctx context.Context, tableID uint, actor models.Actor) error
	ReleaseOrphans(ctx context.Context) (int, error)
}

type tableService struct {
	tables   repository.TableRepository
	bookings repository.BookingRepository
	orders   repository.OrderRepository
	notifier NotificationService
	bus      realtime.EventBus
}

func NewTableService(
	tables repository.TableRepository,
	bookings repository.BookingRepository,
	orders repository.OrderRepository,
	notifier NotificationService,
	bus realtime.EventBus,
) TableService {
	return &tableService{
		tables:   tables,
		bookings: bookings,
		orders:   orders,
		notifier: notifier,
		bus:      bus,
	}
}

// occupyTable runs the registry's check-and-set and translates "zero rows
// matched" into occupied vs. missing.
func occupyTable(ctx context.Context, tx *gorm.DB, tables repository.TableRepository, tableID, bookingID uint) error {
	ok, err := tables.TryOccupy(ctx, tx, tableID, bookingID)
	if err != nil {
		return fmt.Errorf("occupy table %d: %w", tableID, err)
	}
	if ok {
		return nil
	}
	if _, err := tables.FindByID(ctx, tableID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTableNotFound
		}
		return err
	}
	return ErrTableOccupied
}

func (s *tableService) Get(ctx context.Context, id uint) (*models.Table, error) {
	table, err := s.tables.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return table, nil
}

func (s *tableService) List(ctx context.Context, status *models.TableStatus) ([]models.Table, error) {
	if status != nil {
		return s.tables.FindByStatus(ctx, *status)
	}
	return s.tables.FindAll(ctx)
}

// ForceReturn is the staff override for walkouts and error correction: the
// table is freed and whatever non-terminal booking or order still claims it
// is cancelled in the same transaction.
func (s *tableService) ForceReturn(ctx context.Context, tableID uint, actor models.Actor) error {
	var cancelled *models.Booking

	err := s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		table, err := s.tables.FindByID(ctx, tableID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}

		if table.CurrentBookingID != nil {
			booking, err := s.bookings.FindByIDForUpdate(ctx, tx, *table.CurrentBookingID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if booking != nil && !booking.Status.Terminal() {
				ok, err := s.bookings.UpdateStatusIf(ctx, tx, booking.ID, booking.Status, models.BookingCancelled)
				if err != nil {
					return err
				}
				if ok {
					booking.Status = models.BookingCancelled
					cancelled = booking
				}
			}
		}

		order, err := s.orders.FindPendingByTableForUpdate(ctx, tx, tableID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if order != nil {
			if _, err := s.orders.UpdateStatusIf(ctx, tx, order.ID, models.OrderPending, models.OrderCancelled); err != nil {
				return err
			}
		}

		return s.tables.Free(ctx, tx, tableID)
	})
	if err != nil {
		return err
	}

	if cancelled != nil {
		reason := fmt.Sprintf("table returned by staff (%s)", actor.ID)
		if err := s.notifier.Enqueue(ctx,
			models.CustomerRecipient(cancelled.CustomerID),
			models.NotifBookingCancelled,
			"Booking cancelled",
			reason,
			&cancelled.ID,
		); err != nil {
			log.Printf("[TableService] enqueue cancellation notice: %v", err)
		}
		s.publish(realtime.EventBookingStatusChanged, realtime.StatusPayload{ID: cancelled.ID, Status: string(models.BookingCancelled)})
	}
	s.publish(realtime.EventTableStatusChanged, realtime.StatusPayload{ID: tableID, Status: string(models.TableEmpty)})

	return nil
}

// ReleaseOrphans is the audit pass guarding the one corruption the design
// must never allow: a table stuck occupied with no live claimant. Tables
// whose claimant booking is gone or terminal, and which carry no pending
// order, are freed.
func (s *tableService) ReleaseOrphans(ctx context.Context) (int, error) {
	occupied, err := s.tables.FindByStatus(ctx, models.TableOccupied)
	if err != nil {
		return 0, err
	}

	freed := 0
	for _, table := range occupied {
		orphan := true

		if table.CurrentBookingID != nil {
			booking, err := s.bookings.FindByID(ctx, *table.CurrentBookingID)
			if err == nil && !booking.Status.Terminal() {
				orphan = false
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return freed, err
			}
		}
		if orphan {
			order, err := s.orders.FindLatestByTable(ctx, table.ID)
			if err == nil && order.Status == models.OrderPending {
				orphan = false
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return freed, err
			}
		}

		if orphan {
			if err := s.tables.Free(ctx, s.tables.GetDB(), table.ID); err != nil {
				return freed, err
			}
			freed++
			log.Printf("[TableService] released orphaned table %d", table.ID)
			s.publish(realtime.EventTableStatusChanged, realtime.StatusPayload{ID: table.ID, Status: string(models.TableEmpty)})
		}
	}
	return freed, nil
}

func (s *tableService) publish(event string, payload any) {
	if err := s.bus.Publish(event, payload); err != nil {
		log.Printf("[TableService] publish %s: %v", event, err)
	}
}
