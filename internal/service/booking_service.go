package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/minhvt/restaurant-reservation/internal/models"
	"github.com/minhvt/restaurant-reservation/internal/realtime"
	"github.com/minhvt/restaurant-reservation/internal/repository"
	"gorm.io/gorm"
)

type BookingItemInput struct {
	MenuItemID uint
	Quantity   int
}

type CreateBookingInput struct {
	CustomerID    string
	ContactName   string
	ContactPhone  string
	TableID       uint
	Guests        int
	ReservedDate  string
	ReservedTime  string
	Items         []BookingItemInput
	DepositAmount float64
	Note          string
}

type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error)
	ConfirmDeposit(ctx context.Context, bookingID uint, transactionRef string, actor models.Actor) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID uint, reason string, actor models.Actor) (*models.Booking, error)
	Get(ctx context.Context, id uint) (*models.Booking, error)
	List(ctx context.Context, status *models.BookingStatus) ([]models.Booking, error)
}

type bookingService struct {
	bookings   repository.BookingRepository
	tables     repository.TableRepository
	menu       repository.MenuRepository
	txRepo     repository.TransactionRepository
	notifier   NotificationService
	bus        realtime.EventBus
	minDeposit float64
}

func NewBookingService(
	bookings repository.BookingRepository,
	tables repository.TableRepository,
	menu repository.MenuRepository,
	txRepo repository.TransactionRepository,
	notifier NotificationService,
	bus realtime.EventBus,
	minDeposit float64,
) BookingService {
	return &bookingService{
		bookings:   bookings,
		tables:     tables,
		menu:       menu,
		txRepo:     txRepo,
		notifier:   notifier,
		bus:        bus,
		minDeposit: minDeposit,
	}
}

// Create validates the request and records the booking in pending. The
// table is NOT claimed here: competing pending bookings on the same slot
// are allowed, and the race is settled at deposit confirmation.
func (s *bookingService) Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if in.Guests < 1 {
		return nil, ErrInvalidGuests
	}
	if in.DepositAmount < s.minDeposit {
		return nil, ErrDepositTooLow
	}

	if _, err := s.tables.FindByID(ctx, in.TableID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}

	items, total, err := s.snapshotItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	if total > 0 && in.DepositAmount > total {
		return nil, ErrDepositExceedsTotal
	}

	booking := &models.Booking{
		CustomerID:    in.CustomerID,
		ContactName:   in.ContactName,
		ContactPhone:  in.ContactPhone,
		TableID:       in.TableID,
		Guests:        in.Guests,
		ReservedDate:  in.ReservedDate,
		ReservedTime:  in.ReservedTime,
		Items:         items,
		TotalAmount:   total,
		DepositAmount: in.DepositAmount,
		Status:        models.BookingPending,
		Note:          in.Note,
	}

	err = s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		return s.bookings.Create(ctx, tx, booking)
	})
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.notify(ctx, models.AllEmployees, models.NotifBookingCreated,
		"New booking request",
		fmt.Sprintf("Table %d, %d guests on %s %s", booking.TableID, booking.Guests, booking.ReservedDate, booking.ReservedTime),
		&booking.ID)
	s.publish(realtime.EventBookingStatusChanged, realtime.StatusPayload{ID: booking.ID, Status: string(booking.Status)})

	return booking, nil
}

// snapshotItems resolves menu items and freezes their current price into
// the booking lines.
func (s *bookingService) snapshotItems(ctx context.Context, inputs []BookingItemInput) ([]models.BookingItem, float64, error) {
	if len(inputs) == 0 {
		return nil, 0, nil
	}

	ids := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity < 1 {
			return nil, 0, ErrMenuItemUnavailable
		}
		ids = append(ids, in.MenuItemID)
	}

	menuItems, err := s.menu.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uint]models.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		byID[mi.ID] = mi
	}

	var items []models.BookingItem
	var total float64
	for _, in := range inputs {
		mi, ok := byID[in.MenuItemID]
		if !ok || !mi.Available {
			return nil, 0, ErrMenuItemUnavailable
		}
		items = append(items, models.BookingItem{
			MenuItemID: mi.ID,
			Name:       mi.Name,
			UnitPrice:  mi.Price,
			Quantity:   in.Quantity,
		})
		total += mi.Price * float64(in.Quantity)
	}
	return items, total, nil
}

// ConfirmDeposit moves a pending booking to confirmed once its deposit
// transaction is completed, claiming the table on the way. When the table
// was taken by a faster competing confirmation the booking is cancelled
// instead and the caller sees ErrTableOccupied — losers must re-fetch, not
// assume nothing happened.
func (s *bookingService) ConfirmDeposit(ctx context.Context, bookingID uint, transactionRef string, actor models.Actor) (*models.Booking, error) {
	var (
		booking  *models.Booking
		conflict bool
		already  bool
	)

	err := s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookings.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		// Re-confirming an already-confirmed booking is a no-op, not a
		// duplicate claim.
		if booking.Status == models.BookingConfirmed {
			already = true
			return nil
		}
		if booking.Status != models.BookingPending {
			return ErrInvalidTransition
		}

		deposit, err := s.txRepo.FindByRef(ctx, transactionRef)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		if deposit.Type != models.TxDeposit || deposit.BookingID == nil || *deposit.BookingID != booking.ID {
			return ErrTransactionNotFound
		}
		if deposit.Status != models.TxCompleted {
			return ErrDepositNotConfirmed
		}

		if err := occupyTable(ctx, tx, s.tables, booking.TableID, booking.ID); err != nil {
			if !errors.Is(err, ErrTableOccupied) {
				return err
			}
			// Designed resolution of the pending-vs-pending race: the
			// slower confirmation cancels its booking. Must commit, so
			// the closure returns nil and the conflict is reported after.
			if _, err := s.bookings.UpdateStatusIf(ctx, tx, booking.ID, models.BookingPending, models.BookingCancelled); err != nil {
				return err
			}
			booking.Status = models.BookingCancelled
			conflict = true
			return nil
		}

		ok, err := s.bookings.UpdateStatusIf(ctx, tx, booking.ID, models.BookingPending, models.BookingConfirmed)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		now := time.Now()
		if err := s.bookings.StampConfirmer(ctx, tx, booking.ID, actor.ID, now); err != nil {
			return err
		}
		booking.Status = models.BookingConfirmed
		booking.ConfirmedBy = &actor.ID
		booking.ConfirmedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if already {
		return booking, nil
	}

	if conflict {
		s.notify(ctx, models.CustomerRecipient(booking.CustomerID), models.NotifBookingCancelled,
			"Booking cancelled",
			"The table was taken by another confirmed booking before your deposit was processed.",
			&booking.ID)
		s.publish(realtime.EventBookingStatusChanged, realtime.StatusPayload{ID: booking.ID, Status: string(models.BookingCancelled)})
		return booking, ErrTableOccupied
	}

	s.notify(ctx, models.CustomerRecipient(booking.CustomerID), models.NotifBookingConfirmed,
		"Booking confirmed",
		fmt.Sprintf("Your table %d is reserved for %s %s.", booking.TableID, booking.ReservedDate, booking.ReservedTime),
		&booking.ID)
	s.notify(ctx, models.AllEmployees, models.NotifDepositConfirmed,
		"Deposit confirmed",
		fmt.Sprintf("Deposit of %.0f received for booking %d.", booking.DepositAmount, booking.ID),
		&booking.ID)
	s.publish(realtime.EventBookingStatusChanged, realtime.StatusPayload{ID: booking.ID, Status: string(booking.Status)})
	s.publish(realtime.EventTableStatusChanged, realtime.StatusPayload{ID: booking.TableID, Status: string(models.TableOccupied)})

	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, bookingID uint, reason string, actor models.Actor) (*models.Booking, error) {
	var (
		booking      *models.Booking
		wasConfirmed bool
	)

	err := s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookings.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if !models.CanTransition(booking.Status, models.BookingCancelled) {
			return ErrInvalidTransition
		}

		wasConfirmed = booking.Status == models.BookingConfirmed
		ok, err := s.bookings.UpdateStatusIf(ctx, tx, booking.ID, booking.Status, models.BookingCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		booking.Status = models.BookingCancelled

		// A confirmed booking holds the table; release it in the same
		// transaction. Claimant-scoped so a stale cancel can never free
		// the table from a newer claim.
		if wasConfirmed {
			if _, err := s.tables.FreeIfClaimedBy(ctx, tx, booking.TableID, booking.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	msg := "Your booking has been cancelled."
	if reason != "" {
		msg = fmt.Sprintf("Your booking has been cancelled: %s", reason)
	}
	s.notify(ctx, models.CustomerRecipient(booking.CustomerID), models.NotifBookingCancelled,
		"Booking cancelled", msg, &booking.ID)
	s.publish(realtime.EventBookingStatusChanged, realtime.StatusPayload{ID: booking.ID, Status: string(booking.Status)})
	if wasConfirmed {
		s.publish(realtime.EventTableStatusChanged, realtime.StatusPayload{ID: booking.TableID, Status: string(models.TableEmpty)})
	}

	return booking, nil
}

func (s *bookingService) Get(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, status *models.BookingStatus) ([]models.Booking, error) {
	return s.bookings.FindByStatus(ctx, status)
}

func (s *bookingService) notify(ctx context.Context, rcpt models.Recipient, typ models.NotificationType, title, msg string, bookingID *uint) {
	if err := s.notifier.Enqueue(ctx, rcpt, typ, title, msg, bookingID); err != nil {
		log.Printf("[BookingService] enqueue notification: %v", err)
	}
}

func (s *bookingService) publish(event string, payload any) {
	if err := s.bus.Publish(event, payload); err != nil {
		log.Printf("[BookingService] publish %s: %v", event, err)
	}
}
