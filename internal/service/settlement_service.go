package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/minhvt/restaurant-reservation/internal/models"
	"github.com/minhvt/restaurant-reservation/internal/realtime"
	"github.com/minhvt/restaurant-reservation/internal/repository"
	"gorm.io/gorm"
)

// SettlementFor computes the money delta between what is owed (the final
// order total) and what was collected up front (the deposit). The amount
// returned is always non-negative; the type says which way it flows.
func SettlementFor(orderTotal, depositAmount float64) (models.TransactionType, float64) {
	delta := orderTotal - depositAmount
	switch {
	case delta > 0:
		return models.TxAdditionalPayment, delta
	case delta < 0:
		return models.TxRefund, -delta
	default:
		return models.TxFinalSettlement, 0
	}
}

type SettlementResult struct {
	Type        models.TransactionType
	Amount      float64
	Transaction *models.Transaction
	Booking     *models.Booking
	Order       *models.Order
}

// SettlementService reconciles deposits against final bills and drives
// booking completion. It is also the single idempotent entry point for
// deposit confirmation, whether that arrives as a payment-gateway event or
// a manual staff action.
type SettlementService interface {
	Reconcile(ctx context.Context, tableID uint, actor models.Actor) (*SettlementResult, error)
	ConfirmDepositManually(ctx context.Context, bookingID uint, amount float64, method string, actor models.Actor) (*models.Transaction, error)
	TransactionsForBooking(ctx context.Context, bookingID uint) ([]models.Transaction, error)
}

type settlementService struct {
	orders   repository.OrderRepository
	bookings repository.BookingRepository
	tables   repository.TableRepository
	txRepo   repository.TransactionRepository
	bookSvc  BookingService
	notifier NotificationService
	bus      realtime.EventBus
}

func NewSettlementService(
	orders repository.OrderRepository,
	bookings repository.BookingRepository,
	tables repository.TableRepository,
	txRepo repository.TransactionRepository,
	bookSvc BookingService,
	notifier NotificationService,
	bus realtime.EventBus,
) SettlementService {
	return &settlementService{
		orders:   orders,
		bookings: bookings,
		tables:   tables,
		txRepo:   txRepo,
		bookSvc:  bookSvc,
		notifier: notifier,
		bus:      bus,
	}
}

// Reconcile closes out a table: records the settlement delta, marks the
// order paid, completes the booking and frees the table, all inside one
// transaction. Re-running it after a partial prior failure resumes the
// remaining steps instead of failing — an order must never leave its table
// permanently occupied.
func (s *settlementService) Reconcile(ctx context.Context, tableID uint, actor models.Actor) (*SettlementResult, error) {
	var result *SettlementResult

	err := s.orders.Transaction(ctx, func(tx *gorm.DB) error {
		order, err := s.orders.FindLatestByTableForUpdate(ctx, tx, tableID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status == models.OrderCancelled {
			return ErrInvalidTransition
		}

		var booking *models.Booking
		if order.BookingID != nil {
			booking, err = s.bookings.FindByIDForUpdate(ctx, tx, *order.BookingID)
		} else {
			booking, err = s.bookings.FindConfirmedByTable(ctx, tx, tableID)
		}
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		// Confirmed is the normal case; completed means a prior attempt
		// got partway through and this is the retry.
		if booking.Status != models.BookingConfirmed && booking.Status != models.BookingCompleted {
			return ErrInvalidTransition
		}

		// A paid order or completed booking is resumable only while the
		// table still carries this booking's claim. Without the check, a
		// stray retry for a long-settled sitting would find the old paid
		// order and free the table under whoever claimed it since.
		if order.Status == models.OrderPaid || booking.Status == models.BookingCompleted {
			table, err := s.tables.FindByID(ctx, tableID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTableNotFound
				}
				return err
			}
			if table.CurrentBookingID == nil || *table.CurrentBookingID != booking.ID {
				return ErrOrderNotFound
			}
		}

		if _, err := s.txRepo.FindCompletedDeposit(ctx, tx, booking.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDepositNotConfirmed
			}
			return err
		}

		settlement, err := s.txRepo.FindSettlementByOrder(ctx, tx, order.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			txType, amount := SettlementFor(order.TotalAmount, booking.DepositAmount)
			now := time.Now()
			settlement = &models.Transaction{
				Ref:         uuid.NewString(),
				BookingID:   &booking.ID,
				TableID:     &tableID,
				OrderID:     &order.ID,
				Type:        txType,
				Amount:      amount,
				Method:      "counter",
				Status:      models.TxCompleted,
				PaidAt:      &now,
				ConfirmedAt: &now,
			}
			if err := s.txRepo.Create(ctx, tx, settlement); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if _, err := s.orders.UpdateStatusIf(ctx, tx, order.ID, models.OrderPending, models.OrderPaid); err != nil {
			return err
		}
		if _, err := s.bookings.UpdateStatusIf(ctx, tx, booking.ID, models.BookingConfirmed, models.BookingCompleted); err != nil {
			return err
		}
		if _, err := s.tables.FreeIfClaimedBy(ctx, tx, tableID, booking.ID); err != nil {
			return err
		}

		order.Status = models.OrderPaid
		booking.Status = models.BookingCompleted
		result = &SettlementResult{
			Type:        settlement.Type,
			Amount:      settlement.Amount,
			Transaction: settlement,
			Booking:     booking,
			Order:       order,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifySettlement(ctx, result)
	s.publish(realtime.EventOrderStatusChanged, realtime.StatusPayload{ID: result.Order.ID, Status: string(models.OrderPaid)})
	s.publish(realtime.EventBookingStatusChanged, realtime.StatusPayload{ID: result.Booking.ID, Status: string(models.BookingCompleted)})
	s.publish(realtime.EventTableStatusChanged, realtime.StatusPayload{ID: tableID, Status: string(models.TableEmpty)})
	s.publish(realtime.EventPaymentConfirmed, realtime.StatusPayload{ID: result.Transaction.ID, Status: string(models.TxCompleted)})

	return result, nil
}

func (s *settlementService) notifySettlement(ctx context.Context, res *SettlementResult) {
	var (
		typ   models.NotificationType
		title string
		msg   string
	)
	switch res.Type {
	case models.TxAdditionalPayment:
		typ = models.NotifAdditionalPayment
		title = "Additional payment due"
		msg = fmt.Sprintf("Your order total exceeds the deposit by %.0f.", res.Amount)
	case models.TxRefund:
		typ = models.NotifRefundDue
		title = "Refund due"
		msg = fmt.Sprintf("Your deposit exceeds the order total by %.0f.", res.Amount)
	default:
		typ = models.NotifPaymentSettled
		title = "Payment settled"
		msg = "Your deposit covered the order exactly. Thank you!"
	}

	s.notify(ctx, models.CustomerRecipient(res.Booking.CustomerID), typ, title, msg, &res.Booking.ID)
	s.notify(ctx, models.AllEmployees, models.NotifPaymentSettled,
		"Table settled",
		fmt.Sprintf("Order %d on table %d settled (%s %.0f).", res.Order.ID, res.Order.TableID, res.Type, res.Amount),
		&res.Booking.ID)
}

// ConfirmDepositManually records a completed deposit without an external
// webhook callback and funnels into the regular confirmation path. Calling
// it twice for the same booking yields exactly one completed transaction.
func (s *settlementService) ConfirmDepositManually(ctx context.Context, bookingID uint, amount float64, method string, actor models.Actor) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if method == "" {
		method = "manual"
	}

	var deposit *models.Transaction

	err := s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		booking, err := s.bookings.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		existing, err := s.txRepo.FindCompletedDeposit(ctx, tx, bookingID)
		if err == nil {
			// Already collected — no duplicate charge.
			deposit = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if booking.Status.Terminal() {
			return ErrInvalidTransition
		}

		now := time.Now()
		deposit = &models.Transaction{
			Ref:         uuid.NewString(),
			BookingID:   &booking.ID,
			TableID:     &booking.TableID,
			Type:        models.TxDeposit,
			Amount:      amount,
			Method:      method,
			Status:      models.TxCompleted,
			PaidAt:      &now,
			ConfirmedAt: &now,
		}
		return s.txRepo.Create(ctx, tx, deposit)
	})
	if err != nil {
		return nil, err
	}

	s.publish(realtime.EventPaymentConfirmed, realtime.StatusPayload{ID: deposit.ID, Status: string(deposit.Status)})

	// Funnel into the state machine. A booking that is already confirmed
	// no-ops; a lost table race surfaces as ErrTableOccupied with the
	// booking cancelled, which the caller reports as a conflict.
	if _, err := s.bookSvc.ConfirmDeposit(ctx, bookingID, deposit.Ref, actor); err != nil {
		if errors.Is(err, ErrTableOccupied) {
			return deposit, err
		}
		if !errors.Is(err, ErrInvalidTransition) {
			return deposit, err
		}
	}

	return deposit, nil
}

func (s *settlementService) TransactionsForBooking(ctx context.Context, bookingID uint) ([]models.Transaction, error) {
	return s.txRepo.FindByBooking(ctx, bookingID)
}

func (s *settlementService) notify(ctx context.Context, rcpt models.Recipient, typ models.NotificationType, title, msg string, bookingID *uint) {
	if err := s.notifier.Enqueue(ctx, rcpt, typ, title, msg, bookingID); err != nil {
		log.Printf("[Settlement] enqueue notification: %v", err)
	}
}

func (s *settlementService) publish(event string, payload any) {
	if err := s.bus.Publish(event, payload); err != nil {
		log.Printf("[Settlement] publish %s: %v", event, err)
	}
}
