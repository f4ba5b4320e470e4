package repository

import (
	"context"

	"github.com/minhvt/restaurant-reservation/internal/models"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *models.Transaction) error
	FindByRef(ctx context.Context, ref string) (*models.Transaction, error)
	FindByBooking(ctx context.Context, bookingID uint) ([]models.Transaction, error)
	FindCompletedDeposit(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Transaction, error)
	FindSettlementByOrder(ctx context.Context, tx *gorm.DB, orderID uint) (*models.Transaction, error)
	GetDB() *gorm.DB
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *transactionRepository) Create(ctx context.Context, tx *gorm.DB, t *models.Transaction) error {
	return tx.WithContext(ctx).Create(t).Error
}

func (r *transactionRepository) FindByRef(ctx context.Context, ref string) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.db.WithContext(ctx).Where("ref = ?", ref).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepository) FindByBooking(ctx context.Context, bookingID uint) ([]models.Transaction, error) {
	var ts []models.Transaction
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&ts).Error
	if err != nil {
		return nil, err
	}
	return ts, nil
}

func (r *transactionRepository) FindCompletedDeposit(ctx context.Context, tx *gorm.DB, bookingID uint) (*models.Transaction, error) {
	var t models.Transaction
	err := tx.WithContext(ctx).
		Where("booking_id = ? AND type = ? AND status = ?",
			bookingID, models.TxDeposit, models.TxCompleted).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindSettlementByOrder returns the settlement row recorded for an order,
// if any. Used to keep reconcile retries from double-charging.
func (r *transactionRepository) FindSettlementByOrder(ctx context.Context, tx *gorm.DB, orderID uint) (*models.Transaction, error) {
	var t models.Transaction
	err := tx.WithContext(ctx).
		Where("order_id = ? AND type IN ? AND status = ?",
			orderID,
			[]models.TransactionType{models.TxRefund, models.TxAdditionalPayment, models.TxFinalSettlement},
			models.TxCompleted).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}
