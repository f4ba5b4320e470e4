package repository

import (
	"context"
	"time"

	"github.com/minhvt/restaurant-reservation/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	FindByStatus(ctx context.Context, status *models.BookingStatus) ([]models.Booking, error)
	FindConfirmedByTable(ctx context.Context, tx *gorm.DB, tableID uint) (*models.Booking, error)
	UpdateStatusIf(ctx context.Context, tx *gorm.DB, id uint, from, to models.BookingStatus) (bool, error)
	StampConfirmer(ctx context.Context, tx *gorm.DB, id uint, confirmer string, at time.Time) error
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Preload("Items").First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByIDForUpdate acquires a row-level lock on the booking within the
// given transaction, serializing concurrent transitions on the same row.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByStatus(ctx context.Context, status *models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).Preload("Items")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindConfirmedByTable(ctx context.Context, tx *gorm.DB, tableID uint) (*models.Booking, error) {
	var booking models.Booking
	err := tx.WithContext(ctx).
		Where("table_id = ? AND status = ?", tableID, models.BookingConfirmed).
		Order("id DESC").
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateStatusIf performs the compare-and-set that keeps booking
// transitions forward-only: the row changes only when it still holds the
// expected status, and the caller learns whether it won.
func (r *bookingRepository) UpdateStatusIf(ctx context.Context, tx *gorm.DB, id uint, from, to models.BookingStatus) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bookingRepository) StampConfirmer(ctx context.Context, tx *gorm.DB, id uint, confirmer string, at time.Time) error {
	return tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"confirmed_by": confirmer,
			"confirmed_at": at,
		}).Error
}
