package repository

import (
	"context"

	"github.com/minhvt/restaurant-reservation/internal/models"
	"gorm.io/gorm"
)

type TableRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Table, error)
	FindAll(ctx context.Context) ([]models.Table, error)
	FindByStatus(ctx context.Context, status models.TableStatus) ([]models.Table, error)
	TryOccupy(ctx context.Context, tx *gorm.DB, tableID, bookingID uint) (bool, error)
	Free(ctx context.Context, tx *gorm.DB, tableID uint) error
	FreeIfClaimedBy(ctx context.Context, tx *gorm.DB, tableID, bookingID uint) (bool, error)
	GetDB() *gorm.DB
}

type tableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *tableRepository) FindByID(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	if err := r.db.WithContext(ctx).First(&table, id).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepository) FindAll(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *tableRepository) FindByStatus(ctx context.Context, status models.TableStatus) ([]models.Table, error) {
	var tables []models.Table
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("id ASC").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// TryOccupy is the single atomic check-and-set guarding table assignment.
// The WHERE clause only matches an empty table, so of two concurrent claims
// exactly one sees a row affected.
func (r *tableRepository) TryOccupy(ctx context.Context, tx *gorm.DB, tableID, bookingID uint) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Table{}).
		Where("id = ? AND status = ?", tableID, models.TableEmpty).
		Updates(map[string]any{
			"status":             models.TableOccupied,
			"current_booking_id": bookingID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Free is idempotent: freeing an already-empty table affects zero rows and
// is not an error. Reserved for administrative paths that release a table
// regardless of who claims it.
func (r *tableRepository) Free(ctx context.Context, tx *gorm.DB, tableID uint) error {
	return tx.WithContext(ctx).
		Model(&models.Table{}).
		Where("id = ?", tableID).
		Updates(map[string]any{
			"status":             models.TableEmpty,
			"current_booking_id": nil,
		}).Error
}

// FreeIfClaimedBy releases the table only while the given booking still
// holds the claim. A release racing a newer claim matches zero rows, so a
// stale caller can never empty a table out from under the next sitting.
func (r *tableRepository) FreeIfClaimedBy(ctx context.Context, tx *gorm.DB, tableID, bookingID uint) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Table{}).
		Where("id = ? AND current_booking_id = ?", tableID, bookingID).
		Updates(map[string]any{
			"status":             models.TableEmpty,
			"current_booking_id": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
