package repository

import (
	"context"

	"github.com/minhvt/restaurant-reservation/internal/models"
	"gorm.io/gorm"
)

// MenuRepository is read-only here; menu management belongs to the
// backoffice service sharing the same database.
type MenuRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error)
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
