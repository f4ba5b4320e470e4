package repository

import (
	"context"

	"github.com/minhvt/restaurant-reservation/internal/models"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindLatestByTable(ctx context.Context, tableID uint) (*models.Order, error)
	FindLatestByTableForUpdate(ctx context.Context, tx *gorm.DB, tableID uint) (*models.Order, error)
	FindPendingByTableForUpdate(ctx context.Context, tx *gorm.DB, tableID uint) (*models.Order, error)
	AddItems(ctx context.Context, tx *gorm.DB, orderID uint, items []models.OrderItem) error
	UpdateTotal(ctx context.Context, tx *gorm.DB, orderID uint, total float64) error
	UpdateStatusIf(ctx context.Context, tx *gorm.DB, id uint, from, to models.OrderStatus) (bool, error)
	GetDB() *gorm.DB
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *orderRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *orderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindLatestByTable(ctx context.Context, tableID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("table_id = ?", tableID).
		Order("id DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindLatestByTableForUpdate(ctx context.Context, tx *gorm.DB, tableID uint) (*models.Order, error) {
	var order models.Order
	err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		Where("table_id = ?", tableID).
		Order("id DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindPendingByTableForUpdate(ctx context.Context, tx *gorm.DB, tableID uint) (*models.Order, error) {
	var order models.Order
	err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		Where("table_id = ? AND status = ?", tableID, models.OrderPending).
		Order("id DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) AddItems(ctx context.Context, tx *gorm.DB, orderID uint, items []models.OrderItem) error {
	for i := range items {
		items[i].OrderID = orderID
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepository) UpdateTotal(ctx context.Context, tx *gorm.DB, orderID uint, total float64) error {
	return tx.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("total_amount", total).Error
}

func (r *orderRepository) UpdateStatusIf(ctx context.Context, tx *gorm.DB, id uint, from, to models.OrderStatus) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
