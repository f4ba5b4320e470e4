package service

import (
	"context"
	"errors"
	"log"

	"github.com/minhvt/restaurant-reservation/internal/models"
	"github.com/minhvt/restaurant-reservation/internal/realtime"
	"github.com/minhvt/restaurant-reservation/internal/repository"
	"gorm.io/gorm"
)

type OrderItemInput struct {
	MenuItemID uint
	Quantity   int
}

// OrderService covers the dine-in order attached to an occupied table.
// Orders never claim tables themselves — the confirmed booking is the sole
// authority for occupancy, and items can only be added once a table is
// occupied. Payment lives in the settlement reconciler.
type OrderService interface {
	AddItems(ctx context.Context, tableID uint, items []OrderItemInput) (*models.Order, error)
	GetByTable(ctx context.Context, tableID uint) (*models.Order, error)
}

type orderService struct {
	orders repository.OrderRepository
	tables repository.TableRepository
	menu   repository.MenuRepository
	bus    realtime.EventBus
}

func NewOrderService(
	orders repository.OrderRepository,
	tables repository.TableRepository,
	menu repository.MenuRepository,
	bus realtime.EventBus,
) OrderService {
	return &orderService{orders: orders, tables: tables, menu: menu, bus: bus}
}

func (s *orderService) AddItems(ctx context.Context, tableID uint, inputs []OrderItemInput) (*models.Order, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyItems
	}

	table, err := s.tables.FindByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	if table.Status != models.TableOccupied {
		return nil, ErrTableNotOccupied
	}

	items, _, err := s.snapshotItems(ctx, inputs)
	if err != nil {
		return nil, err
	}

	var orderID uint
	err = s.orders.Transaction(ctx, func(tx *gorm.DB) error {
		order, err := s.orders.FindPendingByTableForUpdate(ctx, tx, tableID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			order = &models.Order{
				TableID:   tableID,
				BookingID: table.CurrentBookingID,
				Items:     items,
				Status:    models.OrderPending,
			}
			for _, it := range items {
				order.TotalAmount += it.UnitPrice * float64(it.Quantity)
			}
			if err := s.orders.Create(ctx, tx, order); err != nil {
				return err
			}
			orderID = order.ID
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.orders.AddItems(ctx, tx, order.ID, items); err != nil {
			return err
		}
		total := order.TotalAmount
		for _, it := range items {
			total += it.UnitPrice * float64(it.Quantity)
		}
		if err := s.orders.UpdateTotal(ctx, tx, order.ID, total); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.bus.Publish(realtime.EventOrderStatusChanged, realtime.StatusPayload{ID: order.ID, Status: string(order.Status)}); err != nil {
		log.Printf("[OrderService] publish order update: %v", err)
	}
	return order, nil
}

// snapshotItems freezes current menu prices into order lines; later menu
// price changes never alter an open order.
func (s *orderService) snapshotItems(ctx context.Context, inputs []OrderItemInput) ([]models.OrderItem, float64, error) {
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

	var items []models.OrderItem
	var total float64
	for _, in := range inputs {
		mi, ok := byID[in.MenuItemID]
		if !ok || !mi.Available {
			return nil, 0, ErrMenuItemUnavailable
		}
		items = append(items, models.OrderItem{
			Name:      mi.Name,
			UnitPrice: mi.Price,
			Quantity:  in.Quantity,
		})
		total += mi.Price * float64(in.Quantity)
	}
	return items, total, nil
}

func (s *orderService) GetByTable(ctx context.Context, tableID uint) (*models.Order, error) {
	order, err := s.orders.FindLatestByTable(ctx, tableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}
