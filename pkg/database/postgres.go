package database

import (
	"log"

	"github.com/minhvt/restaurant-reservation/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Table{},
		&models.MenuItem{},
		&models.Booking{},
		&models.BookingItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Transaction{},
		&models.Notification{},
		&models.NotificationReceipt{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial unique index: at most one completed deposit per booking,
	// backing the idempotent manual-confirmation path.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_one_completed_deposit
		ON transactions (booking_id)
		WHERE type = 'deposit' AND status = 'completed'
	`)

	// Partial unique index: a table can be claimed by at most one
	// non-terminal booking at a time.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_claim
		ON bookings (table_id)
		WHERE status = 'confirmed'
	`)

	return db
}
