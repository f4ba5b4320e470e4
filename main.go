package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/minhvt/restaurant-reservation/config"
	"github.com/minhvt/restaurant-reservation/internal/consumer"
	"github.com/minhvt/restaurant-reservation/internal/handler"
	"github.com/minhvt/restaurant-reservation/internal/middleware"
	"github.com/minhvt/restaurant-reservation/internal/models"
	"github.com/minhvt/restaurant-reservation/internal/realtime"
	"github.com/minhvt/restaurant-reservation/internal/repository"
	"github.com/minhvt/restaurant-reservation/internal/service"
	"github.com/minhvt/restaurant-reservation/pkg/database"
	"github.com/minhvt/restaurant-reservation/pkg/paymentcode"
	"github.com/minhvt/restaurant-reservation/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// Real-time fan-out through RabbitMQ; the websocket gateway consumes
	// the same exchange.
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()
	bus := realtime.NewRabbitBus(publisher)

	// Repositories
	tableRepo := repository.NewTableRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	menuRepo := repository.NewMenuRepository(db)

	// Services
	notifSvc := service.NewNotificationService(notifRepo, bus)
	tableSvc := service.NewTableService(tableRepo, bookingRepo, orderRepo, notifSvc, bus)
	bookingSvc := service.NewBookingService(bookingRepo, tableRepo, menuRepo, txRepo, notifSvc, bus, cfg.MinDeposit)
	orderSvc := service.NewOrderService(orderRepo, tableRepo, menuRepo, bus)
	settlementSvc := service.NewSettlementService(orderRepo, bookingRepo, tableRepo, txRepo, bookingSvc, notifSvc, bus)

	// Payment gateway webhook events arrive over RabbitMQ and funnel into
	// the same idempotent confirmation path as manual staff confirmation.
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ consumer: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}
	consumer.NewPaymentConsumer(settlementSvc).Start(msgs)

	// Audit pass: a table must never stay occupied with no live claimant.
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			if freed, err := tableSvc.ReleaseOrphans(context.Background()); err != nil {
				log.Printf("orphan sweep failed: %v", err)
			} else if freed > 0 {
				log.Printf("orphan sweep released %d table(s)", freed)
			}
		}
	}()

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "reservation-service"})
	})

	api := e.Group("/api/v1", middleware.JWT(cfg.JWTSecret, false))
	staff := middleware.RequireRole(models.RoleEmployee, models.RoleAdmin)

	codes := paymentcode.NewBuilder(cfg.PaymentCodeBaseURL, cfg.BankCode, cfg.BankAccount)

	handler.NewBookingHandler(bookingSvc).RegisterRoutes(api, staff)
	handler.NewTableHandler(tableSvc).RegisterRoutes(api, staff)
	handler.NewOrderHandler(orderSvc, settlementSvc).RegisterRoutes(api, staff)
	handler.NewPaymentHandler(settlementSvc, bookingSvc, codes).RegisterRoutes(api, staff)
	handler.NewNotificationHandler(notifSvc).RegisterRoutes(api)

	log.Printf("Reservation Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
