package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/restaurant-orders/internal/config"
	"github.com/iliyamo/restaurant-orders/internal/database"
	"github.com/iliyamo/restaurant-orders/internal/handler"
	"github.com/iliyamo/restaurant-orders/internal/logger"
	"github.com/iliyamo/restaurant-orders/internal/middleware"
	"github.com/iliyamo/restaurant-orders/internal/queue"
	"github.com/iliyamo/restaurant-orders/internal/repository"
	"github.com/iliyamo/restaurant-orders/internal/router"
	"github.com/iliyamo/restaurant-orders/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Environment: cfg.Env})

	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		log.Fatal("connect database", "error", err)
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			log.Fatal("migrate database", "error", err)
		}
		log.Info("schema applied")
	}

	stores := service.Stores{
		Tenants:       repository.NewTenantRepo(db),
		Users:         repository.NewUserRepo(db),
		Tokens:        repository.NewTokenRepo(db),
		Tables:        repository.NewTableRepo(db),
		Products:      repository.NewProductRepo(db),
		Orders:        repository.NewOrderRepo(db),
		Items:         repository.NewItemRepo(db),
		Units:         repository.NewUnitRepo(db),
		Notifications: repository.NewNotificationRepo(db),
		Kitchen:       repository.NewKitchenRepo(db),
	}
	tx := repository.NewTransactor(db)
	publisher := queue.NewPublisher(cfg.AMQPURL, log)

	authSvc := service.NewAuthService(stores, service.AuthConfig{
		JWTSecret:  cfg.JWTSecret,
		AccessTTL:  time.Duration(cfg.AccessTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour,
		BcryptCost: cfg.BcryptCost,
	}, log)
	orderSvc := service.NewOrderService(tx, stores, log)
	unitSvc := service.NewUnitService(tx, stores, publisher, cfg.StrictUnitTransitions, log)
	kitchenSvc := service.NewKitchenService(stores)

	// Redis only backs the rate limiter; without it the limiter passes through.
	rdb, err := config.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, rate limiting disabled", "addr", cfg.Redis.Addr, "error", err)
	} else {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.KitchenConsumerEnabled {
		if cfg.AMQPURL == "" {
			log.Warn("kitchen consumer enabled without a broker url, not starting")
		} else {
			consumer := queue.NewConsumer(cfg.AMQPURL, cfg.KitchenLogPath, log)
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("kitchen consumer stopped", "error", err)
				}
			}()
		}
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}))
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit("1M"))

	router.Register(e, router.Handlers{
		Auth:    handler.NewAuthHandler(authSvc),
		Orders:  handler.NewOrderHandler(orderSvc, unitSvc),
		Kitchen: handler.NewKitchenHandler(kitchenSvc, unitSvc),
	}, middleware.Authenticate(authSvc), middleware.NewTokenBucket(cfg.RateLimit, rdb, log))

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown", "error", err)
	}
}
