// @title        User Management API
// @version      1.0
// @description  CRUD over user records with lifecycle event notification
// @host         localhost:8080
package main

import (
	"context"
	"os"

	"messenger-user-management/internal/cache"
	"messenger-user-management/internal/config"
	"messenger-user-management/internal/database"
	"messenger-user-management/internal/events"
	"messenger-user-management/internal/router"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// CustomValidator wraps go-playground/validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// notifier is what run needs from the events component.
type notifier interface {
	events.Notifier
	Close() error
}

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	newNotifier     = func(ctx context.Context, url string) (notifier, error) {
		return events.NewRabbitNotifier(ctx, url)
	}
	startServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc    = os.Exit
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "service").Logger()

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing redis client")
		}
	}()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return err
	}

	// Broker topology must be in place before the first request is served;
	// NewRabbitNotifier fails when it cannot be declared in time.
	nt, err := newNotifier(ctx, cfg.RabbitURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := nt.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing notifier")
		}
	}()

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	router.Setup(e, db, rdb, nt)

	return startServer(e, cfg.HTTPAddr)
}

func main() {
	if err := run(); err != nil {
		logger.Error().Err(err).Msg("service failed")
		exitFunc(1)
	}
}
