package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/dashboard"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/handler"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/inventory"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/notify"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/report"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/repository/memory"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	/**********************************************
	 * store
	 **********************************************/
	var store inventory.Store
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		store = memory.New()
	default:
		dbpool, err := openDatabase(cfg)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			return
		}
		defer dbpool.Close()

		if cfg.Database.AutoMigrate {
			if err := repository.RunMigrations(dbpool); err != nil {
				logger.Error("failed to migrate database", "error", err)
				return
			}
		}
		store = repository.NewRepository(cfg, dbpool)
	}

	/**********************************************
	 * services
	 **********************************************/
	validator, err := utils.NewValidator()
	if err != nil {
		logger.Error("failed to create validator", "error", err)
		return
	}

	m := metrics.New()
	inv := inventory.NewService(store, validator, inventory.WithRecorder(m))
	reports := report.NewService(inv)

	dashOpts := []dashboard.Option{
		dashboard.WithWarrantyWindow(cfg.Dashboard.WarrantyWindowDays, cfg.Dashboard.WarrantyAlertLimit),
	}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       0,
		})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			// the dashboard still works uncached
			logger.Warn("redis unavailable, dashboard cache disabled", "error", err)
		} else {
			dashOpts = append(dashOpts, dashboard.WithCache(dashboard.NewRedisCache(rdb), time.Duration(cfg.Dashboard.CacheTTL)*time.Second))
		}
	}
	dash := dashboard.NewService(store, dashOpts...)

	/**********************************************
	 * rabbitmq
	 **********************************************/
	var mail handler.MailPublisher
	if cfg.RabbitMQ.DSN != "" {
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			return
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			logger.Error("failed to open channel", "error", err)
			return
		}
		defer ch.Close()

		if _, err := notify.DeclareQueue(ch, cfg.RabbitMQ.Queue); err != nil {
			logger.Error("failed to declare queue", "error", err)
			return
		}
		mail = notify.NewPublisher(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
	} else {
		logger.Warn("RABBITMQ_DSN not set, notification mail disabled")
	}

	/**********************************************
	 * handler
	 **********************************************/
	h := handler.NewHandler(cfg, validator, inv, reports, dash, m, mail)
	h.RegisterRoutes()

	/**********************************************
	 * HTTP server
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      h.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", "port", cfg.Server.Port, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("failed to shut down server", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}

func openDatabase(cfg *config.Config) (*sql.DB, error) {
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not connect, ping to fail fast
	if err := dbpool.PingContext(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}

	return dbpool, nil
}
