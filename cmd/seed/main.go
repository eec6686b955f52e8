package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/inventory"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/seed"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var emailDomain string

	flag.IntVar(&op, "op", 0, "operation to run (1: random employees, 2: random assets, 3: sample data)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.StringVar(&emailDomain, "email-domain", "company.com", "email domain for random employees")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.Store != config.StorePostgres {
		logger.Error("seeding needs STORE_DRIVER=postgres", slog.String("store", string(cfg.Store)))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	if cfg.Database.AutoMigrate {
		if err := repository.RunMigrations(dbpool); err != nil {
			logger.Error("failed to migrate database", "error", err)
			return
		}
	}

	validator, err := utils.NewValidator()
	if err != nil {
		logger.Error("failed to create validator", "error", err)
		return
	}
	svc := inventory.NewService(repository.NewRepository(cfg, dbpool), validator)

	// the connect timeout above only covers the ping
	ctx = context.Background()

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		if n <= 0 {
			slog.Error("invalid employee count")
			return
		}
		cnt := 0
		for i := 0; i < n; i++ {
			employee := utils.GenerateRandomEmployee(emailDomain)
			if err := svc.AddEmployee(ctx, employee); err != nil {
				slog.Error("failed to insert employee", slog.String("email", employee.Email), slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
		slog.Info("employees inserted", slog.Int("count", cnt))
	case 2:
		if n <= 0 {
			slog.Error("invalid asset count")
			return
		}
		cnt := 0
		for i := 0; i < n; i++ {
			asset := utils.GenerateRandomAsset()
			if err := svc.AddAsset(ctx, asset); err != nil {
				slog.Error("failed to insert asset", slog.String("serial_number", asset.SerialNumber), slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
		slog.Info("assets inserted", slog.Int("count", cnt))
	case 3:
		if err := seed.SeedSampleData(ctx, svc, time.Now()); err != nil {
			slog.Error("failed to seed sample data", slog.String("error", err.Error()))
		}
	default:
		slog.Error("unknown operation", slog.Int("op", op))
	}
}
