package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/inventory"
)

var _ inventory.Store = (*Repository)(nil)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
	tx     *sql.Tx
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

func (r *Repository) conn() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.dbpool
}

func (r *Repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

// lockClause makes single row reads inside a transaction take a row lock, so
// concurrent lifecycle operations on the same asset serialize.
func (r *Repository) lockClause() string {
	if r.tx != nil {
		return " FOR UPDATE"
	}
	return ""
}

func (r *Repository) InTx(ctx context.Context, fn func(tx inventory.Store) error) error {
	if r.tx != nil {
		return fn(r)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&Repository{cfg: r.cfg, dbpool: r.dbpool, tx: tx}); err != nil {
		return err
	}

	return tx.Commit()
}
