package postgres

import (
	"context"
	"fmt"
	"vault_console/internal/modules/config"
	"vault_console/pkg/db"

	"go.uber.org/fx"
)

// Пул и TxManager живут в fx-графе, журнал берёт их оттуда.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, cfg *config.Config) (*db.PgTxManager, error) {
				if cfg.DB == "" {
					return nil, nil // журнал работает без БД в no-op режиме
				}
				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					return nil, err
				}

				return db.NewPgTxManager(poolMaster), nil
			},
		),
	)
}
