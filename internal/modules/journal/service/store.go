package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"

	"vault_console/internal/models"
	"vault_console/pkg/db"
)

// Store пишет каждую попытку исполнения в Postgres. Это локальный
// аудит поверх ленты бэкенда: живёт и тогда, когда бэкенд недоступен.
type Store struct {
	db *db.PgTxManager // nil — журнал выключен
}

func NewStore(tm *db.PgTxManager) *Store {
	return &Store{db: tm}
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS exec_journal (
	id         BIGSERIAL PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	vault      TEXT NOT NULL,
	venue      TEXT NOT NULL,
	symbol     TEXT NOT NULL,
	side       TEXT NOT NULL,
	size       DOUBLE PRECISION NOT NULL,
	outcome    TEXT NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	tx_ref     TEXT NOT NULL DEFAULT '',
	dry_run    BOOLEAN NOT NULL DEFAULT FALSE,
	payload    JSONB
)`

// Migrate создаёт таблицу журнала. Отдельного мигратора у сервиса нет,
// схема из одной таблицы живёт рядом с кодом.
func (s *Store) Migrate(ctx context.Context) (err error) {
	if s.db == nil {
		return nil
	}
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Migrate: %w", err)
		}
	}()
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, createTableSQL)
		return err
	})
}

func (s *Store) Record(ctx context.Context, req models.OrderRequest, out models.ExecutionOutcome) (err error) {
	if s.db == nil {
		return nil
	}
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Record: %w", err)
		}
	}()

	payload, _ := sonic.Marshal(map[string]any{
		"request": req,
		"raw":     string(out.RawPayload),
	})

	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, `
			INSERT INTO exec_journal (vault, venue, symbol, side, size, outcome, reason, tx_ref, dry_run, payload)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			req.Vault, req.Venue, req.Symbol, req.Side, req.Size,
			out.Kind.String(), string(out.Reason), out.TxRef, out.DryRun, payload,
		)
		return err
	})
}

// Entry — строка журнала для выдачи оператору.
type Entry struct {
	ID        int64
	CreatedAt time.Time
	Vault     string
	Venue     string
	Symbol    string
	Side      string
	Size      float64
	Outcome   string
	Reason    string
	TxRef     string
	DryRun    bool
}

// Recent возвращает последние limit записей, новые сверху.
func (s *Store) Recent(ctx context.Context, vault string, limit int) (entries []Entry, err error) {
	if s.db == nil {
		return nil, nil
	}
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Recent: %w", err)
		}
	}()

	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx, `
			SELECT id, created_at, vault, venue, symbol, side, size, outcome, reason, tx_ref, dry_run
			FROM exec_journal
			WHERE vault = $1
			ORDER BY id DESC
			LIMIT $2`,
			vault, limit,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var e Entry
			if err := rows.Scan(
				&e.ID, &e.CreatedAt, &e.Vault, &e.Venue, &e.Symbol, &e.Side,
				&e.Size, &e.Outcome, &e.Reason, &e.TxRef, &e.DryRun,
			); err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return rows.Err()
	})
	return entries, err
}
