package telegram_bot

import (
	"context"

	"go.uber.org/fx"

	"vault_console/internal/exec"
	backendsvc "vault_console/internal/modules/backend/service"
	journalsvc "vault_console/internal/modules/journal/service"
	ledgersvc "vault_console/internal/modules/ledger/service"
	"vault_console/internal/modules/config"
	"vault_console/internal/modules/telegram_bot/service"
	"vault_console/internal/notify"
)

// journalReader переводит строки журнала в вид для чата.
type journalReader struct {
	store *journalsvc.Store
}

func (r journalReader) Recent(ctx context.Context, vault string, limit int) ([]service.Entry, error) {
	rows, err := r.store.Recent(ctx, vault, limit)
	if err != nil {
		return nil, err
	}
	out := make([]service.Entry, 0, len(rows))
	for _, e := range rows {
		out = append(out, service.Entry{
			Symbol:  e.Symbol,
			Side:    e.Side,
			Size:    e.Size,
			Outcome: e.Outcome,
			Reason:  e.Reason,
			DryRun:  e.DryRun,
		})
	}
	return out, nil
}

func Module() fx.Option {
	return fx.Module("telegram_bot",
		fx.Provide(
			func(
				cfg *config.Config,
				coord *exec.Coordinator,
				backend *backendsvc.Client,
				ledger *ledgersvc.Client,
				journal *journalsvc.Store,
			) *service.Commands {
				return service.NewCommands(cfg, coord, backend, ledger, journalReader{store: journal})
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, n notify.Notifier, cmds *service.Commands) {
			tg, ok := n.(*notify.Telegram)
			if !ok {
				return // stdout-режим, команд нет
			}
			tg.SetCommands(cmds)

			var cancel context.CancelFunc
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					var ctx context.Context
					ctx, cancel = context.WithCancel(context.Background())
					return tg.Start(ctx)
				},
				OnStop: func(_ context.Context) error {
					if cancel != nil {
						cancel()
					}
					tg.Stop()
					return nil
				},
			})
		}),
	)
}
