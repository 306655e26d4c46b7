package runner

import (
	"context"

	"go.uber.org/fx"

	"vault_console/internal/modules/config"
	"vault_console/internal/notify"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewState, // *State
		),
		// Адаптер: *State -> notify.StatusSource для команды /status
		fx.Provide(
			func(s *State) notify.StatusSource { return s },
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			cfg *config.Config,
			st *State,
			status StatusSource,
			events EventsSource,
			onchain OnchainSource,
		) {
			vault := cfg.Ledger.VaultAddress
			var cancel context.CancelFunc
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					var ctx context.Context
					ctx, cancel = context.WithCancel(context.Background())
					go PollStatus(ctx, status, st, vault, cfg.StatusInterval)
					go PollEvents(ctx, events, st, vault, cfg.EventsLimit, cfg.EventsInterval)
					go PollOnchain(ctx, onchain, st, cfg.OnchainInterval)
					return nil
				},
				OnStop: func(_ context.Context) error {
					if cancel != nil {
						cancel()
					}
					st.Close()
					return nil
				},
			})
		}),
	)
}
