package ledger

import (
	"context"

	"go.uber.org/fx"

	"vault_console/internal/modules/ledger/service"
	"vault_console/internal/runner"
)

func Module() fx.Option {
	return fx.Module("ledger",
		fx.Provide(
			service.NewClient, // *service.Client
		),
		// Адаптер: снимки контракта для воркера опроса
		fx.Provide(
			func(c *service.Client) runner.OnchainSource {
				return c
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, c *service.Client) {
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					c.Close()
					return nil
				},
			})
		}),
	)
}
