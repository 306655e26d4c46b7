package journal

import (
	"context"

	"go.uber.org/fx"

	"vault_console/internal/exec"
	"vault_console/internal/modules/journal/service"
)

func Module() fx.Option {
	return fx.Module("journal",
		fx.Provide(
			service.NewStore, // *service.Store
		),
		// Адаптер: *service.Store -> exec.Journal
		fx.Provide(
			func(s *service.Store) exec.Journal {
				return s
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, s *service.Store) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return s.Migrate(ctx)
				},
			})
		}),
	)
}
