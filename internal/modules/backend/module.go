package backend

import (
	"go.uber.org/fx"

	"vault_console/internal/exec"
	"vault_console/internal/modules/backend/service"
	"vault_console/internal/runner"
)

func Module() fx.Option {
	return fx.Module("backend",
		fx.Provide(
			service.NewClient, // *service.Client
		),
		// Адаптеры: *service.Client -> интерфейсы потребителей
		fx.Provide(
			func(c *service.Client) exec.Backend {
				return c
			},
			func(c *service.Client) runner.StatusSource {
				return c
			},
			func(c *service.Client) runner.EventsSource {
				return c
			},
		),
	)
}
