package stream

import (
	"context"

	"go.uber.org/fx"

	"vault_console/internal/models"
	"vault_console/internal/modules/config"
	healthsvc "vault_console/internal/modules/health/service"
	"vault_console/internal/modules/stream/service"
	"vault_console/internal/notify"
	"vault_console/internal/runner"
)

func Module() fx.Option {
	return fx.Module("stream",
		fx.Provide(
			service.NewClient, // *service.Client
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			cfg *config.Config,
			c *service.Client,
			st *runner.State,
			hs *healthsvc.State,
			n notify.Notifier,
		) {
			if !c.Enabled() {
				return
			}

			var cancel context.CancelFunc
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					var ctx context.Context
					ctx, cancel = context.WithCancel(context.Background())

					out := make(chan models.EventRecord, 64)
					go c.Run(ctx, out, hs.SetWSConnected)
					go func() {
						for e := range out {
							st.PrependEvent(e, cfg.EventsLimit)
							if e.Status == models.EventStatusRejected && n != nil {
								n.Sendf("🛑 Исполнение отклонено: %s %s — %s", e.Symbol, e.Side, e.Error)
							}
						}
					}()
					return nil
				},
				OnStop: func(_ context.Context) error {
					if cancel != nil {
						cancel()
					}
					return nil
				},
			})
		}),
	)
}
