package main

import (
	"context"
	"log"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"vault_console/internal/exec"
	"vault_console/internal/modules/backend"
	"vault_console/internal/modules/config"
	"vault_console/internal/modules/health"
	"vault_console/internal/modules/journal"
	"vault_console/internal/modules/ledger"
	"vault_console/internal/modules/postgres"
	"vault_console/internal/modules/stream"
	"vault_console/internal/modules/telegram_bot"
	"vault_console/internal/notify"
	"vault_console/internal/runner"
	"vault_console/pkg/logger"
	"vault_console/pkg/tracing"
)

const serviceName = "vault_console"

func main() {
	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	logger.InfoLogger = zl
	logger.FatalLogger = zl
	logger.SetServiceName(serviceName)
	tracing.SetServiceName(serviceName)

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		backend.Module(),
		ledger.Module(),
		journal.Module(),
		runner.Module(),
		stream.Module(),
		health.Module(),
		telegram_bot.Module(),
		fx.Provide(
			// Notifier: если TELEGRAM_* нет — stdout
			func(cfg *config.Config, status notify.StatusSource) notify.Notifier {
				if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
					if tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, status); err == nil {
						return tg
					}
					logger.Error("telegram init failed, falling back to stdout")
				}
				return notify.NewStdout()
			},
			exec.NewCoordinator,
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) {
			tracer, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				logger.Error("tracer init: %v", err)
				return
			}
			_ = tracer
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					closeTracer()
					return nil
				},
			})
		}),
	)
	app.Run()
}
