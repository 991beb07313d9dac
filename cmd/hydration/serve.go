package main

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"serotonyl.ru/hydration/internal/app"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API и планировщик напоминаний",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			log.Info("=== Сервис запускается ===")

			// Контекст отменяется по SIGINT/SIGTERM (Ctrl+C, docker stop)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			if application.Scheduler != nil {
				if err := application.Scheduler.Start(ctx); err != nil {
					return err
				}
				defer application.Scheduler.Stop()
			}

			errCh := make(chan error, 1)
			go func() { errCh <- application.Server.Start() }()

			log.Info("=== Сервис готов к работе ===")

			select {
			case err := <-errCh:
				if err != nil {
					return err
				}
			case <-ctx.Done():
				log.Info("Получен сигнал остановки, завершаем запросы...")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
			defer cancel()
			if err := application.Server.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("HTTP-сервер остановлен с ошибкой")
			}

			log.Info("=== Сервис остановлен ===")
			return nil
		},
	}
}
