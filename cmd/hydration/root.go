package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"serotonyl.ru/hydration/internal/config"
)

type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "hydration",
		Short:         "Трекер воды: дневные записи, серии, достижения и уведомления",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "путь к .env файлу")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newTestNotifyCmd(opts),
	)
	return cmd
}

// loadConfig загружает конфигурацию и применяет настройки логирования из неё.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.AppLogLevel, cfg.AppLogFormat)
	return cfg, nil
}

// setupLogging настраивает формат и уровень логов.
func setupLogging(level, format string) {
	if format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	log.SetOutput(os.Stdout)

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
