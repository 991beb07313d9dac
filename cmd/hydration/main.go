// Package main — точка входа сервиса.
// Команды: serve (HTTP API + планировщик), migrate, test-notify.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	// Настраиваем логирование до чтения конфигурации
	setupLogging("debug", "text")

	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Error("Команда завершилась с ошибкой")
		os.Exit(1)
	}
}
