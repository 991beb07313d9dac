package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"serotonyl.ru/hydration/internal/app"
	"serotonyl.ru/hydration/internal/features/notifications"
)

func newTestNotifyCmd(opts *rootOptions) *cobra.Command {
	var (
		email    string
		name     string
		testType string
	)

	cmd := &cobra.Command{
		Use:   "test-notify",
		Short: "Отправить пробное уведомление через настроенный канал",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			msg, err := application.Notifier.SendTest(cmd.Context(), email, name, testType)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Отправлено: %s\n", msg.Subject)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "адрес получателя")
	cmd.Flags().StringVar(&name, "name", "", "имя для обращения")
	cmd.Flags().StringVar(&testType, "type", notifications.TestProgress,
		fmt.Sprintf("тип сообщения: %s, %s, %s", notifications.TestProgress, notifications.TestComplete, notifications.TestReminder))
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
