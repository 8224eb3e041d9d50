package config

import "github.com/spf13/viper"

// TelegramConfig is optional: without a token the notifier is disabled.
type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

func (config TelegramConfig) Enabled() bool {
	return config.Token != "" && config.ChatID != 0
}

func (config TelegramConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("telegram.token", "TG_TOKEN"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("telegram.chat_id", "TG_CHAT_ID"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
