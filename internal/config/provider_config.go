package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type ProviderConfig struct {
	APIKey               string  `mapstructure:"api_key"`
	Host                 string  `mapstructure:"host"`
	MaxRequestsPerSecond float32 `mapstructure:"max_requests_per_second"`
}

func (config ProviderConfig) validate() error {

	var missingFields []string

	// no hardcoded fallback key: a missing credential is fatal at startup
	if config.APIKey == "" {
		missingFields = append(missingFields, "api_key")
	}

	if config.Host == "" {
		missingFields = append(missingFields, "host")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	return nil
}

func (config ProviderConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("provider.api_key", "JSEARCH_API_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("provider.host", "JSEARCH_HOST"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
