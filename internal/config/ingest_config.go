package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/talentsync/job-ingest/internal/domain/models"
)

// SearchPair mirrors one (keyword, location) entry in the config file.
type SearchPair struct {
	Keyword  string `mapstructure:"keyword"`
	Location string `mapstructure:"location"`
}

type IngestConfig struct {
	Keywords               []string      `mapstructure:"keywords"`
	Locations              []string      `mapstructure:"locations"`
	Priority               []SearchPair  `mapstructure:"priority"`
	MaxSampledCombinations int           `mapstructure:"max_sampled_combinations"`
	ShortDelay             time.Duration `mapstructure:"short_delay"`
	LongDelay              time.Duration `mapstructure:"long_delay"`
	MergePolicy            string        `mapstructure:"merge_policy"`
	JobExpirationInDays    int           `mapstructure:"job_expiration_days"`
	Schedule               string        `mapstructure:"schedule"`
}

func setIngestDefaults() {
	viper.SetDefault("ingest.keywords", []string{
		"Software Engineer Intern",
		"SDE Intern",
		"Full Stack Intern",
		"Software Engineering Intern",
		"Entry Level Software Engineer",
	})
	viper.SetDefault("ingest.locations", []string{
		"Silicon Valley, CA",
		"San Jose, CA",
		"Mountain View, CA",
		"Palo Alto, CA",
		"Sunnyvale, CA",
	})
	viper.SetDefault("ingest.max_sampled_combinations", 6)
	viper.SetDefault("ingest.short_delay", 2*time.Second)
	viper.SetDefault("ingest.long_delay", 10*time.Second)
	viper.SetDefault("ingest.merge_policy", string(models.MergeReplace))
	viper.SetDefault("ingest.job_expiration_days", 30)
}

func (config IngestConfig) validate() error {

	if len(config.Keywords) == 0 {
		return fmt.Errorf("missing variable: ingest keywords")
	}

	if len(config.Locations) == 0 {
		return fmt.Errorf("missing variable: ingest locations")
	}

	if config.MaxSampledCombinations < 0 {
		return fmt.Errorf("max sampled combinations must be non-negative")
	}

	if _, err := models.ToMergePolicy(config.MergePolicy); err != nil {
		return fmt.Errorf("invalid merge policy: %v", config.MergePolicy)
	}

	if config.ShortDelay < 0 || config.LongDelay < 0 {
		return fmt.Errorf("delays must be non-negative")
	}

	if config.JobExpirationInDays <= 0 {
		return fmt.Errorf("job expiration in days must be greater than zero")
	}

	return nil
}
