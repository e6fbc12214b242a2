package bot

import "github.com/caarlos0/env/v11"

// Config is the process-level bot configuration.
type Config struct {
	// DiscordToken authenticates the gateway session.
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`
}

// LoadConfig reads the configuration from environment variables and
// fails when a required variable is missing or empty.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
