package config

import (
	"github.com/spf13/viper"
)

// Config holds the runtime configuration, loaded from environment variables.
type Config struct {
	AppPort     string
	AppEnv      string
	DBDriver    string
	DBDSN       string
	RabbitMQURL string
	LogLevel    string
}

// Load reads configuration from the environment with sensible defaults.
// DB_DRIVER selects the storage backend: mysql, postgres, sqlite or mock.
// An empty RABBITMQ_URL disables event publishing.
func Load() *Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_DRIVER", "mysql")
	viper.SetDefault("DB_DSN", "root:root@tcp(localhost:3306)/catalogo?charset=utf8mb4&parseTime=True&loc=Local")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.AutomaticEnv()

	return &Config{
		AppPort:     viper.GetString("APP_PORT"),
		AppEnv:      viper.GetString("APP_ENV"),
		DBDriver:    viper.GetString("DB_DRIVER"),
		DBDSN:       viper.GetString("DB_DSN"),
		RabbitMQURL: viper.GetString("RABBITMQ_URL"),
		LogLevel:    viper.GetString("LOG_LEVEL"),
	}
}

// IsProduction reports whether the app runs in production mode, which
// suppresses internal error detail in HTTP responses.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
