package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv    string
	LogLevel  string
	LogFormat string

	// APIBaseURL is the root of the remote commerce API.
	APIBaseURL string

	// Redis backs the durable client storage. An empty addr falls back to
	// in-memory storage, which loses the guest cart on restart.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StoragePrefix string
}

// Load reads storefront.yaml when present, then lets environment variables
// override. A missing file is fine; defaults cover everything.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("app_env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("api_base_url", "https://api.animexschool.com")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("storage_prefix", "storefront")

	v.SetConfigName("storefront")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return Config{
		AppEnv:        v.GetString("app_env"),
		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
		APIBaseURL:    v.GetString("api_base_url"),
		RedisAddr:     v.GetString("redis_addr"),
		RedisPassword: v.GetString("redis_password"),
		RedisDB:       v.GetInt("redis_db"),
		StoragePrefix: v.GetString("storage_prefix"),
	}, nil
}
