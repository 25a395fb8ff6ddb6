package config

import (
	"fmt"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Name string
		Port string
	}
	Database struct {
		Host         string
		Port         string
		User         string
		Password     string
		Name         string
		SSLMode      string
		MaxIdleConns int
		MaxOpenConns int
	}
	Redis struct {
		Addr     string
		DB       int
		Password string
	}
	RabbitMQ struct {
		Url   string
		Queue string
	}
	JWT struct {
		Secret      string
		ExpiryHours int
	}
}

// Load reads config.yml from dir, with environment variables taking
// precedence (DB_HOST overrides database.host and so on). A missing file
// is fine as long as the environment carries the required values.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(dir)

	v.SetDefault("app.name", "codeflow")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxidleconns", 10)
	v.SetDefault("database.maxopenconns", 100)
	v.SetDefault("jwt.expiryhours", 72)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	bindings := map[string]string{
		"app.port":          "PORT",
		"database.host":     "DB_HOST",
		"database.port":     "DB_PORT",
		"database.user":     "DB_USER",
		"database.password": "DB_PASSWORD",
		"database.name":     "DB_NAME",
		"database.sslmode":  "DB_SSLMODE",
		"redis.addr":        "REDIS_ADDR",
		"redis.password":    "REDIS_PASSWORD",
		"rabbitmq.url":      "RABBITMQ_URL",
		"rabbitmq.queue":    "RABBITMQ_QUEUE",
		"jwt.secret":        "JWT_SECRET",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Database.Host, c.Database.User, c.Database.Password,
		c.Database.Name, c.Database.Port, c.Database.SSLMode,
	)
}

// TokenTTL is how long issued JWTs stay valid.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.ExpiryHours) * time.Hour
}
