package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Monitor  MonitorConfig
	Push     PushConfig
	Auth     AuthConfig
	Metrics  MetricsConfig
	Webhook  WebhookConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
	MaxIdleConns   int
	MigrationsPath string
}

type MonitorConfig struct {
	Interval     time.Duration
	ProbeTimeout time.Duration
	UserAgent    string
	BatchSize    int
}

type PushConfig struct {
	AppID   string
	APIKey  string
	BaseURL string
}

type AuthConfig struct {
	JWTSecret string
}

type MetricsConfig struct {
	RemoteWriteURL string
	AuthToken      string
	BatchSize      int
	FlushInterval  time.Duration
}

type WebhookConfig struct {
	RatePerSecond float64
	RateBurst     int
}

func Load() (*Config, error) {
	// .env is optional, used for local development
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvPrefix("MCM")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.maxconnections", 25)
	viper.SetDefault("database.maxidleconns", 5)
	viper.SetDefault("database.migrationspath", "migrations")
	viper.SetDefault("monitor.interval", "5m")
	viper.SetDefault("monitor.probetimeout", "10s")
	viper.SetDefault("monitor.useragent", "MCM-Alerts-Monitor/1.0")
	viper.SetDefault("monitor.batchsize", 25)
	viper.SetDefault("push.baseurl", "https://onesignal.com/api/v1")
	viper.SetDefault("metrics.batchsize", 1000)
	viper.SetDefault("metrics.flushinterval", "10s")
	viper.SetDefault("webhook.ratepersecond", 10)
	viper.SetDefault("webhook.rateburst", 20)

	var cfg Config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Override with environment variables
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if appID := os.Getenv("ONESIGNAL_APP_ID"); appID != "" {
		cfg.Push.AppID = appID
	}
	if key := os.Getenv("ONESIGNAL_API_KEY"); key != "" {
		cfg.Push.APIKey = key
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if url := os.Getenv("REMOTE_WRITE_URL"); url != "" {
		cfg.Metrics.RemoteWriteURL = url
	}
	if token := os.Getenv("REMOTE_WRITE_AUTH_TOKEN"); token != "" {
		cfg.Metrics.AuthToken = token
	}

	return &cfg, nil
}
