package main

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`

	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`

	DB struct {
		Host     string `mapstructure:"POSTGRES_HOST"`
		Port     string `mapstructure:"POSTGRES_PORT"`
		User     string `mapstructure:"POSTGRES_USER"`
		Password string `mapstructure:"POSTGRES_PASSWORD"`
		Name     string `mapstructure:"POSTGRES_DB"`
	}

	Auth struct {
		// AccessTokenTTL is how long an issued bearer token stays valid.
		AccessTokenTTL time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	}

	Limiter struct {
		Enabled bool    `mapstructure:"LIMITER_ENABLED"`
		RPS     float64 `mapstructure:"LIMITER_RPS"`
		Burst   int     `mapstructure:"LIMITER_BURST"`
	}

	Mail struct {
		Host     string `mapstructure:"MAIL_HOST"`
		Port     int    `mapstructure:"MAIL_PORT"`
		User     string `mapstructure:"MAIL_USER"`
		Password string `mapstructure:"MAIL_PASSWORD"`
		Sender   string `mapstructure:"MAIL_SENDER"`
	}

	RabbitMQ struct {
		Host     string `mapstructure:"RABBITMQ_HOST"`
		Port     string `mapstructure:"RABBITMQ_PORT"`
		User     string `mapstructure:"RABBITMQ_USER"`
		Password string `mapstructure:"RABBITMQ_PASSWORD"`
	}
}

func loadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetConfigType("env")
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := unmarshalConfig(&config); err != nil {
		return nil, err
	}

	setDefaults(&config)

	return &config, nil
}

// unmarshalConfig maps the flat env keys onto the nested config struct.
func unmarshalConfig(config *Config) error {
	if err := viper.Unmarshal(config); err != nil {
		return err
	}

	sections := []any{
		&config.DB,
		&config.Auth,
		&config.Limiter,
		&config.Mail,
		&config.RabbitMQ,
	}

	for _, section := range sections {
		if err := viper.Unmarshal(section); err != nil {
			return err
		}
	}

	return nil
}

func setDefaults(config *Config) {
	if config.Port == "" {
		config.Port = ":4800"
	}

	if config.Version == "" {
		config.Version = "1.0.0"
	}

	if config.Limiter.RPS <= 0 {
		config.Limiter.RPS = 2
	}

	if config.Limiter.Burst <= 0 {
		config.Limiter.Burst = 4
	}
}
