package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string   `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Storage  string   `yaml:"storage" env:"STORAGE" env-default:"memory"`
	Redis    Redis    `yaml:"redis"`
	Timeouts Timeouts `yaml:"timeouts"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Timeouts are the inactivity windows of sessions and the janitor interval.
type Timeouts struct {
	Game         time.Duration `yaml:"game" env:"TIMEOUT_GAME" env-default:"15m"`
	OpenInvite   time.Duration `yaml:"open-invite" env:"TIMEOUT_OPEN_INVITE" env-default:"10m"`
	DirectInvite time.Duration `yaml:"direct-invite" env:"TIMEOUT_DIRECT_INVITE" env-default:"5m"`
	Sweep        time.Duration `yaml:"sweep" env:"TIMEOUT_SWEEP" env-default:"30s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if err := config.Validate(); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	return config
}

func (that *Config) Validate() error {
	if that.Storage != StorageMemory && that.Storage != StorageRedis {
		return fmt.Errorf("unknown storage %q", that.Storage)
	}

	if that.Timeouts.Game <= 0 || that.Timeouts.OpenInvite <= 0 || that.Timeouts.DirectInvite <= 0 || that.Timeouts.Sweep <= 0 {
		return errors.New("timeouts must be positive")
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" || that.Port == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
