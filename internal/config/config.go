package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingAppID is returned when app_id is absent after env expansion.
var ErrMissingAppID = errors.New("config: app_id is required")

type Config struct {
	AppID             string          `yaml:"app_id"`
	DSN               string          `yaml:"dsn"`
	Debug             bool            `yaml:"debug"`
	ResourceWatch     bool            `yaml:"resource_watch"`
	ClickWatch        bool            `yaml:"click_watch"`
	BreadcrumbEnabled bool            `yaml:"breadcrumb_enabled"`
	PerfWatch         bool            `yaml:"perf_watch"`
	MaxBreadcrumb     int             `yaml:"max_breadcrumb"`
	MaxResources      int             `yaml:"max_resources"`
	SendInterval      time.Duration   `yaml:"send_interval"`
	FingerprintSeed   string          `yaml:"fingerprint_seed"`
	Environment       EnvironmentInfo `yaml:"environment"`
	Transport         TransportConfig `yaml:"transport"`
	Server            ServerConfig    `yaml:"server"`
}

// EnvironmentInfo describes the host page the agent reports for.
type EnvironmentInfo struct {
	URL                 string `yaml:"url"`
	UserAgent           string `yaml:"user_agent"`
	SupportsLayoutShift bool   `yaml:"supports_layout_shift"`
}

type TransportConfig struct {
	Kind       string            `yaml:"kind"`
	Codec      string            `yaml:"codec"`
	Gzip       bool              `yaml:"gzip"`
	Timeout    time.Duration     `yaml:"timeout"`
	Headers    map[string]string `yaml:"headers"`
	Kafka      KafkaConfig       `yaml:"kafka"`
	Redis      RedisConfig       `yaml:"redis"`
	ClickHouse ClickHouseConfig  `yaml:"clickhouse"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Stream   string `yaml:"stream"`
	MaxLen   int64  `yaml:"max_len"`
}

type ClickHouseConfig struct {
	Addr         string `yaml:"addr"`
	Database     string `yaml:"database"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Table        string `yaml:"table"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type ServerConfig struct {
	HTTPPort int `yaml:"http_port"`
}

// Transport kinds.
const (
	KindHTTP       = "http"
	KindKafka      = "kafka"
	KindRedis      = "redis"
	KindClickHouse = "clickhouse"
	KindLog        = "log"
)

// Default returns a config with every default applied and no app id.
func Default() *Config {
	cfg := &Config{BreadcrumbEnabled: true}
	cfg.ApplyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML after expanding environment variables, then fills
// defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Config{BreadcrumbEnabled: true}
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills every zero-valued field that has a default. Booleans
// are left as given.
func (c *Config) ApplyDefaults() {
	if c.MaxBreadcrumb == 0 {
		c.MaxBreadcrumb = 10
	}
	if c.MaxResources == 0 {
		c.MaxResources = 100
	}
	if c.SendInterval == 0 {
		c.SendInterval = time.Second
	}
	if c.Transport.Kind == "" {
		if c.DSN != "" {
			c.Transport.Kind = KindHTTP
		} else {
			c.Transport.Kind = KindLog
		}
	}
	if c.Transport.Codec == "" {
		c.Transport.Codec = "json"
	}
	if c.Transport.Timeout == 0 {
		c.Transport.Timeout = 5 * time.Second
	}
	if c.Transport.Kafka.Topic == "" {
		c.Transport.Kafka.Topic = "trace-records"
	}
	if c.Transport.Redis.Stream == "" {
		c.Transport.Redis.Stream = "trace-records"
	}
	if c.Transport.ClickHouse.Table == "" {
		c.Transport.ClickHouse.Table = "trace_records"
	}
	if c.Transport.ClickHouse.MaxOpenConns == 0 {
		c.Transport.ClickHouse.MaxOpenConns = 10
	}
	if c.Transport.ClickHouse.MaxIdleConns == 0 {
		c.Transport.ClickHouse.MaxIdleConns = 5
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8089
	}
}

// Validate checks the fields that have no usable default.
func (c *Config) Validate() error {
	if c.AppID == "" {
		return ErrMissingAppID
	}
	if c.MaxBreadcrumb < 0 {
		return fmt.Errorf("config: max_breadcrumb must not be negative, got %d", c.MaxBreadcrumb)
	}
	if c.MaxResources < 0 {
		return fmt.Errorf("config: max_resources must not be negative, got %d", c.MaxResources)
	}
	if c.SendInterval < 0 {
		return fmt.Errorf("config: send_interval must be positive, got %s", c.SendInterval)
	}
	switch c.Transport.Kind {
	case KindHTTP:
		if c.DSN == "" {
			return errors.New("config: http transport needs dsn")
		}
	case KindKafka:
		if len(c.Transport.Kafka.Brokers) == 0 {
			return errors.New("config: kafka transport needs brokers")
		}
	case KindRedis:
		if c.Transport.Redis.Addr == "" {
			return errors.New("config: redis transport needs addr")
		}
	case KindClickHouse:
		if c.Transport.ClickHouse.Addr == "" {
			return errors.New("config: clickhouse transport needs addr")
		}
	case KindLog:
	default:
		return fmt.Errorf("config: unknown transport kind %q", c.Transport.Kind)
	}
	return nil
}
