package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Web       WebConfig       `yaml:"web"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Evaluator EvaluatorConfig `yaml:"evaluator"`
	Dispatch  DispatchConfig  `yaml:"dispatch"`
	Messaging MessagingConfig `yaml:"messaging"`
}

type WebConfig struct {
	Host           string        `yaml:"host" env:"HWSTATUS_WEB_HOST"`
	Port           int           `yaml:"port" env:"HWSTATUS_WEB_PORT"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"HWSTATUS_WEB_REQUEST_TIMEOUT"`
}

type DatabaseConfig struct {
	Driver   string         `yaml:"driver" env:"HWSTATUS_DB_DRIVER"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	MySQL    MySQLConfig    `yaml:"mysql"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" env:"HWSTATUS_SQLITE_PATH"`
}

type PostgresConfig struct {
	Host     string `yaml:"host" env:"HWSTATUS_PG_HOST"`
	Port     int    `yaml:"port" env:"HWSTATUS_PG_PORT"`
	Database string `yaml:"database" env:"HWSTATUS_PG_DATABASE"`
	User     string `yaml:"user" env:"HWSTATUS_PG_USER"`
	Password string `yaml:"password" env:"HWSTATUS_PG_PASSWORD"`
	SSLMode  string `yaml:"sslmode" env:"HWSTATUS_PG_SSLMODE"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" env:"HWSTATUS_MYSQL_HOST"`
	Port     int    `yaml:"port" env:"HWSTATUS_MYSQL_PORT"`
	Database string `yaml:"database" env:"HWSTATUS_MYSQL_DATABASE"`
	User     string `yaml:"user" env:"HWSTATUS_MYSQL_USER"`
	Password string `yaml:"password" env:"HWSTATUS_MYSQL_PASSWORD"`
}

type RedisConfig struct {
	Address  string `yaml:"address" env:"HWSTATUS_REDIS_ADDRESS"`
	Password string `yaml:"password" env:"HWSTATUS_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"HWSTATUS_REDIS_DB"`
}

type EvaluatorConfig struct {
	// Backend is one of simulated, remote, redis.
	Backend string        `yaml:"backend" env:"HWSTATUS_EVALUATOR"`
	Latency time.Duration `yaml:"latency" env:"HWSTATUS_EVALUATOR_LATENCY"`
	Remote  RemoteConfig  `yaml:"remote"`
	Gauge   GaugeConfig   `yaml:"gauge"`
}

type RemoteConfig struct {
	BaseURL string        `yaml:"base_url" env:"HWSTATUS_REMOTE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"HWSTATUS_REMOTE_TIMEOUT"`
}

// GaugeConfig classifies a free-capacity ratio in [0,1] read from Redis.
type GaugeConfig struct {
	KeyPrefix string  `yaml:"key_prefix" env:"HWSTATUS_GAUGE_PREFIX"`
	High      float64 `yaml:"high" env:"HWSTATUS_GAUGE_HIGH"`
	Medium    float64 `yaml:"medium" env:"HWSTATUS_GAUGE_MEDIUM"`
}

type DispatchConfig struct {
	TaskTimeout    time.Duration `yaml:"task_timeout" env:"HWSTATUS_TASK_TIMEOUT"`
	MaxConcurrency int           `yaml:"max_concurrency" env:"HWSTATUS_MAX_CONCURRENCY"`
}

type MessagingConfig struct {
	// Backend is one of none, kafka, mqtt.
	Backend      string      `yaml:"backend" env:"HWSTATUS_MESSAGING"`
	ReportsTopic string      `yaml:"reports_topic" env:"HWSTATUS_REPORTS_TOPIC"`
	Kafka        KafkaConfig `yaml:"kafka"`
	MQTT         MQTTConfig  `yaml:"mqtt"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"HWSTATUS_KAFKA_BROKERS" env-separator:","`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker" env:"HWSTATUS_MQTT_BROKER"`
	ClientID string `yaml:"client_id" env:"HWSTATUS_MQTT_CLIENT_ID"`
	QoS      byte   `yaml:"qos" env:"HWSTATUS_MQTT_QOS"`
}

func Defaults() *Config {
	return &Config{
		Web: WebConfig{
			Host:           "0.0.0.0",
			Port:           5001,
			RequestTimeout: time.Minute,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{Path: "hwstatus.db"},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "rescale_hw",
				User:     "hwstatus",
				SSLMode:  "disable",
			},
			MySQL: MySQLConfig{
				Host:     "mysql",
				Port:     3306,
				Database: "rescale_hw",
				User:     "root",
			},
		},
		Redis: RedisConfig{Address: "localhost:6379"},
		Evaluator: EvaluatorConfig{
			Backend: "simulated",
			Latency: 5 * time.Second,
			Remote:  RemoteConfig{Timeout: 30 * time.Second},
			Gauge: GaugeConfig{
				KeyPrefix: "hwstatus:capacity",
				High:      0.5,
				Medium:    0.2,
			},
		},
		Messaging: MessagingConfig{
			Backend:      "none",
			ReportsTopic: "hwstatus.availability",
			MQTT:         MQTTConfig{ClientID: "hwstatus"},
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file yields defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	switch c.Evaluator.Backend {
	case "simulated":
	case "remote":
		if c.Evaluator.Remote.BaseURL == "" {
			return errors.New("evaluator.remote.base_url is required for the remote backend")
		}
	case "redis":
		g := c.Evaluator.Gauge
		if g.Medium < 0 || g.High > 1 || g.Medium > g.High {
			return fmt.Errorf("invalid gauge thresholds: medium=%v high=%v", g.Medium, g.High)
		}
	default:
		return fmt.Errorf("unsupported evaluator backend: %s", c.Evaluator.Backend)
	}
	switch c.Messaging.Backend {
	case "none", "":
	case "kafka":
		if len(c.Messaging.Kafka.Brokers) == 0 {
			return errors.New("messaging.kafka.brokers is required for the kafka backend")
		}
	case "mqtt":
		if c.Messaging.MQTT.Broker == "" {
			return errors.New("messaging.mqtt.broker is required for the mqtt backend")
		}
	default:
		return fmt.Errorf("unsupported messaging backend: %s", c.Messaging.Backend)
	}
	if c.Dispatch.MaxConcurrency < 0 {
		return fmt.Errorf("dispatch.max_concurrency must be >= 0, got %d", c.Dispatch.MaxConcurrency)
	}
	return nil
}
