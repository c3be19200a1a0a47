package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	kafkaService "github.com/sing3demons/go-bakery-service/pkg/kafka"
	"gopkg.in/yaml.v2"
)

const configFileName = "config.yaml"

type Config struct {
	App        AppConfig           `yaml:"app"`
	Server     ServerConfig        `yaml:"server"`
	Log        LogConfig           `yaml:"log"`
	Kafka      kafkaService.Config `yaml:"kafka"`
	Postgres   PostgresConfig      `yaml:"postgres"`
	Mongo      MongoConfig         `yaml:"mongo"`
	Redis      RedisConfig         `yaml:"redis"`
	Storefront StorefrontConfig    `yaml:"storefront"`
	Dashboard  DashboardConfig     `yaml:"dashboard"`
	TracerHost string              `yaml:"tracer_host" env:"TRACER_HOST"`

	// Sources lists the files that contributed to this configuration, in load order.
	Sources []string `yaml:"-"`
}

type AppConfig struct {
	Name          string `yaml:"name" env:"APP_NAME"`
	Version       string `yaml:"version" env:"APP_VERSION"`
	ComponentName string `yaml:"component_name" env:"COMPONENT_NAME"`
}

type ServerConfig struct {
	AppPort        string        `yaml:"port" env:"APP_PORT"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
}

type LogConfig struct {
	App     LogFile `yaml:"app" envPrefix:"LOG_APP_"`
	Detail  LogFile `yaml:"detail" envPrefix:"LOG_DETAIL_"`
	Summary LogFile `yaml:"summary" envPrefix:"LOG_SUMMARY_"`
}

// LogFile configures one zap logger. An empty Path logs to stdout only.
type LogFile struct {
	Name    string `yaml:"name" env:"NAME"`
	Path    string `yaml:"path" env:"PATH"`
	Level   string `yaml:"level" env:"LEVEL"`
	Console bool   `yaml:"console" env:"CONSOLE"`
}

type PostgresConfig struct {
	URL          string `yaml:"url" env:"DATABASE_URL"`
	Host         string `yaml:"host" env:"POSTGRES_HOST"`
	Port         int    `yaml:"port" env:"POSTGRES_PORT"`
	User         string `yaml:"user" env:"POSTGRES_USER"`
	Password     string `yaml:"password" env:"POSTGRES_PASSWORD"`
	Database     string `yaml:"database" env:"POSTGRES_DB"`
	SSLMode      string `yaml:"sslmode" env:"POSTGRES_SSLMODE"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"POSTGRES_MAX_OPEN_CONNS"`
}

// DSN returns URL when set, otherwise a keyword/value connection string.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

type MongoConfig struct {
	URI      string        `yaml:"uri" env:"MONGO_URI"`
	Database string        `yaml:"database" env:"MONGO_DB"`
	Timeout  time.Duration `yaml:"timeout" env:"MONGO_TIMEOUT"`
}

type RedisConfig struct {
	URL string `yaml:"url" env:"REDIS_URL"`
}

type StorefrontConfig struct {
	PageSize    int           `yaml:"page_size" env:"STOREFRONT_PAGE_SIZE"`
	SessionIdle time.Duration `yaml:"session_idle" env:"STOREFRONT_SESSION_IDLE"`
}

type DashboardConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl" env:"DASHBOARD_CACHE_TTL"`
}

type IConfig interface {
	Get(string) string
	GetOrDefault(string, string) string
}

// NewConfig returns a configuration populated with local development defaults.
func NewConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:          "bakery-service",
			Version:       "1.0.0",
			ComponentName: "storefront",
		},
		Server: ServerConfig{
			AppPort:        "8080",
			RequestTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			App:     LogFile{Name: "app", Level: "info", Console: true},
			Detail:  LogFile{Name: "detail", Level: "info", Console: true},
			Summary: LogFile{Name: "summary", Level: "info", Console: true},
		},
		Kafka: kafkaService.Config{
			BatchSize:    kafkaService.DefaultBatchSize,
			BatchBytes:   kafkaService.DefaultBatchBytes,
			BatchTimeout: kafkaService.DefaultBatchTimeout,
		},
		Postgres: PostgresConfig{
			Host:         "localhost",
			Port:         5432,
			User:         "root",
			Password:     "password",
			Database:     "bakery",
			SSLMode:      "disable",
			MaxOpenConns: 10,
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "bakery",
			Timeout:  10 * time.Second,
		},
		Storefront: StorefrontConfig{
			PageSize:    20,
			SessionIdle: 30 * time.Minute,
		},
		Dashboard: DashboardConfig{
			CacheTTL: time.Minute,
		},
	}
}

// Load builds the configuration from defaults, <folder>/config.yaml, the .env files of
// folder and finally the process environment.
func Load(folder string) (*Config, error) {
	conf := NewConfig()

	if err := conf.LoadYAML(filepath.Join(folder, configFileName)); err != nil {
		return nil, err
	}

	conf.LoadEnv(folder)

	if err := env.Parse(conf); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return conf, nil
}

// LoadYAML overlays the values of file onto c. A missing file is not an error.
func (c *Config) LoadYAML(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", file, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("decode %s: %w", file, err)
	}

	c.Sources = append(c.Sources, file)
	return nil
}

func (c *Config) LoadEnv(configFolder string) {
	loader := &EnvLoader{}
	c.Sources = append(c.Sources, loader.read(configFolder)...)
}

func (*Config) Get(key string) string {
	return os.Getenv(key)
}

func (*Config) GetOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultValue
}
