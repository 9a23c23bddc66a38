// Package config loads service settings: defaults, then an optional YAML
// file, then environment variables (a .env file is honoured by main).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Owner    OwnerConfig    `yaml:"owner"`
	Offline  bool           `yaml:"offline_mode"`
	AI       AIConfig       `yaml:"ai"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Mail     MailConfig     `yaml:"mail"`
	CRM      CRMConfig      `yaml:"crm"`
	Browser  BrowserConfig  `yaml:"browser"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// OwnerConfig identifies whose workspace this process serves.
type OwnerConfig struct {
	ID    string `yaml:"id"`
	Email string `yaml:"email"`
}

type AIConfig struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	SearchModel    string        `yaml:"search_model"`
	ReasoningModel string        `yaml:"reasoning_model"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryDelay     time.Duration `yaml:"retry_delay"`
	Timeout        time.Duration `yaml:"timeout"`
}

type StoreConfig struct {
	Local      string `yaml:"local"` // sqlite, redis, memory
	SQLitePath string `yaml:"sqlite_path"`
	RedisURL   string `yaml:"redis_url"`
}

type DatabaseConfig struct {
	URL    string `yaml:"url"`
	Driver string `yaml:"driver"` // pgx, postgres
}

type RabbitMQConfig struct {
	URL string `yaml:"url"`
}

type MailConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
}

type CRMConfig struct {
	SimulateDelay  time.Duration `yaml:"simulate_delay"`
	StatusInterval time.Duration `yaml:"status_interval"`
	Timeout        time.Duration `yaml:"timeout"`
}

type BrowserConfig struct {
	Bin string `yaml:"bin"`
}

func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8080"},
		Logging: LoggingConfig{Level: "info"},
		AI: AIConfig{
			BaseURL:        "https://generativelanguage.googleapis.com",
			SearchModel:    "gemini-2.5-flash",
			ReasoningModel: "gemini-2.5-flash",
			MaxRetries:     2,
			RetryDelay:     time.Second,
			Timeout:        60 * time.Second,
		},
		Store: StoreConfig{
			Local:      "sqlite",
			SQLitePath: "data/prospector.db",
		},
		Database: DatabaseConfig{Driver: "pgx"},
		Mail:     MailConfig{Port: 587},
		CRM: CRMConfig{
			SimulateDelay:  1500 * time.Millisecond,
			StatusInterval: 15 * time.Minute,
			Timeout:        15 * time.Second,
		},
	}
}

// Load builds the configuration. path may be empty.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	envString("PORT", &c.Server.Port)
	envString("LOG_LEVEL", &c.Logging.Level)
	envString("OWNER_ID", &c.Owner.ID)
	envString("OWNER_EMAIL", &c.Owner.Email)
	envString("GEMINI_API_KEY", &c.AI.APIKey)
	envString("GEMINI_BASE_URL", &c.AI.BaseURL)
	envString("GEMINI_SEARCH_MODEL", &c.AI.SearchModel)
	envString("GEMINI_REASONING_MODEL", &c.AI.ReasoningModel)
	envString("LOCAL_STORE", &c.Store.Local)
	envString("SQLITE_PATH", &c.Store.SQLitePath)
	envString("REDIS_URL", &c.Store.RedisURL)
	envString("DATABASE_URL", &c.Database.URL)
	envString("DATABASE_DRIVER", &c.Database.Driver)
	envString("RABBITMQ_URL", &c.RabbitMQ.URL)
	envString("MAIL_HOST", &c.Mail.Host)
	envString("MAIL_USER", &c.Mail.User)
	envString("MAIL_PASS", &c.Mail.Pass)
	envString("BROWSER_BIN", &c.Browser.Bin)

	if err := envBool("OFFLINE_MODE", &c.Offline); err != nil {
		return err
	}
	if err := envInt("AI_MAX_RETRIES", &c.AI.MaxRetries); err != nil {
		return err
	}
	if err := envInt("MAIL_PORT", &c.Mail.Port); err != nil {
		return err
	}
	if err := envDuration("AI_RETRY_DELAY", &c.AI.RetryDelay); err != nil {
		return err
	}
	if err := envDuration("CRM_SIMULATE_DELAY", &c.CRM.SimulateDelay); err != nil {
		return err
	}
	return envDuration("CRM_STATUS_INTERVAL", &c.CRM.StatusInterval)
}

func (c *Config) Validate() error {
	switch c.Store.Local {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("invalid LOCAL_STORE %q: want sqlite, redis or memory", c.Store.Local)
	}
	if c.Store.Local == "redis" && c.Store.RedisURL == "" {
		return fmt.Errorf("LOCAL_STORE=redis requires REDIS_URL")
	}
	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("AI_MAX_RETRIES must not be negative")
	}
	if c.CRM.StatusInterval < 0 {
		return fmt.Errorf("CRM_STATUS_INTERVAL must not be negative")
	}
	return nil
}

// OwnerKey is the id every stored row is scoped to.
func (c *Config) OwnerKey() string {
	if c.Owner.ID != "" {
		return c.Owner.ID
	}
	if c.Owner.Email != "" {
		return strings.ToLower(c.Owner.Email)
	}
	return "local"
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

// envDuration accepts Go durations ("1500ms") or plain milliseconds.
func envDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	if ms, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(ms) * time.Millisecond
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
