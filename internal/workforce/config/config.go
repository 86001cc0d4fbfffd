// Package config loads the YAML configuration shared by the workforce
// binaries.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable overriding DefaultPath.
const EnvPath = "WORKFORCE_CONFIG"

var DefaultPath = filepath.Join("internal", "workforce", "config", "config.yaml")

// Config struct for YAML configuration
type Config struct {
	GRPCPort int `yaml:"GRPC_PORT"`
	HTTPPort int `yaml:"HTTP_PORT"`

	DBDriver   string `yaml:"DB_DRIVER"`
	DBHost     string `yaml:"DB_HOST"`
	DBPort     int    `yaml:"DB_PORT"`
	DBUser     string `yaml:"DB_USER"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBName     string `yaml:"DB_NAME"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`
	DBPath     string `yaml:"DB_PATH"`

	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`
	KafkaGroupID string   `yaml:"KAFKA_GROUP_ID"`

	JWTSecret string        `yaml:"JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"TOKEN_TTL"`

	// An empty RedisAddr keeps sessions in process memory.
	RedisAddr     string `yaml:"REDIS_ADDR"`
	RedisPassword string `yaml:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"REDIS_DB"`

	// An empty SMTPHost makes the mailer log mails instead of sending them.
	SMTPHost     string `yaml:"SMTP_HOST"`
	SMTPPort     int    `yaml:"SMTP_PORT"`
	SMTPUser     string `yaml:"SMTP_USER"`
	SMTPPassword string `yaml:"SMTP_PASSWORD"`
	MailFrom     string `yaml:"MAIL_FROM"`
}

// Path returns the configuration file to load.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the file at path. ${VAR} references are expanded from the
// environment before parsing; unset variables expand to "".
func Load(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(file)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GRPCPort == 0 {
		c.GRPCPort = 50051
	}
	if c.HTTPPort == 0 {
		c.HTTPPort = 8080
	}
	if c.DBDriver == "" {
		c.DBDriver = "postgres"
	}
	if c.DBPort == 0 {
		c.DBPort = 5432
	}
	if c.DBSSLMode == "" {
		c.DBSSLMode = "disable"
	}
	if c.Topic == "" {
		c.Topic = "workforce.notifications"
	}
	if c.KafkaGroupID == "" {
		c.KafkaGroupID = "workforce-mailer"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 60 * time.Minute
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}

	// a single env var may carry a comma separated broker list
	var brokers []string
	for _, b := range c.KafkaBrokers {
		for _, part := range strings.Split(b, ",") {
			if part = strings.TrimSpace(part); part != "" {
				brokers = append(brokers, part)
			}
		}
	}
	c.KafkaBrokers = brokers
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres":
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}
