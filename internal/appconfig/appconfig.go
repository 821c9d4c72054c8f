package appconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

// Config holds all configuration details
type Config struct {
	Host      string          `yaml:"host"`
	BasePath  string          `yaml:"basePath"`
	AuthPath  string          `yaml:"authPath"`
	DocsPath  string          `yaml:"docsPath"`
	Satellite SatelliteConfig `yaml:"satellite"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Pulsar    PulsarConfig    `yaml:"pulsar"`
	Auth      AuthConfig      `yaml:"auth"`
	AWS       AWSConfig       `yaml:"aws"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Commands  CommandsConfig  `yaml:"commands"`
	Retention RetentionConfig `yaml:"retention"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SatelliteConfig identifies the spacecraft served by this ground station
type SatelliteConfig struct {
	ID string `yaml:"id"`
}

// DatabaseConfig defines the database connection details
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Source string `yaml:"source"`
}

// RedisConfig defines the position cache. An empty address disables caching.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// PulsarConfig defines the messaging system connection details
type PulsarConfig struct {
	URL           string `yaml:"url"`
	TopicCommands string `yaml:"topicCommands"`
	TopicDownlink string `yaml:"topicDownlink"`
	Subscription  string `yaml:"subscription"`
}

// AuthConfig defines token issuing. The signing secret comes from Secret,
// the AUTH_SECRET environment variable, or AWS Secrets Manager when SecretName is set.
type AuthConfig struct {
	Issuer     string        `yaml:"issuer"`
	Secret     string        `yaml:"secret"`
	SecretName string        `yaml:"secretName"`
	AccessTTL  time.Duration `yaml:"accessTTL"`
	RefreshTTL time.Duration `yaml:"refreshTTL"`
}

type S3Config struct {
	Bucket        string `yaml:"bucket"`
	Endpoint      string `yaml:"endpoint"`
	RoleArn       string `yaml:"roleArn"`
	MaxUploadSize int64  `yaml:"maxUploadSize"`
}

type SESConfig struct {
	From string   `yaml:"from"`
	To   []string `yaml:"to"`
}

type AWSConfig struct {
	Region string    `yaml:"region"`
	S3     S3Config  `yaml:"s3"`
	SES    SESConfig `yaml:"ses"`
}

// AlertsConfig holds telemetry thresholds that trigger an operator e-mail
type AlertsConfig struct {
	MinBatteryVoltage float64       `yaml:"minBatteryVoltage"`
	MinTemperature    float64       `yaml:"minTemperature"`
	MaxTemperature    float64       `yaml:"maxTemperature"`
	Cooldown          time.Duration `yaml:"cooldown"`
}

type CommandsConfig struct {
	Allowed    []string      `yaml:"allowed"`
	AckTimeout time.Duration `yaml:"ackTimeout"`
}

type RetentionConfig struct {
	Telemetry time.Duration `yaml:"telemetry"`
	Schedule  string        `yaml:"schedule"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// LoggingConfig optionally writes logs to a rotated file as well as stderr
type LoggingConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

var DefaultCommands = []string{
	"ping",
	"capture_image",
	"set_mode",
	"reboot",
	"downlink_payload",
	"deploy_antenna",
}

// LoadConfig loads and parses the configuration from a given file path
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path is required")
	}

	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Parse the template file
	// Unset variables render as empty strings, leaving the field to its default
	tmpl, err := template.New(filepath.Base(path)).Option("missingkey=zero").ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file template: %w", err)
	}

	// Execute the template with environment variables
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, loadEnvVars()); err != nil {
		return nil, fmt.Errorf("error executing config file template: %w", err)
	}

	return Parse(buf.Bytes())
}

// Parse unmarshals rendered YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/backendapi"
	}
	if c.AuthPath == "" {
		c.AuthPath = "/backend"
	}
	if c.DocsPath == "" {
		c.DocsPath = "/docs"
	}
	if c.Satellite.ID == "" {
		c.Satellite.ID = "agrosat-1"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 10 * time.Minute
	}
	if c.Pulsar.Subscription == "" {
		c.Pulsar.Subscription = "groundstation-services"
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "groundstation-services"
	}
	if c.Auth.Secret == "" {
		c.Auth.Secret = os.Getenv("AUTH_SECRET")
	}
	if c.Auth.AccessTTL == 0 {
		c.Auth.AccessTTL = 15 * time.Minute
	}
	if c.Auth.RefreshTTL == 0 {
		c.Auth.RefreshTTL = 24 * time.Hour
	}
	if c.AWS.S3.MaxUploadSize == 0 {
		c.AWS.S3.MaxUploadSize = 10 << 20
	}
	if c.Alerts.Cooldown == 0 {
		c.Alerts.Cooldown = 30 * time.Minute
	}
	if len(c.Commands.Allowed) == 0 {
		c.Commands.Allowed = DefaultCommands
	}
	if c.Commands.AckTimeout == 0 {
		c.Commands.AckTimeout = 15 * time.Minute
	}
	if c.Retention.Telemetry == 0 {
		c.Retention.Telemetry = 90 * 24 * time.Hour
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 5
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 100
	}
}

// Validate reports configuration that cannot work.
func (c *Config) Validate() error {
	for name, p := range map[string]string{"basePath": c.BasePath, "authPath": c.AuthPath, "docsPath": c.DocsPath} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%s must start with '/', got %q", name, p)
		}
	}
	if c.Alerts.MaxTemperature != 0 && c.Alerts.MinTemperature >= c.Alerts.MaxTemperature {
		return errors.New("alerts.minTemperature must be below alerts.maxTemperature")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rateLimit values must not be negative")
	}
	return nil
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
