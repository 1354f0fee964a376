package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ruslano69/sqlbridge/pkg/client"
	"github.com/ruslano69/sqlbridge/pkg/notify"
)

// Config represents the main configuration structure
type Config struct {
	Database client.Config `yaml:"database"`
	Mirror   MirrorConfig  `yaml:"mirror,omitempty"`
	Retry    RetryConfig   `yaml:"retry,omitempty"`
	Audit    AuditConfig   `yaml:"audit,omitempty"`
	Export   ExportConfig  `yaml:"export,omitempty"`
	Notify   NotifyConfig  `yaml:"notify,omitempty"`
}

// MirrorConfig describes a table mirror job
type MirrorConfig struct {
	SourceTable     string   `yaml:"source_table"`
	DestTable       string   `yaml:"dest_table"`
	Columns         []string `yaml:"columns"`
	OrderColumn     int      `yaml:"order_column,omitempty"` // индекс в columns
	OrderDesc       bool     `yaml:"order_desc,omitempty"`
	PageSize        int      `yaml:"page_size,omitempty"`
	Limit           int      `yaml:"limit,omitempty"`
	Truncate        *bool    `yaml:"truncate,omitempty"` // nil = true
	Where           string   `yaml:"where,omitempty"`
	AddTimestamp    bool     `yaml:"add_timestamp,omitempty"`
	TimestampColumn string   `yaml:"timestamp_column,omitempty"`
	TimestampIndex  int      `yaml:"timestamp_index,omitempty"`
	CheckpointFile  string   `yaml:"checkpoint_file,omitempty"`
}

// RetryConfig for retry mechanism settings
type RetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	MaxAttempts int    `yaml:"max_attempts"`
	Strategy    string `yaml:"strategy"` // constant, linear, exponential
	InitialWait int    `yaml:"initial_wait_ms"`
	MaxWait     int    `yaml:"max_wait_ms"`
	Jitter      bool   `yaml:"jitter"`
	DLQFile     string `yaml:"dlq_file,omitempty"`
}

// AuditConfig for audit logging settings
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file,omitempty"`
	JSON    bool   `yaml:"json,omitempty"`
}

// ExportConfig contains export settings
type ExportConfig struct {
	Delimiter     string `yaml:"delimiter,omitempty"`      // default: "|"
	NullToken     string `yaml:"null_token,omitempty"`     // default: ""
	Compress      bool   `yaml:"compress"`                 // enable zstd compression
	CompressLevel int    `yaml:"compress_level,omitempty"` // 1-19, default: 3
	S3Bucket      string `yaml:"s3_bucket,omitempty"`
	S3Region      string `yaml:"s3_region,omitempty"`
	S3Endpoint    string `yaml:"s3_endpoint,omitempty"`
}

// NotifyConfig contains run result publication settings
type NotifyConfig struct {
	Type     string             `yaml:"type,omitempty"` // redis, rabbitmq, kafka
	Redis    notify.RedisConfig `yaml:"redis,omitempty"`
	RabbitMQ notify.RabbitConfig `yaml:"rabbitmq,omitempty"`
	Kafka    notify.KafkaConfig `yaml:"kafka,omitempty"`
}

// LoadConfig loads configuration from YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to YAML file
func SaveConfig(filename string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateSampleConfig creates sample configuration for different database drivers
func CreateSampleConfig(driver string) *Config {
	config := &Config{
		Database: client.Config{
			Driver:  driver,
			Timeout: 30 * time.Second,
		},
		Retry: RetryConfig{
			Enabled:     true,
			MaxAttempts: 3,
			Strategy:    "exponential",
			InitialWait: 1000,
			MaxWait:     30000,
			Jitter:      true,
		},
		Audit: AuditConfig{
			Enabled: true,
			File:    "audit.log",
			JSON:    false,
		},
		Export: ExportConfig{
			Delimiter:     "|",
			Compress:      true,
			CompressLevel: 3,
		},
	}

	switch driver {
	case client.DriverODBC, client.DriverMSSQL:
		config.Database.Server = "localhost"
		config.Database.Port = 1433
		config.Database.Database = "mydb"
		config.Database.Username = "sa"
		config.Database.Password = "YourPassword123"
		config.Database.Schema = "dbo"

	case client.DriverPostgres:
		config.Database.Server = "localhost"
		config.Database.Port = 5432
		config.Database.Database = "mydb"
		config.Database.Username = "postgres"
		config.Database.Password = "password"
		config.Database.Schema = "public"
		config.Database.SSLMode = "disable"

	case client.DriverMySQL:
		config.Database.Server = "localhost"
		config.Database.Port = 3306
		config.Database.Database = "mydb"
		config.Database.Username = "root"
		config.Database.Password = "password"

	case client.DriverSQLite:
		config.Database.Database = "database.db"
	}

	return config
}
