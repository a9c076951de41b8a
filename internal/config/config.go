package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "JK"

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server" envconfig:"SERVER"`
	Security      SecurityConfig      `yaml:"security" envconfig:"SECURITY"`
	Logging       LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Paths         PathsConfig         `yaml:"paths" envconfig:"PATHS"`
	Insights      InsightsConfig      `yaml:"insights" envconfig:"INSIGHTS"`
	Observability ObservabilityConfig `yaml:"observability" envconfig:"OBSERVABILITY"`
	Auth          AuthConfig          `yaml:"auth" envconfig:"AUTH"`
	WebSocket     WebSocketConfig     `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	MaxUploadMB     int64         `yaml:"max_upload_mb" envconfig:"MAX_UPLOAD_MB" validate:"min=1"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" validate:"required_if=EnableCORS true"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system locations. Relative entries are resolved
// against Root, which defaults to the working directory.
type PathsConfig struct {
	Root         string `yaml:"root" envconfig:"ROOT"`
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir    string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	AnalyticsDir string `yaml:"analytics_dir" envconfig:"ANALYTICS_DIR" validate:"required"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
	UsersFile    string `yaml:"users_file" envconfig:"USERS_FILE" validate:"required"`
}

// InsightsConfig tunes the generation pipelines.
type InsightsConfig struct {
	Workers           int           `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
	QueueWorkers      int           `yaml:"queue_workers" envconfig:"QUEUE_WORKERS" validate:"min=1,max=16"`
	JobTimeout        time.Duration `yaml:"job_timeout" envconfig:"JOB_TIMEOUT" validate:"gt=0"`
	BulkThreshold     int           `yaml:"bulk_threshold" envconfig:"BULK_THRESHOLD" validate:"min=1"`
	LowValueAmount    float64       `yaml:"low_value_amount" envconfig:"LOW_VALUE_AMOUNT" validate:"gt=0"`
	LowValueFrequency int           `yaml:"low_value_frequency" envconfig:"LOW_VALUE_FREQUENCY" validate:"min=1"`
	RareThresholdPct  float64       `yaml:"rare_threshold_pct" envconfig:"RARE_THRESHOLD_PCT" validate:"gte=0,lte=100"`
	HolidayFile       string        `yaml:"holiday_file" envconfig:"HOLIDAY_FILE"`
}

// ObservabilityConfig controls metrics and tracing.
type ObservabilityConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	EnableTracing  bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	ServiceVersion string `yaml:"service_version" envconfig:"SERVICE_VERSION"`
}

// AuthConfig controls the JSON user store.
type AuthConfig struct {
	SeedDefaultUsers bool   `yaml:"seed_default_users" envconfig:"SEED_DEFAULT_USERS"`
	DefaultPassword  string `yaml:"default_password" envconfig:"DEFAULT_PASSWORD" validate:"required_if=SeedDefaultUsers true"`
	BcryptCost       int    `yaml:"bcrypt_cost" envconfig:"BCRYPT_COST" validate:"min=4,max=31"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" validate:"min=256"`
	WriteBufferSize int `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" validate:"min=256"`
}

// Load builds the configuration from defaults, an optional YAML file and
// JK_* environment variables, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	// envconfig only touches fields whose variable is set, so file values survive
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.Insights.QueueWorkers > c.Insights.Workers*4 {
		return fmt.Errorf("insights.queue_workers (%d) is too large for insights.workers (%d)",
			c.Insights.QueueWorkers, c.Insights.Workers)
	}
	return nil
}

// Address returns host:port for the HTTP listener
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getConfigFilePath returns the path to the config file, or "" when none exists
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            5000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxUploadMB:     256,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   100,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:      "Data",
			OutputDir:    "Output",
			AnalyticsDir: "uploads",
			LogsDir:      "logs",
			UsersFile:    "users.json",
		},
		Insights: InsightsConfig{
			Workers:           4,
			QueueWorkers:      2,
			JobTimeout:        30 * time.Minute,
			BulkThreshold:     6,
			LowValueAmount:    1000,
			LowValueFrequency: 10,
			RareThresholdPct:  5,
		},
		Observability: ObservabilityConfig{
			ServiceName:    "jk-insights",
			ServiceVersion: "1.0.0",
		},
		Auth: AuthConfig{
			SeedDefaultUsers: true,
			DefaultPassword:  "password123",
			BcryptCost:       10,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}
