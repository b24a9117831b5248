package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store backends
const (
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

// Metrics backends
const (
	MetricsCloudWatch = "cloudwatch"
	MetricsPrometheus = "prometheus"
	MetricsNone       = "none"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"serverAddress"`
	Environment   string `yaml:"environment"`
	IsLambda      bool   `yaml:"isLambda"`

	// AWS configuration
	AWSRegion string `yaml:"awsRegion"`

	// Tables and indexes
	ClubsTable           string `yaml:"clubsTable"`
	MembersTable         string `yaml:"membersTable"`
	ClubsVisibilityIndex string `yaml:"clubsVisibilityIndex"`
	ClubsManagerIndex    string `yaml:"clubsManagerIndex"`
	MembersUserIndex     string `yaml:"membersUserIndex"`
	StoreBackend         string `yaml:"storeBackend"`

	// Transactions
	TransactionItemLimit   int `yaml:"transactionItemLimit"`
	TransactionConcurrency int `yaml:"transactionConcurrency"`

	// Messaging
	EventBusName           string `yaml:"eventBusName"`
	EventSource            string `yaml:"eventSource"`
	OutboundEmailsQueueURL string `yaml:"outboundEmailsQueueUrl"`
	OutboundEmailsDLQURL   string `yaml:"outboundEmailsDlqUrl"`
	// SQSPartialBatchResponse reports failed message ids instead of failing the whole batch
	SQSPartialBatchResponse bool `yaml:"sqsPartialBatchResponse"`

	// Email delivery
	DefaultFromEmail string  `yaml:"defaultFromEmail"`
	EmailSendRate    float64 `yaml:"emailSendRate"`
	EmailSendBurst   int     `yaml:"emailSendBurst"`

	// Media
	MediaBucket             string `yaml:"mediaBucket"`
	ClubProfilePhotosPrefix string `yaml:"clubProfilePhotosPrefix"`

	// HTTP
	JWTSecret          string   `yaml:"jwtSecret"`
	AllowedOrigins     []string `yaml:"allowedOrigins"`
	RateLimitPerMinute int      `yaml:"rateLimitPerMinute"`

	// Observability
	LogLevel       string `yaml:"logLevel"`
	MetricsBackend string `yaml:"metricsBackend"`
	EnableTracing  bool   `yaml:"enableTracing"`
	OTLPEndpoint   string `yaml:"otlpEndpoint"`
}

// LoadConfig builds the configuration from defaults, then the optional
// CONFIG_FILE YAML overlay, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ServerAddress:           ":8080",
		Environment:             "development",
		AWSRegion:               "us-east-1",
		ClubsTable:              "clubs",
		MembersTable:            "club-members",
		ClubsVisibilityIndex:    "ClubsByVisibility",
		ClubsManagerIndex:       "ClubsByManager",
		MembersUserIndex:        "MembersByUser",
		StoreBackend:            StoreDynamoDB,
		TransactionItemLimit:    25,
		TransactionConcurrency:  3,
		EventSource:             "rest-api",
		EmailSendRate:           14,
		EmailSendBurst:          14,
		ClubProfilePhotosPrefix: "club-profiles/",
		RateLimitPerMinute:      200,
		LogLevel:                "info",
		MetricsBackend:          MetricsNone,
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", getEnv("STAGE", c.Environment))
	c.IsLambda = getEnvBool("IS_LAMBDA", c.IsLambda || os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "")
	c.AWSRegion = getEnv("AWS_REGION", getEnv("REGION", c.AWSRegion))

	c.ClubsTable = getEnv("DDB_TABLE_CLUBS", c.ClubsTable)
	c.MembersTable = getEnv("DDB_TABLE_MEMBERS", c.MembersTable)
	c.ClubsVisibilityIndex = getEnv("CLUBS_VISIBILITY_INDEX", c.ClubsVisibilityIndex)
	c.ClubsManagerIndex = getEnv("CLUBS_MANAGER_INDEX", c.ClubsManagerIndex)
	c.MembersUserIndex = getEnv("MEMBERS_USER_INDEX", c.MembersUserIndex)
	c.StoreBackend = getEnv("STORE_BACKEND", c.StoreBackend)

	c.TransactionItemLimit = getEnvInt("TRANSACTION_ITEM_LIMIT", c.TransactionItemLimit)
	c.TransactionConcurrency = getEnvInt("TRANSACTION_CONCURRENCY", c.TransactionConcurrency)

	c.EventBusName = getEnv("EVENTBRIDGE_SERVICE_BUS_NAME", c.EventBusName)
	c.EventSource = getEnv("EVENT_SOURCE", c.EventSource)
	c.OutboundEmailsQueueURL = getEnv("OUTBOUND_EMAILS_QUEUE_URL", c.OutboundEmailsQueueURL)
	c.OutboundEmailsDLQURL = getEnv("OUTBOUND_EMAILS_DLQ_URL", c.OutboundEmailsDLQURL)
	c.SQSPartialBatchResponse = getEnvBool("SQS_PARTIAL_BATCH_RESPONSE", c.SQSPartialBatchResponse)

	c.DefaultFromEmail = getEnv("DEFAULT_FROM_EMAIL", c.DefaultFromEmail)
	c.EmailSendRate = getEnvFloat("EMAIL_SEND_RATE", c.EmailSendRate)
	c.EmailSendBurst = getEnvInt("EMAIL_SEND_BURST", c.EmailSendBurst)

	c.MediaBucket = getEnv("S3_MEDIA_BUCKET", c.MediaBucket)
	c.ClubProfilePhotosPrefix = getEnv("S3_MEDIA_BUCKET_CLUB_PROFILES_PREFIX", c.ClubProfilePhotosPrefix)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.MetricsBackend = getEnv("METRICS_BACKEND", c.MetricsBackend)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreDynamoDB, StoreMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreDynamoDB, StoreMemory, c.StoreBackend)
	}
	switch c.MetricsBackend {
	case MetricsCloudWatch, MetricsPrometheus, MetricsNone:
	default:
		return fmt.Errorf("METRICS_BACKEND must be one of cloudwatch, prometheus, none; got %q", c.MetricsBackend)
	}
	if c.TransactionItemLimit <= 0 || c.TransactionItemLimit > 100 {
		return fmt.Errorf("TRANSACTION_ITEM_LIMIT must be between 1 and 100")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.TransactionConcurrency <= 0 {
		return fmt.Errorf("TRANSACTION_CONCURRENCY must be positive")
	}
	if c.EmailSendRate <= 0 {
		return fmt.Errorf("EMAIL_SEND_RATE must be positive")
	}
	if c.EmailSendBurst <= 0 {
		return fmt.Errorf("EMAIL_SEND_BURST must be positive")
	}

	if c.IsProduction() {
		if c.StoreBackend != StoreDynamoDB {
			return fmt.Errorf("STORE_BACKEND must be %q in production", StoreDynamoDB)
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENTBRIDGE_SERVICE_BUS_NAME is required in production")
		}
		if c.OutboundEmailsQueueURL == "" {
			return fmt.Errorf("OUTBOUND_EMAILS_QUEUE_URL is required in production")
		}
		if c.DefaultFromEmail == "" {
			return fmt.Errorf("DEFAULT_FROM_EMAIL is required in production")
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
