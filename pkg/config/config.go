package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Queue      QueueConfig
	Storage    StorageConfig
	AssemblyAI AssemblyAIConfig
	LLM        LLMConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"meetingflow"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// QueueConfig holds summarization job queue configuration.
// Attempt counting lives here, not in the engine: the queue decides
// redelivery, the engine only reports failure.
type QueueConfig struct {
	Key         string        `envconfig:"QUEUE_KEY" default:"meetingflow:jobs:summarize"`
	Workers     int           `envconfig:"QUEUE_WORKERS" default:"2"`
	MaxAttempts int           `envconfig:"QUEUE_MAX_ATTEMPTS" default:"3"`
	PollTimeout time.Duration `envconfig:"QUEUE_POLL_TIMEOUT" default:"5s"`
	JobTimeout  time.Duration `envconfig:"QUEUE_JOB_TIMEOUT" default:"5m"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string        `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string        `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string        `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string        `envconfig:"STORAGE_BUCKET" default:"meetingflow-recordings"`
	UseSSL          bool          `envconfig:"STORAGE_USE_SSL" default:"false"`
	URLExpiry       time.Duration `envconfig:"STORAGE_URL_EXPIRY" default:"2h"`
}

// AssemblyAIConfig holds batch transcription configuration
type AssemblyAIConfig struct {
	APIKey        string `envconfig:"ASSEMBLYAI_API_KEY" default:""`
	WebhookSecret string `envconfig:"ASSEMBLYAI_WEBHOOK_SECRET" default:""`
	WebhookURL    string `envconfig:"ASSEMBLYAI_WEBHOOK_URL" default:""`
	AutoSummarize bool   `envconfig:"ASSEMBLYAI_AUTO_SUMMARIZE" default:"true"`
}

// LLMConfig holds provider credentials and engine tuning knobs.
// A missing provider key means that provider is not registered; the
// model selector handles partial and empty configurations at runtime.
type LLMConfig struct {
	AnthropicAPIKey    string        `envconfig:"ANTHROPIC_API_KEY" default:""`
	AnthropicModel     string        `envconfig:"ANTHROPIC_MODEL" default:"claude-sonnet-4-5-20250929"`
	OpenAIAPIKey       string        `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel        string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL      string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com"`
	SelectionThreshold int           `envconfig:"MODEL_SELECTION_THRESHOLD" default:"5000"`
	MaxWordsPerChunk   int           `envconfig:"MAX_WORDS_PER_CHUNK" default:"4000"`
	MaxRetries         int           `envconfig:"LLM_MAX_RETRIES" default:"3"`
	RetryDelay         time.Duration `envconfig:"LLM_RETRY_DELAY" default:"2s"`
	MaxTokens          int           `envconfig:"LLM_MAX_TOKENS" default:"4096"`
	Temperature        float64       `envconfig:"LLM_TEMPERATURE" default:"0.2"`
	RequestTimeout     time.Duration `envconfig:"LLM_REQUEST_TIMEOUT" default:"120s"`
	PromptVersion      string        `envconfig:"PROMPT_VERSION" default:"v1"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.LLM.MaxWordsPerChunk <= 0 {
		return fmt.Errorf("MAX_WORDS_PER_CHUNK must be positive")
	}
	if c.LLM.SelectionThreshold <= 0 {
		return fmt.Errorf("MODEL_SELECTION_THRESHOLD must be positive")
	}
	if c.LLM.MaxRetries < 1 {
		return fmt.Errorf("LLM_MAX_RETRIES must be at least 1")
	}
	if c.Queue.MaxAttempts < 1 {
		return fmt.Errorf("QUEUE_MAX_ATTEMPTS must be at least 1")
	}
	if c.Queue.Workers < 1 {
		return fmt.Errorf("QUEUE_WORKERS must be at least 1")
	}
	return nil
}

// HasAnthropic reports whether the quality-tier provider is configured.
func (c *LLMConfig) HasAnthropic() bool {
	return c.AnthropicAPIKey != ""
}

// HasOpenAI reports whether the cost-tier provider is configured.
func (c *LLMConfig) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
