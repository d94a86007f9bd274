package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Submission transport names accepted by SUBMISSION_TRANSPORT
const (
	TransportSimulated = "simulated"
	TransportWebhook   = "webhook"
	TransportRedis     = "redis"
)

// Config holds all application configuration
type Config struct {
	Env        string
	LogLevel   string
	Server     ServerConfig
	Redis      RedisConfig
	Submission SubmissionConfig
	Forms      FormsConfig
	Session    SessionConfig
	Content    ContentConfig
	OTEL       OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// SubmissionConfig selects and tunes the transport that receives validated forms
type SubmissionConfig struct {
	Transport      string
	SimulatedDelay time.Duration
	Timeout        time.Duration
	WebhookURL     string
	WebhookRetries int
	Channel        string
	RateLimit      int
	RateWindow     time.Duration
}

// FormsConfig holds per-form behaviour
type FormsConfig struct {
	TimeZone                 string
	AppointmentSuccessWindow time.Duration
	ConsultSuccessWindow     time.Duration
	SupportSuccessWindow     time.Duration
}

// SessionConfig holds visitor session configuration
type SessionConfig struct {
	CookieName    string
	TTL           time.Duration
	SweepInterval time.Duration
}

// ContentConfig points at the page copy. An empty path uses the embedded copy.
type ContentConfig struct {
	Path string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "production"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Submission: SubmissionConfig{
			Transport:      getEnv("SUBMISSION_TRANSPORT", TransportSimulated),
			SimulatedDelay: getEnvAsDuration("SUBMISSION_SIMULATED_DELAY", time.Second),
			Timeout:        getEnvAsDuration("SUBMISSION_TIMEOUT", 15*time.Second),
			WebhookURL:     getEnv("SUBMISSION_WEBHOOK_URL", ""),
			WebhookRetries: getEnvAsInt("SUBMISSION_WEBHOOK_RETRIES", 3),
			Channel:        getEnv("SUBMISSION_CHANNEL", "premier:submissions"),
			RateLimit:      getEnvAsInt("SUBMISSION_RATE_LIMIT", 10),
			RateWindow:     getEnvAsDuration("SUBMISSION_RATE_WINDOW", time.Hour),
		},
		Forms: FormsConfig{
			TimeZone:                 getEnv("FORMS_TIMEZONE", "Asia/Ho_Chi_Minh"),
			AppointmentSuccessWindow: getEnvAsDuration("FORMS_APPOINTMENT_SUCCESS_WINDOW", 2*time.Second),
			ConsultSuccessWindow:     getEnvAsDuration("FORMS_CONSULT_SUCCESS_WINDOW", 3*time.Second),
			SupportSuccessWindow:     getEnvAsDuration("FORMS_SUPPORT_SUCCESS_WINDOW", 3*time.Second),
		},
		Session: SessionConfig{
			CookieName:    getEnv("SESSION_COOKIE_NAME", "premier_session"),
			TTL:           getEnvAsDuration("SESSION_TTL", 30*time.Minute),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		Content: ContentConfig{
			Path: getEnv("CONTENT_PATH", ""),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "premier-landing"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with
func (c *Config) Validate() error {
	switch c.Submission.Transport {
	case TransportSimulated:
	case TransportWebhook:
		if c.Submission.WebhookURL == "" {
			return fmt.Errorf("SUBMISSION_WEBHOOK_URL is required for the %s transport", TransportWebhook)
		}
	case TransportRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("REDIS_ENABLED must be true for the %s transport", TransportRedis)
		}
	default:
		return fmt.Errorf("unknown submission transport %q", c.Submission.Transport)
	}

	if _, err := time.LoadLocation(c.Forms.TimeZone); err != nil {
		return fmt.Errorf("invalid FORMS_TIMEZONE %q: %w", c.Forms.TimeZone, err)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// Location returns the time zone used for day-granularity date checks
func (c *FormsConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
