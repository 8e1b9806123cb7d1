package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Action types guarded by the cooldown limiter
const (
	ActionContact  = "contact"
	ActionRegister = "register"
	ActionChat     = "chat"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Guard    GuardConfig
	Notify   NotifyConfig
	Email    EmailConfig
	Media    MediaConfig
	Chat     ChatConfig
}

type DatabaseConfig struct {
	URL               string // takes precedence over the discrete fields when set
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration
	StatementTimeout  time.Duration
	RunMigrations     bool
}

type ServerConfig struct {
	Port              string
	Env               string
	LogLevel          string
	AllowedOrigins    []string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	TrustForwardedFor bool
	TrustedProxies    []string
}

// AuthConfig covers admin credentials and sessions
type AuthConfig struct {
	BootstrapUsername   string
	BootstrapPassword   string
	SessionLifetime     time.Duration
	TimingDelayBaseMs   int
	TimingDelayRandomMs int
}

// GuardConfig covers lockout, cooldowns and idempotency
type GuardConfig struct {
	LockoutThreshold       int
	LockoutDuration        time.Duration
	FailureWindow          time.Duration
	Cooldowns              map[string]time.Duration
	ProcessingLease        time.Duration
	FloodRequestsPerMinute int
}

type NotifyConfig struct {
	TelegramBotToken string
	TelegramAPIBase  string
	RegisterChatID   string
	ContactChatID    string
	Timeout          time.Duration
}

type EmailConfig struct {
	AWSRegion         string
	FromAddress       string
	DefaultRecipients []string
}

type MediaConfig struct {
	AWSRegion      string
	Bucket         string
	PublicBaseURL  string
	MaxUploadBytes int64
}

type ChatConfig struct {
	GeminiAPIKey  string
	Model         string
	APIBase       string
	MaxMessageLen int
	Timeout       time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")
	awsRegion := getEnv("AWS_REGION", "eu-west-3")

	cfg := &Config{
		Database: DatabaseConfig{
			URL:               getEnv("POSTGRES_URL", ""),
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "portal"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 10)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 2)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
			ConnectTimeout:    getEnvAsDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
			StatementTimeout:  getEnvAsDuration("DB_STATEMENT_TIMEOUT", 5*time.Second),
			RunMigrations:     getEnvAsBool("DB_RUN_MIGRATIONS", true),
		},
		Server: ServerConfig{
			Port:              getEnv("PORT", "8080"),
			Env:               env,
			LogLevel:          getEnv("LOG_LEVEL", "info"),
			AllowedOrigins:    parseAllowedOrigins(env),
			ReadTimeout:       getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			TrustForwardedFor: getEnvAsBool("TRUST_FORWARDED_FOR", false),
			TrustedProxies:    getEnvAsList("TRUSTED_PROXIES"),
		},
		Auth: AuthConfig{
			BootstrapUsername:   getEnv("ADMIN_INIT_USER", "admin"),
			BootstrapPassword:   getEnv("ADMIN_INIT_PASSWORD", ""),
			SessionLifetime:     getEnvAsDuration("SESSION_LIFETIME", 24*time.Hour),
			TimingDelayBaseMs:   getEnvAsInt("TIMING_DELAY_BASE_MS", 100),
			TimingDelayRandomMs: getEnvAsInt("TIMING_DELAY_RANDOM_MS", 50),
		},
		Guard: GuardConfig{
			LockoutThreshold: getEnvAsInt("LOCKOUT_THRESHOLD", 5),
			LockoutDuration:  getEnvAsDuration("LOCKOUT_DURATION", 48*time.Hour),
			FailureWindow:    getEnvAsDuration("LOCKOUT_FAILURE_WINDOW", 15*time.Minute),
			Cooldowns: map[string]time.Duration{
				ActionContact:  getEnvAsDuration("COOLDOWN_CONTACT", 24*time.Hour),
				ActionRegister: getEnvAsDuration("COOLDOWN_REGISTER", 30*time.Minute),
				ActionChat:     getEnvAsDuration("COOLDOWN_CHAT", 5*time.Second),
			},
			ProcessingLease:        getEnvAsDuration("IDEMPOTENCY_PROCESSING_LEASE", 2*time.Minute),
			FloodRequestsPerMinute: getEnvAsInt("FLOOD_REQUESTS_PER_MINUTE", 20),
		},
		Notify: NotifyConfig{
			TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			TelegramAPIBase:  getEnv("TELEGRAM_API_BASE", "https://api.telegram.org"),
			RegisterChatID:   getEnv("TELEGRAM_CHAT_REGISTER", "@shabeb_for_irshed"),
			ContactChatID:    getEnv("TELEGRAM_CHAT_CONTACT", "@shabeb_for_irshed_contact"),
			Timeout:          getEnvAsDuration("TELEGRAM_TIMEOUT", 10*time.Second),
		},
		Email: EmailConfig{
			AWSRegion:         getEnv("SES_REGION", awsRegion),
			FromAddress:       getEnv("EMAIL_FROM_ADDRESS", ""),
			DefaultRecipients: getEnvAsList("EVALUATION_DEFAULT_RECIPIENTS"),
		},
		Media: MediaConfig{
			AWSRegion:      getEnv("S3_REGION", awsRegion),
			Bucket:         getEnv("MEDIA_BUCKET", ""),
			PublicBaseURL:  strings.TrimRight(getEnv("MEDIA_PUBLIC_BASE_URL", ""), "/"),
			MaxUploadBytes: int64(getEnvAsInt("MEDIA_MAX_UPLOAD_BYTES", 50<<20)),
		},
		Chat: ChatConfig{
			GeminiAPIKey:  getEnv("API_KEY", ""),
			Model:         getEnv("CHAT_MODEL", "gemma-3-27b-it"),
			APIBase:       getEnv("CHAT_API_BASE", "https://generativelanguage.googleapis.com"),
			MaxMessageLen: getEnvAsInt("CHAT_MAX_MESSAGE_LEN", 1000),
			Timeout:       getEnvAsDuration("CHAT_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the guards cannot run with
func (c *Config) Validate() error {
	if c.Database.URL == "" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD or POSTGRES_URL is required")
	}

	if c.Guard.LockoutThreshold < 1 {
		return fmt.Errorf("LOCKOUT_THRESHOLD must be at least 1 (got %d)", c.Guard.LockoutThreshold)
	}

	durations := map[string]time.Duration{
		"SESSION_LIFETIME":             c.Auth.SessionLifetime,
		"LOCKOUT_DURATION":             c.Guard.LockoutDuration,
		"LOCKOUT_FAILURE_WINDOW":       c.Guard.FailureWindow,
		"IDEMPOTENCY_PROCESSING_LEASE": c.Guard.ProcessingLease,
		"DB_CONNECT_TIMEOUT":           c.Database.ConnectTimeout,
		"DB_STATEMENT_TIMEOUT":         c.Database.StatementTimeout,
	}
	for action, cooldown := range c.Guard.Cooldowns {
		durations["COOLDOWN_"+strings.ToUpper(action)] = cooldown
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be positive (got %s)", name, d)
		}
	}

	if c.Chat.MaxMessageLen < 1 {
		return fmt.Errorf("CHAT_MAX_MESSAGE_LEN must be at least 1")
	}

	if c.Server.Env == "production" && c.Notify.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required in production")
	}

	return nil
}

// BootstrapEnabled reports whether a first admin can be created on login
func (a *AuthConfig) BootstrapEnabled() bool {
	return a.BootstrapUsername != "" && a.BootstrapPassword != ""
}

func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return []string{}
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		return getEnvAsList("ALLOWED_ORIGINS")
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:5173", // Vite default
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
}
