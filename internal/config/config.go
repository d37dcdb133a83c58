package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

// Content source kinds.
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"` // current application environment (local, dev, production etc)
	TelegramAPIToken string   `mapstructure:"-"`   // Telegram API token loaded from environment
	Telegram         Telegram `mapstructure:"telegram"`
	Content          Content  `mapstructure:"content"`
	Quiz             Quiz     `mapstructure:"quiz"`
	Session          Session  `mapstructure:"session"`
	HTTP             HTTP     `mapstructure:"http"`
	Log              Log      `mapstructure:"log"`
	DB               DB       `mapstructure:"database"`
}

// Telegram contains bot delivery settings.
type Telegram struct {
	Enabled bool `mapstructure:"enabled"` // run the bot; needs TELEGRAM_API_TOKEN
	Debug   bool `mapstructure:"debug"`   // log raw Bot API traffic
}

// Content describes where the quiz document comes from.
type Content struct {
	Source  string        `mapstructure:"source"`  // file, http or postgres
	Path    string        `mapstructure:"path"`    // JSON or YAML file for the file source
	URL     string        `mapstructure:"url"`     // document URL for the http source
	Timeout time.Duration `mapstructure:"timeout"` // fetch timeout for the http source
}

// Quiz holds the rules applied to every session.
type Quiz struct {
	PassFraction        float64 `mapstructure:"pass_fraction"`         // share of a chapter needed to pass; 0 switches to pass_min_score
	PassMinScore        int     `mapstructure:"pass_min_score"`        // flat pass threshold, capped at chapter length
	QuestionsPerChapter int     `mapstructure:"questions_per_chapter"` // limit per attempt, 0 means all
}

// Session configures in-memory session eviction.
type Session struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// HTTP configures the browser API.
type HTTP struct {
	Enabled        bool          `mapstructure:"enabled"`
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RateLimit      int           `mapstructure:"rate_limit"`  // requests per window and IP, 0 disables
	RateWindow     time.Duration `mapstructure:"rate_window"` // rate limiting window
}

// Log configures the optional rotated log file.
type Log struct {
	File       string `mapstructure:"file"`        // empty disables the file sink
	MaxSize    int    `mapstructure:"max_size"`    // megabytes
	MaxBackups int    `mapstructure:"max_backups"` // rotated files kept
	MaxAge     int    `mapstructure:"max_age"`     // days
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from .env, config files and environment variables.
func Load() (*Config, error) {
	// A missing .env is fine: the environment may already be set.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")

	v.SetDefault("telegram.enabled", true)
	v.SetDefault("telegram.debug", false)

	v.SetDefault("content.source", SourceFile)
	v.SetDefault("content.path", "assets/quizData.json")
	v.SetDefault("content.url", "")
	v.SetDefault("content.timeout", "10s")

	v.SetDefault("quiz.pass_fraction", 0.8)
	v.SetDefault("quiz.pass_min_score", 10)
	v.SetDefault("quiz.questions_per_chapter", 0)

	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.sweep_interval", "10m")

	v.SetDefault("http.enabled", true)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("http.rate_limit", 120)
	v.SetDefault("http.rate_window", "1m")

	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)

	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
}

func (cfg *Config) validate() error {
	if cfg.Telegram.Enabled && cfg.TelegramAPIToken == "" {
		return ErrMissingEnvironmentVariables
	}
	if !cfg.Telegram.Enabled && !cfg.HTTP.Enabled {
		return fmt.Errorf("%w: both telegram and http delivery are disabled", ErrInvalidConfig)
	}

	switch cfg.Content.Source {
	case SourceFile:
		if cfg.Content.Path == "" {
			return fmt.Errorf("%w: content.path is required for the file source", ErrInvalidConfig)
		}
	case SourceHTTP:
		if cfg.Content.URL == "" {
			return fmt.Errorf("%w: content.url is required for the http source", ErrInvalidConfig)
		}
	case SourcePostgres:
		if cfg.DB.URL == "" {
			return ErrMissingEnvironmentVariables
		}
	default:
		return fmt.Errorf("%w: unknown content source %q", ErrInvalidConfig, cfg.Content.Source)
	}

	if cfg.Quiz.PassFraction < 0 || cfg.Quiz.PassFraction > 1 {
		return fmt.Errorf("%w: quiz.pass_fraction must be within [0, 1]", ErrInvalidConfig)
	}
	if cfg.Quiz.PassFraction == 0 && cfg.Quiz.PassMinScore <= 0 {
		return fmt.Errorf("%w: quiz.pass_min_score must be positive when pass_fraction is 0", ErrInvalidConfig)
	}
	if cfg.Quiz.QuestionsPerChapter < 0 {
		return fmt.Errorf("%w: quiz.questions_per_chapter must not be negative", ErrInvalidConfig)
	}
	if cfg.Session.TTL <= 0 || cfg.Session.SweepInterval <= 0 {
		return fmt.Errorf("%w: session.ttl and session.sweep_interval must be positive", ErrInvalidConfig)
	}
	if cfg.HTTP.Enabled && cfg.HTTP.RateLimit > 0 && cfg.HTTP.RateWindow <= 0 {
		return fmt.Errorf("%w: http.rate_window must be positive when rate_limit is set", ErrInvalidConfig)
	}

	return nil
}
