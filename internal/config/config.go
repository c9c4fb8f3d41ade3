package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"dazhangman/internal/validation"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Game      GameConfig      `mapstructure:"game"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Email     EmailConfig     `mapstructure:"email"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`
}

// DatabaseConfig selects the SQL dialect and connection
type DatabaseConfig struct {
	Type string `mapstructure:"type"` // sqlite, postgres or mysql
	Path string `mapstructure:"path"` // sqlite file
	URL  string `mapstructure:"url"`  // postgres/mysql DSN; mysql needs parseTime=true

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// CatalogConfig locates the word lists
type CatalogConfig struct {
	Dir          string        `mapstructure:"dir"`
	DefaultLevel string        `mapstructure:"default_level"`
	WarmInterval time.Duration `mapstructure:"warm_interval"`
}

// AuthConfig verifies tokens issued by the login service
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// GameConfig tunes the adaptive engine
type GameConfig struct {
	RandomSeed         int64 `mapstructure:"random_seed"` // 0 seeds from the clock
	ClearReviewedWords bool  `mapstructure:"clear_reviewed_words"`
}

// RateLimitConfig caps per-learner request rates
type RateLimitConfig struct {
	HintsPerMinute    int `mapstructure:"hints_per_minute"`
	OutcomesPerMinute int `mapstructure:"outcomes_per_minute"`
}

// EmailConfig configures the SES teacher digest
type EmailConfig struct {
	AWSRegion         string   `mapstructure:"aws_region"`
	FromEmail         string   `mapstructure:"from_email"`
	FromName          string   `mapstructure:"from_name"`
	TeacherRecipients []string `mapstructure:"teacher_recipients"`
	DigestCron        string   `mapstructure:"digest_cron"`
	Debug             bool     `mapstructure:"debug"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// Load reads .env, an optional config.yaml and the environment.
// Environment variables use upper-case keys with underscores, e.g. DATABASE_TYPE.
func Load() (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper applies defaults and environment overrides to v and decodes it
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Email.TeacherRecipients = splitList(cfg.Email.TeacherRecipients)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.handler_timeout", 10*time.Second)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "./dazhangman.db")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("catalog.dir", "./word_lists")
	v.SetDefault("catalog.default_level", "a1")
	v.SetDefault("catalog.warm_interval", 10*time.Minute)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")

	v.SetDefault("game.random_seed", 0)
	v.SetDefault("game.clear_reviewed_words", true)

	v.SetDefault("ratelimit.hints_per_minute", 20)
	v.SetDefault("ratelimit.outcomes_per_minute", 60)

	v.SetDefault("email.aws_region", "eu-central-1")
	v.SetDefault("email.from_email", "")
	v.SetDefault("email.from_name", "DaZ Hangman")
	v.SetDefault("email.teacher_recipients", []string{})
	v.SetDefault("email.digest_cron", "0 7 * * 1")
	v.SetDefault("email.debug", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// splitList also accepts a single comma separated entry, as set from the environment
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks settings the server cannot start without
func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Type) {
	case "sqlite", "sqlite3", "":
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case "postgres", "postgresql", "mysql":
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for %s", c.Database.Type)
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.Database.MaxOpenConns > 0 && c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) exceeds database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Email.FromEmail != "" {
		if err := validation.ValidateEmail("email.from_email", c.Email.FromEmail); err != nil {
			return err
		}
		for _, to := range c.Email.TeacherRecipients {
			if err := validation.ValidateEmail("email.teacher_recipients", to); err != nil {
				return err
			}
		}
	}
	return nil
}
