package config

import (
	"errors" // Error construction
	"fmt"    // String formatting
	"strings"
	"time" // Durations

	"github.com/joho/godotenv" // For loading .env files
	"github.com/spf13/viper"   // Typed environment lookups with defaults
)

// Supported database drivers
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// devJWTSecret is only used outside production when JWT_SECRET is unset
const devJWTSecret = "dev-secret-change-me"

// Config holds the application configuration
type Config struct {
	AppPort  string      // Application port
	IsProd   bool        // Is production environment
	LogLevel string      // Logrus level name
	DB       DBConfig    // Database settings
	Auth     AuthConfig  // Token issuer settings
	Redis    RedisConfig // Cache settings
	Admin    AdminConfig // Bootstrap admin account
}

// DBConfig selects and addresses the backing database
type DBConfig struct {
	Driver     string // sqlite or mysql
	SQLitePath string // SQLite database file or DSN
	User       string // MySQL user
	Password   string // MySQL password
	Host       string // MySQL host
	Port       string // MySQL port
	Name       string // MySQL database name
}

// AuthConfig is handed to the token issuer once at startup
type AuthConfig struct {
	JWTSecret string        // HMAC signing key
	TokenTTL  time.Duration // Lifetime of issued tokens
}

// RedisConfig addresses the optional Redis cache
type RedisConfig struct {
	Addr     string        // Redis server address, empty disables caching
	Password string        // Redis password
	DB       int           // Redis database number
	TTL      time.Duration // Default cache entry lifetime
}

// AdminConfig describes the default admin created at bootstrap
type AdminConfig struct {
	Email    string
	Password string
}

// MySQLDSN builds the Data Source Name for the MySQL driver
func (d DBConfig) MySQLDSN() string {
	return d.User + ":" + d.Password + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?parseTime=true&charset=utf8mb4"
}

// LoadConfig loads configuration from the environment (and a .env file if present)
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_PORT", "8000")
	v.SetDefault("IS_PROD", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_PATH", "finance.db")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "finance")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 10080) // 7 days
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 60)
	v.SetDefault("ADMIN_EMAIL", "admin@admin.com")
	v.SetDefault("ADMIN_PASSWORD", "admin123")

	cfg := &Config{
		AppPort:  v.GetString("APP_PORT"),
		IsProd:   v.GetBool("IS_PROD"),
		LogLevel: v.GetString("LOG_LEVEL"),
		DB: DBConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			SQLitePath: v.GetString("SQLITE_PATH"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			Name:       v.GetString("DB_NAME"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  time.Duration(v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")) * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASS"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.IsProd {
			return nil, errors.New("JWT_SECRET environment variable is not set; required in production")
		}
		cfg.Auth.JWTSecret = devJWTSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted sensibly
func (c *Config) Validate() error {
	var problems []string
	switch c.DB.Driver {
	case DriverSQLite, DriverMySQL:
	default:
		problems = append(problems, fmt.Sprintf("unsupported DB_DRIVER %q (want sqlite or mysql)", c.DB.Driver))
	}
	if c.Auth.TokenTTL <= 0 {
		problems = append(problems, "ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.AppPort == "" {
		problems = append(problems, "APP_PORT must not be empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// UsesDevSecret reports whether the development fallback secret is active
func (c *Config) UsesDevSecret() bool {
	return c.Auth.JWTSecret == devJWTSecret
}

// String returns a printable form of the config with secrets masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, Prod: %t, DB: %s, Redis: %q, TokenTTL: %s, Secret: ***}",
		c.AppPort, c.IsProd, c.DB.Driver, c.Redis.Addr, c.Auth.TokenTTL)
}
