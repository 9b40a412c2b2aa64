package config

import (
	"github.com/maxviazov/shelf-trivia-service/internal/logger"
)

// Storage drivers accepted by storage.driver.
const (
	DriverPgx    = "pgx"
	DriverGorm   = "gorm"
	DriverMemory = "memory"
)

type Config struct {
	App        AppConfig           `mapstructure:"app"`
	Logger     logger.LoggerConfig `mapstructure:"logger" validate:"-"` // validated by logger.New after defaults
	Postgres   PostgresConfig      `mapstructure:"postgres"`
	Storage    StorageConfig       `mapstructure:"storage"`
	Pagination PaginationConfig    `mapstructure:"pagination"`
	CORS       CORSConfig          `mapstructure:"cors"`
	Redis      RedisConfig         `mapstructure:"redis"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
	Port    int    `mapstructure:"port" validate:"gt=0,lte=65535"`
	// ShutdownTimeout is in seconds.
	ShutdownTimeout int `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxConns int32 `mapstructure:"max_conns"`
	MinConns int32 `mapstructure:"min_conns"`
	// Durations below are in seconds.
	MaxConnLifetime   int `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int `mapstructure:"health_check_period"`
}

type StorageConfig struct {
	Driver      string `mapstructure:"driver" validate:"oneof=pgx gorm memory"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// PaginationConfig fixes the page size of each collection for the lifetime of the process.
type PaginationConfig struct {
	BooksPerShelf    int `mapstructure:"books_per_shelf" validate:"gt=0"`
	QuestionsPerPage int `mapstructure:"questions_per_page" validate:"gt=0"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins" validate:"dive,eq=*|http_url"`
	AllowMethods []string `mapstructure:"allow_methods"`
	AllowHeaders []string `mapstructure:"allow_headers"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// CategoryTTL is in seconds.
	CategoryTTL int `mapstructure:"category_ttl" validate:"gte=0"`
}
