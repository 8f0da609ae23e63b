package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	StoreDriverMongo = "mongo"
	StoreDriverMySQL = "mysql"
)

// Configuration holds everything the API and the CLI tools need at start-up.
type Configuration struct {
	ServerPort      string        `env:"SERVER_PORT" envDefault:"8080" validate:"required,numeric"`
	GinMode         string        `env:"GIN_MODE" envDefault:"debug" validate:"oneof=debug release test"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000" validate:"dive,eq=*|http_url"`

	// Catalog store
	StoreDriver   string `env:"STORE_DRIVER" envDefault:"mongo" validate:"oneof=mongo mysql"`
	MongoURI      string `env:"MONGODB_URI" validate:"required_if=StoreDriver mongo"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"library" validate:"required_if=StoreDriver mongo"`
	DBHost        string `env:"DB_HOST" envDefault:"127.0.0.1" validate:"required_if=StoreDriver mysql"`
	DBPort        string `env:"DB_PORT" envDefault:"3306" validate:"required_if=StoreDriver mysql"`
	DBDatabase    string `env:"DB_DATABASE" validate:"required_if=StoreDriver mysql"`
	DBUsername    string `env:"DB_USERNAME" validate:"required_if=StoreDriver mysql"`
	DBPassword    string `env:"DB_PASSWORD"`
	DebugSQL      bool   `env:"DEBUG_SQL" envDefault:"false"`

	// Admin statistics
	StatsCacheTTL           time.Duration `env:"STATS_CACHE_TTL" envDefault:"300s" validate:"gt=0"`
	StatsCacheCheckPeriod   time.Duration `env:"STATS_CACHE_CHECK_PERIOD" envDefault:"60s" validate:"gte=0"`
	BreakerFailureThreshold uint32        `env:"BREAKER_FAILURE_THRESHOLD" envDefault:"0"`
	BreakerOpenTimeout      time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"30s" validate:"gt=0"`

	Log LogConfig
}

// LogConfig controls the logrus setup done by InitLogging.
type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error fatal"`
	Format     string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	Output     string `env:"LOG_OUTPUT" envDefault:"stdout" validate:"oneof=stdout file both"`
	Path       string `env:"LOG_PATH" envDefault:"logs"`
	File       string `env:"LOG_FILE" envDefault:"library-api.log"`
	MaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100" validate:"gte=1"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"7" validate:"gte=0"`
	MaxAge     int    `env:"LOG_MAX_AGE" envDefault:"7" validate:"gte=0"`
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// IsProduction reports whether ENVIRONMENT is set to production.
func (c *Configuration) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads an optional .env file and parses the process environment into a
// validated Configuration.
func Load(files ...string) (*Configuration, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return Parse()
}

// Parse builds a Configuration from the current environment only.
func Parse() (*Configuration, error) {
	cfg := &Configuration{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	cfg.Log.Output = strings.ToLower(cfg.Log.Output)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
