package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/yigit/signupdesk/internal/pkg/validation"
)

// DefaultPath is where the configuration file is looked up when CONFIG_PATH is unset
const DefaultPath = "configs/config.yaml"

// Supported role names
const (
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string   `yaml:"port" env:"PORT" validate:"required,numeric"`
		Mode            string   `yaml:"mode" env:"SERVER_MODE" validate:"oneof=development production test"`
		Roles           []string `yaml:"roles" env:"SERVER_ROLES" validate:"required,min=1,unique,dive,oneof=instructor student"`
		CORSOrigins     []string `yaml:"cors_origins" env:"CORS_ORIGINS"`
		ReadTimeout     string   `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" validate:"duration"`
		WriteTimeout    string   `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" validate:"duration"`
		ShutdownTimeout string   `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" validate:"duration"`
	} `yaml:"server"`

	Database struct {
		Driver            string `yaml:"driver" env:"DB_DRIVER" validate:"required,oneof=mongo postgres sqlite"`
		URI               string `yaml:"uri" env:"DB_URI"`
		ConnectTimeout    string `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" validate:"duration"`
		RequireConnection bool   `yaml:"require_connection" env:"DB_REQUIRE_CONNECTION"`
		SQLitePath        string `yaml:"sqlite_path" env:"DB_SQLITE_PATH"`

		Postgres struct {
			Host            string `yaml:"host" env:"DB_HOST"`
			Port            string `yaml:"port" env:"DB_PORT"`
			User            string `yaml:"user" env:"DB_USER"`
			Password        string `yaml:"password" env:"DB_PASSWORD"`
			DBName          string `yaml:"dbname" env:"DB_NAME"`
			SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
			MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" validate:"gte=0"`
			MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" validate:"gte=1"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		} `yaml:"postgres"`
	} `yaml:"database"`

	// Collections maps every role to the database and collection holding its records
	Collections struct {
		Instructor struct {
			Database   string `yaml:"database" env:"INSTRUCTOR_DB" validate:"required"`
			Collection string `yaml:"collection" env:"INSTRUCTOR_COLLECTION" validate:"required"`
		} `yaml:"instructor"`
		Student struct {
			Database   string `yaml:"database" env:"STUDENT_DB" validate:"required"`
			Collection string `yaml:"collection" env:"STUDENT_COLLECTION" validate:"required"`
		} `yaml:"student"`
	} `yaml:"collections"`

	Storage struct {
		Driver        string `yaml:"driver" env:"STORAGE_DRIVER" validate:"required,oneof=local minio"`
		Path          string `yaml:"path" env:"STORAGE_PATH"`
		PublicPath    string `yaml:"public_path" env:"STORAGE_PUBLIC_PATH" validate:"required,startswith=/"`
		Naming        string `yaml:"naming" env:"STORAGE_NAMING" validate:"required,oneof=unique timestamp"`
		MaxUploadSize string `yaml:"max_upload_size" env:"STORAGE_MAX_UPLOAD_SIZE" validate:"required,bytesize"`

		Minio struct {
			Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
			AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
			SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
			Bucket    string `yaml:"bucket" env:"MINIO_BUCKET"`
			UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL"`
		} `yaml:"minio"`
	} `yaml:"storage"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" validate:"oneof=debug info warn error fatal"`
		Format string `yaml:"format" env:"LOG_FORMAT" validate:"oneof=json text"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional, defaults and env vars are enough to boot
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.Roles = []string{RoleInstructor, RoleStudent}
	config.Server.CORSOrigins = []string{"*"}
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "30s"
	config.Server.ShutdownTimeout = "10s"

	// Database defaults
	config.Database.Driver = "mongo"
	config.Database.URI = "mongodb://localhost:27017"
	config.Database.ConnectTimeout = "10s"
	config.Database.SQLitePath = "signup.db"
	config.Database.Postgres.Host = "localhost"
	config.Database.Postgres.Port = "5432"
	config.Database.Postgres.User = "postgres"
	config.Database.Postgres.Password = "postgres"
	config.Database.Postgres.DBName = "signup"
	config.Database.Postgres.SSLMode = "disable"
	config.Database.Postgres.MaxIdleConns = 2
	config.Database.Postgres.MaxOpenConns = 10
	config.Database.Postgres.ConnMaxLifetime = "1h"

	// Both kinds share one database, as the combined server did
	config.Collections.Instructor.Database = "studentSignup"
	config.Collections.Instructor.Collection = "instructors"
	config.Collections.Student.Database = "studentSignup"
	config.Collections.Student.Collection = "students"

	// Storage defaults
	config.Storage.Driver = "local"
	config.Storage.Path = "uploads"
	config.Storage.PublicPath = "/"
	config.Storage.Naming = "unique"
	config.Storage.MaxUploadSize = "10MB"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

var validate = validation.New()

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return errors.New(validation.FormatError(err))
	}

	switch config.Database.Driver {
	case "mongo":
		if config.Database.URI == "" {
			return fmt.Errorf("database uri is required for the mongo driver")
		}
	case "postgres":
		if config.Database.Postgres.Host == "" {
			return fmt.Errorf("database host is required for the postgres driver")
		}
		if _, err := time.ParseDuration(config.Database.Postgres.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid postgres connection max lifetime: %w", err)
		}
	case "sqlite":
		if config.Database.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for the sqlite driver")
		}
	}

	switch config.Storage.Driver {
	case "local":
		if config.Storage.Path == "" {
			return fmt.Errorf("storage path is required for the local driver")
		}
	case "minio":
		m := config.Storage.Minio
		if m.Endpoint == "" || m.AccessKey == "" || m.SecretKey == "" || m.Bucket == "" {
			return fmt.Errorf("minio configuration incomplete")
		}
	}

	return nil
}

// MaxUploadBytes returns storage.max_upload_size in bytes
func (c *Config) MaxUploadBytes() (int64, error) {
	n, err := humanize.ParseBytes(c.Storage.MaxUploadSize)
	if err != nil {
		return 0, fmt.Errorf("invalid max upload size %q: %w", c.Storage.MaxUploadSize, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("max upload size must be positive")
	}
	return int64(n), nil
}

// HasRole reports whether the given role is served
func (c *Config) HasRole(role string) bool {
	for _, r := range c.Server.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CollectionFor returns the database and collection configured for a role
func (c *Config) CollectionFor(role string) (database, collection string, ok bool) {
	switch role {
	case RoleInstructor:
		return c.Collections.Instructor.Database, c.Collections.Instructor.Collection, true
	case RoleStudent:
		return c.Collections.Student.Database, c.Collections.Student.Collection, true
	}
	return "", "", false
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	pg := c.Database.Postgres
	sslMode := pg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		pg.User,
		pg.Password,
		pg.Host,
		pg.Port,
		pg.DBName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
