// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"globalfreq/internal/domain/frequency"
)

// Config holds all application configuration
type Config struct {
	Environment string `validate:"required"`
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Logging     LoggingConfig
	Frequency   FrequencyConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int `validate:"gt=0,lt=65536"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
	MaxBodyBytes    int64 `validate:"gt=0"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string `validate:"required"`
	Port         int    `validate:"gt=0,lt=65536"`
	User         string
	Password     string
	Database     string `validate:"required"`
	MaxOpenConns int    `validate:"gt=0"`
	MaxIdleConns int    `validate:"gte=0"`
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string `validate:"required"`
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	RunsSubject    string `validate:"required"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `validate:"oneof=trace debug info warn warning error fatal disabled"`
	Format string `validate:"oneof=json console"`
}

// FrequencyConfig holds configuration for combining regional frequencies
type FrequencyConfig struct {
	RidgeFraction float64 `validate:"gt=0,lt=1"`
	Precision     int     `validate:"gte=0,lte=12"`
	RegionsFile   string
	Regions       []frequency.Region `validate:"required,min=1,dive"`
}

// Load loads configuration from environment variables, after reading a
// .env file if one is present
func Load() (Config, error) {
	_ = godotenv.Load()

	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
			MaxBodyBytes:    int64(getEnvAsInt("SERVER_MAX_BODY_BYTES", 64<<20)),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "globalfreq"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			RunsSubject:    getEnv("NATS_RUNS_SUBJECT", "frequency.runs"),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		Frequency: FrequencyConfig{
			RidgeFraction: getEnvAsFloat("FREQ_RIDGE_FRACTION", 0.05),
			Precision:     getEnvAsInt("FREQ_PRECISION", 4),
			RegionsFile:   getEnv("FREQ_REGIONS_FILE", ""),
			Regions:       DefaultRegions(),
		},
	}

	if config.Frequency.RegionsFile != "" {
		regions, err := LoadRegionsFile(config.Frequency.RegionsFile)
		if err != nil {
			return config, err
		}
		config.Frequency.Regions = regions
	}

	return config, Validate(config)
}

// DefaultRegions returns the seasonal influenza region table: relative
// population sizes and export codes
func DefaultRegions() []frequency.Region {
	return []frequency.Region{
		{Name: "africa", PopulationWeight: 1.02, DisplayCode: "AF"},
		{Name: "europe", PopulationWeight: 0.74, DisplayCode: "EU"},
		{Name: "north_america", PopulationWeight: 0.54, DisplayCode: "NA"},
		{Name: "china", PopulationWeight: 1.36, DisplayCode: "CN"},
		{Name: "south_asia", PopulationWeight: 1.45, DisplayCode: "SAS"},
		{Name: "japan_korea", PopulationWeight: 0.20, DisplayCode: "JK"},
		{Name: "oceania", PopulationWeight: 0.04, DisplayCode: "OC"},
		{Name: "south_america", PopulationWeight: 0.41, DisplayCode: "SA"},
		{Name: "southeast_asia", PopulationWeight: 0.62, DisplayCode: "SEA"},
		{Name: "west_asia", PopulationWeight: 0.75, DisplayCode: "WAS"},
	}
}

// regionsFile is the on-disk layout of a region table
type regionsFile struct {
	Regions []frequency.Region `yaml:"regions"`
}

// LoadRegionsFile reads a YAML region table
func LoadRegionsFile(path string) ([]frequency.Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading regions file: %w", err)
	}

	var file regionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing regions file %s: %w", path, err)
	}

	return file.Regions, nil
}

// RegionTable builds the lookup table used by the combiner
func (c FrequencyConfig) RegionTable() frequency.RegionTable {
	return frequency.NewRegionTable(c.Regions)
}

// Validate checks if config is valid
func Validate(config Config) error {
	v := validator.New()
	v.RegisterStructValidationMapRules(map[string]string{
		"Name":             "required",
		"PopulationWeight": "gt=0",
	}, frequency.Region{})

	if err := v.Struct(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seen := make(map[string]struct{}, len(config.Frequency.Regions))
	for _, r := range config.Frequency.Regions {
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("invalid configuration: region %s defined more than once", r.Name)
		}
		seen[r.Name] = struct{}{}
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
