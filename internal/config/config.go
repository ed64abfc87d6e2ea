package config

import (
	"os"
	"strconv"
	"time"

	"fclimits/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	FC     FCConfig
	Belt   BeltConfig
	Server ServerConfig
	Output OutputConfig
}

// FCConfig holds the limit-search defaults
type FCConfig struct {
	Alpha          float64
	Threshold      float64
	MaxIterations  int
	InitialSupport int
	MaxSupport     int
	Timeout        time.Duration
}

// BeltConfig holds the belt sweep grid and worker settings
type BeltConfig struct {
	MuMax   float64
	MuStep  float64
	Workers int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// OutputConfig holds where rendered belts are written
type OutputConfig struct {
	Dir string
}

// Load reads configuration from environment variables and validates it.
// A .env file in the working directory is honoured when present.
func Load() (*Config, error) {
	return LoadFiles()
}

// LoadFiles is Load with explicit dotenv files. Variables already set in
// the environment win over the files.
func LoadFiles(files ...string) (*Config, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, errors.Wrap(err, "failed to read env file")
		}
	}

	config := &Config{
		FC:     *loadFCConfig(),
		Belt:   *loadBeltConfig(),
		Server: *loadServerConfig(),
		Output: *loadOutputConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the built-in configuration without consulting the environment.
func Default() *Config {
	return &Config{
		FC: FCConfig{
			Alpha:          0.9,
			Threshold:      0.001,
			MaxIterations:  10000,
			InitialSupport: 14,
			MaxSupport:     5000,
			Timeout:        30 * time.Second,
		},
		Belt: BeltConfig{
			MuMax:   50,
			MuStep:  0.005,
			Workers: 4,
		},
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "release",
		},
		Output: OutputConfig{
			Dir: ".",
		},
	}
}

func loadFCConfig() *FCConfig {
	d := Default().FC
	return &FCConfig{
		Alpha:          getEnvFloatOrDefault("FC_ALPHA", d.Alpha),
		Threshold:      getEnvFloatOrDefault("FC_THRESHOLD", d.Threshold),
		MaxIterations:  getEnvIntOrDefault("FC_MAX_ITERATIONS", d.MaxIterations),
		InitialSupport: getEnvIntOrDefault("FC_INITIAL_SUPPORT", d.InitialSupport),
		MaxSupport:     getEnvIntOrDefault("FC_MAX_SUPPORT", d.MaxSupport),
		Timeout:        getEnvDurationOrDefault("FC_TIMEOUT", d.Timeout),
	}
}

func loadBeltConfig() *BeltConfig {
	d := Default().Belt
	return &BeltConfig{
		MuMax:   getEnvFloatOrDefault("FC_BELT_MU_MAX", d.MuMax),
		MuStep:  getEnvFloatOrDefault("FC_BELT_MU_STEP", d.MuStep),
		Workers: getEnvIntOrDefault("FC_WORKERS", d.Workers),
	}
}

func loadServerConfig() *ServerConfig {
	d := Default().Server
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", d.Port),
		GinMode: getEnvOrDefault("GIN_MODE", d.GinMode),
	}
}

func loadOutputConfig() *OutputConfig {
	return &OutputConfig{
		Dir: getEnvOrDefault("FC_OUTPUT_DIR", Default().Output.Dir),
	}
}

func validateConfig(config *Config) error {
	if config.FC.Alpha <= 0 || config.FC.Alpha >= 1 {
		return errors.ConfigInvalid("FC_ALPHA must be in (0,1)")
	}
	if config.FC.Threshold <= 0 {
		return errors.ConfigInvalid("FC_THRESHOLD must be positive")
	}
	if config.FC.MaxIterations <= 0 {
		return errors.ConfigInvalid("FC_MAX_ITERATIONS must be positive")
	}
	if config.FC.InitialSupport < 1 {
		return errors.ConfigInvalid("FC_INITIAL_SUPPORT must be at least 1")
	}
	if config.FC.MaxSupport < config.FC.InitialSupport {
		return errors.ConfigInvalid("FC_MAX_SUPPORT must not be below FC_INITIAL_SUPPORT")
	}
	if config.FC.Timeout <= 0 {
		return errors.ConfigInvalid("FC_TIMEOUT must be positive")
	}
	if config.Belt.MuMax <= 0 || config.Belt.MuStep <= 0 {
		return errors.ConfigInvalid("FC_BELT_MU_MAX and FC_BELT_MU_STEP must be positive")
	}
	if config.Belt.Workers < 1 {
		return errors.ConfigInvalid("FC_WORKERS must be at least 1")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
