package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
	Solver    SolverConfig
	Cache     CacheConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type CORSConfig struct {
	Origins []string
}

type RateLimitConfig struct {
	Requests int
	Window   string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// SolverConfig holds the resource caps applied to every solve run.
type SolverConfig struct {
	MaxIterations           int
	MaxNodes                int
	MaxCuts                 int
	DefaultTimeLimitSeconds int
}

// CacheConfig controls the process-wide last-solve cache.
type CacheConfig struct {
	RedisURL                string // optional; empty disables the distributed mirror
	SnapshotIntervalSeconds int    // cadence of the cache janitor's health log
}

// Load initializes and loads configuration using Viper
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./server")
	viper.AddConfigPath("../")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: .env file not found, using environment variables and defaults")
		} else {
			log.Printf("Error reading config file: %v", err)
		}
	} else {
		log.Printf("Using config file: %s", viper.ConfigFileUsed())
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("PORT"),
			Host: viper.GetString("HOST"),
		},
		CORS: CORSConfig{
			Origins: viper.GetStringSlice("CORS_ORIGINS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   viper.GetString("RATE_LIMIT_WINDOW"),
		},
		Logging: LoggingConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Solver: SolverConfig{
			MaxIterations:           viper.GetInt("SOLVER_MAX_ITERATIONS"),
			MaxNodes:                viper.GetInt("SOLVER_MAX_NODES"),
			MaxCuts:                 viper.GetInt("SOLVER_MAX_CUTS"),
			DefaultTimeLimitSeconds: viper.GetInt("SOLVER_DEFAULT_TIME_LIMIT_SECONDS"),
		},
		Cache: CacheConfig{
			RedisURL:                viper.GetString("CACHE_REDIS_URL"),
			SnapshotIntervalSeconds: viper.GetInt("CACHE_SNAPSHOT_INTERVAL_SECONDS"),
		},
	}
}

// setDefaults sets default values for all configuration options
func setDefaults() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("GIN_MODE", "debug")

	viper.SetDefault("CORS_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"})

	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	// Resource caps for the solve engines.
	viper.SetDefault("SOLVER_MAX_ITERATIONS", 10000)
	viper.SetDefault("SOLVER_MAX_NODES", 10000)
	viper.SetDefault("SOLVER_MAX_CUTS", 200)
	viper.SetDefault("SOLVER_DEFAULT_TIME_LIMIT_SECONDS", 30)

	viper.SetDefault("CACHE_REDIS_URL", "")
	viper.SetDefault("CACHE_SNAPSHOT_INTERVAL_SECONDS", 300)
}
