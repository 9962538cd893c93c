package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// ValidateConfig checks the resource caps the solver depends on are sane,
// since a zero or negative cap would let every solve run unbounded.
func ValidateConfig() error {
	for _, key := range []string{
		"SOLVER_MAX_ITERATIONS",
		"SOLVER_MAX_NODES",
		"SOLVER_MAX_CUTS",
		"SOLVER_DEFAULT_TIME_LIMIT_SECONDS",
	} {
		if viper.GetInt(key) <= 0 {
			return fmt.Errorf("config: %s must be a positive integer", key)
		}
	}
	return nil
}

// GetStringConfig returns a string configuration value
func GetStringConfig(key string, defaultValue ...string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetIntConfig returns an integer configuration value
func GetIntConfig(key string, defaultValue ...int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}

// GetStringSliceConfig returns a string slice configuration value
func GetStringSliceConfig(key string, defaultValue ...[]string) []string {
	if viper.IsSet(key) {
		return viper.GetStringSlice(key)
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return []string{}
}

// PrintConfig prints the current configuration
func PrintConfig() {
	log.Println("=== Configuration ===")
	log.Printf("Server: %s:%s", GetStringConfig("HOST"), GetStringConfig("PORT"))
	log.Printf("Gin Mode: %s", GetStringConfig("GIN_MODE"))
	log.Printf("CORS Origins: %v", GetStringSliceConfig("CORS_ORIGINS"))
	log.Printf("Log Level: %s", GetStringConfig("LOG_LEVEL"))
	log.Printf("Log Format: %s", GetStringConfig("LOG_FORMAT"))
	log.Printf("Solver caps: iterations=%d nodes=%d cuts=%d timeLimit=%ds",
		GetIntConfig("SOLVER_MAX_ITERATIONS"),
		GetIntConfig("SOLVER_MAX_NODES"),
		GetIntConfig("SOLVER_MAX_CUTS"),
		GetIntConfig("SOLVER_DEFAULT_TIME_LIMIT_SECONDS"))
	if url := GetStringConfig("CACHE_REDIS_URL"); url != "" {
		log.Printf("Cache mirror: redis (%s)", url)
	} else {
		log.Printf("Cache mirror: disabled (in-process only)")
	}
	log.Println("=====================")
}

// IsDevelopment returns true if running in development mode
func IsDevelopment() bool {
	return GetStringConfig("GIN_MODE") == "debug"
}

// IsProduction returns true if running in production mode
func IsProduction() bool {
	return GetStringConfig("GIN_MODE") == "release"
}
