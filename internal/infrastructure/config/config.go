package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application.
type Config struct {
	// Environment type
	EnvType string

	// Database
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBMigrationMode string // migration mode: "auto" (default), "alter", "drop"

	// Server
	ServerPort string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// External places index
	PlacesAPIURL string // base URL of the places API
	PlacesAPIKey string

	// Condo resolver tuning
	ResolverMinQueryLen    int     // queries shorter than this short-circuit to empty
	ResolverLocalThreshold int     // external augmentation only below this many local hits
	ResolverBiasRadiusKm   float64 // location bias radius for external text search
	ResolverMaxResults     int     // default result cap
	ResolverCoordPrecision int     // decimal places for coordinate-equality dedup
	RecentCondoLimit       int     // per-user recent condo list length

	// MQTT notification dispatch
	MQTTBrokerURL  string // broker address, e.g. tcp://broker.example.com:1883
	MQTTClientID   string
	MQTTUsername   string
	MQTTPassword   string
	MQTTQoS        int // quality of service (0, 1, 2)
	MQTTRetained   bool
	MQTTSSLEnabled bool

	// JWT Authentication
	JWTSecretKey string

	// Admin
	DefaultAdminPassword string
}

// LoadConfig loads config from environment variables based on ENV_TYPE.
func LoadConfig() *Config {
	envType := getEnv("ENV_TYPE", "LOCAL")
	prefix := ""

	if strings.ToUpper(envType) == "LOCAL" {
		prefix = "LOCAL_"
	} else if strings.ToUpper(envType) == "SERVER" {
		prefix = "SERVER_"
	} else {
		fmt.Printf("Warning: Unknown ENV_TYPE '%s', defaulting to LOCAL environment\n", envType)
		prefix = "LOCAL_"
		envType = "LOCAL"
	}

	fmt.Printf("Loading configuration for environment: %s\n", envType)

	return &Config{
		EnvType: envType,

		// Database config - use environment-specific variables if available
		DBHost:          getEnvRequired(prefix + "DB_HOST"),
		DBUser:          getEnvRequired(prefix + "DB_USER"),
		DBPassword:      getEnvRequired(prefix + "DB_PASSWORD"),
		DBName:          getEnvRequired(prefix + "DB_NAME"),
		DBPort:          getEnvRequired(prefix + "DB_PORT"),
		DBMigrationMode: getEnv(prefix+"DB_MIGRATION_MODE", "auto"),

		// Server config
		ServerPort: getEnv(prefix+"SERVER_PORT", getEnv("SERVER_PORT", "8080")),

		// Redis config
		RedisHost:     getEnv(prefix+"REDIS_HOST", getEnv("REDIS_HOST", "localhost")),
		RedisPort:     getEnv(prefix+"REDIS_PORT", getEnv("REDIS_PORT", "6379")),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Places index config
		PlacesAPIURL: getEnv("PLACES_API_URL", "https://maps.googleapis.com/maps/api/place"),
		PlacesAPIKey: getEnv("PLACES_API_KEY", ""),

		// Resolver tuning
		ResolverMinQueryLen:    getEnvAsInt("RESOLVER_MIN_QUERY_LEN", 3),
		ResolverLocalThreshold: getEnvAsInt("RESOLVER_LOCAL_THRESHOLD", 3),
		ResolverBiasRadiusKm:   getEnvAsFloat("RESOLVER_BIAS_RADIUS_KM", 5),
		ResolverMaxResults:     getEnvAsInt("RESOLVER_MAX_RESULTS", 10),
		ResolverCoordPrecision: getEnvAsInt("RESOLVER_COORD_PRECISION", 4),
		RecentCondoLimit:       getEnvAsInt("RECENT_CONDO_LIMIT", 5),

		// MQTT config
		MQTTBrokerURL:  getEnv("MQTT_BROKER_URL", "tcp://localhost:1883"),
		MQTTClientID:   getEnv("MQTT_CLIENT_ID", "condy_server"),
		MQTTUsername:   getEnv("MQTT_USERNAME", ""),
		MQTTPassword:   getEnv("MQTT_PASSWORD", ""),
		MQTTQoS:        getEnvAsInt("MQTT_QOS", 1),
		MQTTRetained:   getEnvAsBool("MQTT_RETAINED", false),
		MQTTSSLEnabled: getEnvAsBool("MQTT_SSL_ENABLED", false),

		// JWT config
		JWTSecretKey: getEnvRequired("JWT_SECRET_KEY"),

		// Admin config
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "admin"),
	}
}

// GetConfig returns the process-wide config, loading it once.
func GetConfig() *Config {
	configOnce.Do(func() {
		config = LoadConfig()
	})
	return config
}

// GetDSN returns the MySQL connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// GetRedisAddr returns the Redis address.
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		fmt.Printf("Warning: required environment variable %s is not set\n", key)
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
