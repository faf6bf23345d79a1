package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       *AppConfig       `yaml:"app"`
	Database  *DatabaseConfig  `yaml:"database"`
	Redis     *RedisConfig     `yaml:"redis"`
	Maps      *MapsConfig      `yaml:"maps"`
	Firebase  *FirebaseConfig  `yaml:"firebase"`
	Kafka     *KafkaConfig     `yaml:"kafka"`
	WebSocket *WebSocketConfig `yaml:"websocket"`
	Security  *SecurityConfig  `yaml:"security"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
	Port        int    `yaml:"port"`
	Host        string `yaml:"host"`
	Debug       bool   `yaml:"debug"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	Timezone    string `yaml:"timezone"`
}

type SecurityConfig struct {
	JWTSecret          string   `yaml:"jwt_secret"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	TrustedProxies     []string `yaml:"trusted_proxies"`
}

// Load reads configuration from the environment. When CONFIG_FILE names a
// YAML file it is read first and environment variables override it.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !isMissingFile(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
			}
		}
	}

	return loadFrom(source{v: v})
}

func loadFrom(src source) (*Config, error) {
	config := &Config{
		App:       loadAppConfig(src),
		Database:  loadDatabaseConfig(src),
		Redis:     loadRedisConfig(src),
		Maps:      loadMapsConfig(src),
		Firebase:  loadFirebaseConfig(src),
		Kafka:     loadKafkaConfig(src),
		WebSocket: loadWebSocketConfig(src),
		Security:  loadSecurityConfig(src),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Database.Provider {
	case StorageMongoDB, StorageFirestore, StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_PROVIDER %q", c.Database.Provider)
	}

	switch c.Maps.Geocoder {
	case GeocoderNominatim:
	case GeocoderGoogle:
		if c.Maps.GoogleMaps.APIKey == "" {
			return fmt.Errorf("GOOGLE_MAPS_API_KEY is required when MAPS_GEOCODER=google")
		}
	default:
		return fmt.Errorf("unsupported MAPS_GEOCODER %q", c.Maps.Geocoder)
	}

	if c.Database.Provider == StorageFirestore && c.Firebase.ProjectID == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required when STORAGE_PROVIDER=firestore")
	}

	return nil
}

func loadAppConfig(src source) *AppConfig {
	return &AppConfig{
		Name:        src.getString("APP_NAME", "routebook"),
		Version:     src.getString("APP_VERSION", "1.0.0"),
		Environment: src.getString("APP_ENV", "development"),
		Port:        src.getInt("APP_PORT", 8080),
		Host:        src.getString("APP_HOST", "localhost"),
		Debug:       src.getBool("APP_DEBUG", true),
		LogLevel:    src.getString("LOG_LEVEL", "info"),
		LogFormat:   src.getString("LOG_FORMAT", "json"),
		Timezone:    src.getString("APP_TIMEZONE", "UTC"),
	}
}

func loadSecurityConfig(src source) *SecurityConfig {
	return &SecurityConfig{
		JWTSecret:          src.getString("JWT_SECRET", "your-super-secret-jwt-key"),
		CORSAllowedOrigins: src.getSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		TrustedProxies:     src.getSlice("TRUSTED_PROXIES", []string{}),
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// source reads typed values with defaults from a viper instance.
type source struct {
	v *viper.Viper
}

func (s source) getString(key, defaultValue string) string {
	if s.v.IsSet(key) {
		if value := strings.TrimSpace(s.v.GetString(key)); value != "" {
			return value
		}
	}
	return defaultValue
}

func (s source) getInt(key string, defaultValue int) int {
	if !s.v.IsSet(key) {
		return defaultValue
	}
	value, err := castInt(s.v.Get(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func (s source) getBool(key string, defaultValue bool) bool {
	if !s.v.IsSet(key) {
		return defaultValue
	}
	value, err := castBool(s.v.Get(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func (s source) getDuration(key string, defaultValue time.Duration) time.Duration {
	if !s.v.IsSet(key) {
		return defaultValue
	}
	value, err := castDuration(s.v.Get(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func (s source) getSlice(key string, defaultValue []string) []string {
	if !s.v.IsSet(key) {
		return defaultValue
	}
	switch raw := s.v.Get(key).(type) {
	case []interface{}:
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			out = append(out, strings.TrimSpace(fmt.Sprint(item)))
		}
		return out
	case []string:
		return raw
	default:
		value := strings.TrimSpace(s.v.GetString(key))
		if value == "" {
			return defaultValue
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
}
