package config

import (
	"time"
)

type RedisConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	GeocodeTTL   time.Duration `yaml:"geocode_ttl"`
}

func loadRedisConfig(src source) *RedisConfig {
	return &RedisConfig{
		Enabled:      src.getBool("REDIS_ENABLED", false),
		Host:         src.getString("REDIS_HOST", "localhost"),
		Port:         src.getInt("REDIS_PORT", 6379),
		Password:     src.getString("REDIS_PASSWORD", ""),
		DB:           src.getInt("REDIS_DB", 0),
		PoolSize:     src.getInt("REDIS_POOL_SIZE", 10),
		MinIdleConns: src.getInt("REDIS_MIN_IDLE_CONNS", 3),
		DialTimeout:  src.getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  src.getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: src.getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		GeocodeTTL:   src.getDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
	}
}
