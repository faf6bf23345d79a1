package config

import (
	"time"
)

const (
	StorageMongoDB   = "mongodb"
	StorageFirestore = "firestore"
	StorageMemory    = "memory"
)

type DatabaseConfig struct {
	Provider         string        `yaml:"provider"`
	URI              string        `yaml:"uri"`
	Database         string        `yaml:"database"`
	RoutesCollection string        `yaml:"routes_collection"`
	MaxPoolSize      int           `yaml:"max_pool_size"`
	MinPoolSize      int           `yaml:"min_pool_size"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout"`
	SocketTimeout    time.Duration `yaml:"socket_timeout"`
}

func loadDatabaseConfig(src source) *DatabaseConfig {
	return &DatabaseConfig{
		Provider:         src.getString("STORAGE_PROVIDER", StorageMongoDB),
		URI:              src.getString("MONGODB_URI", "mongodb://localhost:27017/routebook"),
		Database:         src.getString("MONGODB_DATABASE", "routebook"),
		RoutesCollection: src.getString("ROUTES_COLLECTION", "routes"),
		MaxPoolSize:      src.getInt("MONGODB_MAX_POOL_SIZE", 100),
		MinPoolSize:      src.getInt("MONGODB_MIN_POOL_SIZE", 5),
		ConnectTimeout:   src.getDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
		SocketTimeout:    src.getDuration("MONGODB_SOCKET_TIMEOUT", 30*time.Second),
	}
}
