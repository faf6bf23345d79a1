package config

import (
	"time"
)

type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size"`
	MaxMessageSize  int64         `yaml:"max_message_size"`
	PingInterval    time.Duration `yaml:"ping_interval"`
	PongTimeout     time.Duration `yaml:"pong_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

func loadWebSocketConfig(src source) *WebSocketConfig {
	return &WebSocketConfig{
		ReadBufferSize:  src.getInt("WEBSOCKET_READ_BUFFER_SIZE", 1024),
		WriteBufferSize: src.getInt("WEBSOCKET_WRITE_BUFFER_SIZE", 1024),
		MaxMessageSize:  int64(src.getInt("WEBSOCKET_MAX_MESSAGE_SIZE", 8192)),
		PingInterval:    src.getDuration("WEBSOCKET_PING_INTERVAL", 54*time.Second),
		PongTimeout:     src.getDuration("WEBSOCKET_PONG_TIMEOUT", 60*time.Second),
		WriteTimeout:    src.getDuration("WEBSOCKET_WRITE_TIMEOUT", 10*time.Second),
		AllowedOrigins:  src.getSlice("WEBSOCKET_ALLOWED_ORIGINS", []string{"*"}),
	}
}
