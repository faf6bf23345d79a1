package config

import "time"

type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers"`
	RouteTopic   string        `yaml:"route_topic"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Enabled reports whether route events should be published.
func (k *KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

func loadKafkaConfig(src source) *KafkaConfig {
	return &KafkaConfig{
		Brokers:      src.getSlice("KAFKA_BROKERS", nil),
		RouteTopic:   src.getString("KAFKA_ROUTE_TOPIC", "route.events"),
		WriteTimeout: src.getDuration("KAFKA_WRITE_TIMEOUT", 5*time.Second),
	}
}
