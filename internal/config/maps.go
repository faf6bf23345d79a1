package config

import "time"

const (
	GeocoderNominatim = "nominatim"
	GeocoderGoogle    = "google"
)

type MapsConfig struct {
	Geocoder       string            `yaml:"geocoder"`
	NominatimURL   string            `yaml:"nominatim_url"`
	RoutingURL     string            `yaml:"routing_url"`
	UserAgent      string            `yaml:"user_agent"`
	RequestTimeout time.Duration     `yaml:"request_timeout"`
	GoogleMaps     *GoogleMapsConfig `yaml:"google_maps"`
}

type GoogleMapsConfig struct {
	APIKey string `yaml:"api_key"`
}

func loadMapsConfig(src source) *MapsConfig {
	return &MapsConfig{
		Geocoder:       src.getString("MAPS_GEOCODER", GeocoderNominatim),
		NominatimURL:   src.getString("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		RoutingURL:     src.getString("ROUTING_URL", "https://routing.openstreetmap.de"),
		UserAgent:      src.getString("MAPS_USER_AGENT", "routebook/1.0"),
		RequestTimeout: src.getDuration("MAPS_REQUEST_TIMEOUT", 15*time.Second),
		GoogleMaps: &GoogleMapsConfig{
			APIKey: src.getString("GOOGLE_MAPS_API_KEY", ""),
		},
	}
}
