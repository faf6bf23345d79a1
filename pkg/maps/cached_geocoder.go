package maps

import (
	"context"
	"errors"
	"strings"
	"time"

	"routebook/internal/models"
	"routebook/pkg/cache"
	"routebook/pkg/logger"
)

const (
	geocodeKeyPrefix  = "geocode:"
	DefaultGeocodeTTL = 24 * time.Hour
)

// CachedGeocoder memoizes a Geocoder in a cache keyed by the normalised
// address. Cache failures fall through to the wrapped geocoder.
type CachedGeocoder struct {
	next   Geocoder
	cache  cache.Cache
	ttl    time.Duration
	logger *logger.Logger
}

func NewCachedGeocoder(next Geocoder, c cache.Cache, ttl time.Duration, log *logger.Logger) *CachedGeocoder {
	if ttl <= 0 {
		ttl = DefaultGeocodeTTL
	}
	return &CachedGeocoder{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: log,
	}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	key := GeocodeCacheKey(address)
	if key == geocodeKeyPrefix {
		return c.next.Geocode(ctx, address)
	}

	var cached models.Coordinate
	err := c.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		if cached.Validate() == nil {
			return cached, nil
		}
		c.logger.WithField("key", key).Warn("Discarding invalid cached coordinate")
	case !errors.Is(err, cache.ErrCacheMiss):
		c.logger.WithError(err).WithField("key", key).Warn("Geocode cache read failed")
	}

	coordinate, err := c.next.Geocode(ctx, address)
	if err != nil {
		return models.Coordinate{}, err
	}

	if err := c.cache.Set(ctx, key, coordinate, c.ttl); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Geocode cache write failed")
	}

	return coordinate, nil
}

// GeocodeCacheKey normalises case and inner whitespace of an address.
func GeocodeCacheKey(address string) string {
	return geocodeKeyPrefix + strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
