package cache

import (
	"context"
	"time"

	"weatherlux/datasource"
	"weatherlux/models"
)

// CachedForecastSource wraps a ForecastSource and adds caching functionality
type CachedForecastSource struct {
	source datasource.ForecastSource
	*store[models.Forecast]
}

// NewCachedForecastSource creates a new cached wrapper around a forecast source
func NewCachedForecastSource(source datasource.ForecastSource, cacheDuration time.Duration, now func() time.Time) *CachedForecastSource {
	if now == nil {
		now = time.Now
	}
	return &CachedForecastSource{
		source: source,
		store:  newStore[models.Forecast](cacheDuration, now),
	}
}

// Name returns the name of the underlying forecast source with [Cached] suffix
func (c *CachedForecastSource) Name() string {
	return cachedName(c.source.Name())
}

// Forecast returns the cached forecast for coord when still fresh. The
// entries are copied so callers may reorder them freely.
func (c *CachedForecastSource) Forecast(ctx context.Context, coord models.Coordinate) (models.Forecast, error) {
	fc, err := c.get(c.source.Name(), coord.Key(), func() (models.Forecast, error) {
		return c.source.Forecast(ctx, coord)
	})
	if err != nil {
		return models.Forecast{}, err
	}
	fc.Entries = append([]models.ForecastEntry(nil), fc.Entries...)
	return fc, nil
}

// Ensure CachedForecastSource implements ForecastSource
var _ datasource.ForecastSource = (*CachedForecastSource)(nil)
