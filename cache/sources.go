package cache

import (
	"context"
	"fmt"
	"strings"

	"weatherlux/datasource"
	"weatherlux/models"
)

type (
	currentResult    = models.CurrentConditions
	airQualityResult = models.AirQualityReading
	alertsResult     = []models.WeatherAlert
	citiesResult     = []models.City
)

// CachedCurrentSource wraps a CurrentSource and adds caching
type CachedCurrentSource struct {
	source datasource.CurrentSource
	*store[currentResult]
}

func (c *CachedCurrentSource) Name() string { return cachedName(c.source.Name()) }

// CurrentConditions returns the cached record for coord when still fresh
func (c *CachedCurrentSource) CurrentConditions(ctx context.Context, coord models.Coordinate) (models.CurrentConditions, error) {
	return c.get(c.source.Name(), coord.Key(), func() (models.CurrentConditions, error) {
		return c.source.CurrentConditions(ctx, coord)
	})
}

// CachedAirQualitySource wraps an AirQualitySource and adds caching
type CachedAirQualitySource struct {
	source datasource.AirQualitySource
	*store[airQualityResult]
}

func (c *CachedAirQualitySource) Name() string { return cachedName(c.source.Name()) }

func (c *CachedAirQualitySource) AirQuality(ctx context.Context, coord models.Coordinate) (models.AirQualityReading, error) {
	return c.get(c.source.Name(), coord.Key(), func() (models.AirQualityReading, error) {
		return c.source.AirQuality(ctx, coord)
	})
}

// CachedAlertSource wraps an AlertSource and adds caching
type CachedAlertSource struct {
	source datasource.AlertSource
	*store[alertsResult]
}

func (c *CachedAlertSource) Name() string { return cachedName(c.source.Name()) }

func (c *CachedAlertSource) Alerts(ctx context.Context, coord models.Coordinate) ([]models.WeatherAlert, error) {
	alerts, err := c.get(c.source.Name(), coord.Key(), func() ([]models.WeatherAlert, error) {
		return c.source.Alerts(ctx, coord)
	})
	if err != nil {
		return nil, err
	}
	return append([]models.WeatherAlert{}, alerts...), nil
}

// CachedUVSource wraps a UVSource and adds caching
type CachedUVSource struct {
	source datasource.UVSource
	*store[float64]
}

func (c *CachedUVSource) Name() string { return cachedName(c.source.Name()) }

func (c *CachedUVSource) UVIndex(ctx context.Context, coord models.Coordinate) (float64, error) {
	return c.get(c.source.Name(), coord.Key(), func() (float64, error) {
		return c.source.UVIndex(ctx, coord)
	})
}

// CachedCitySearcher caches search results per normalized query and limit
type CachedCitySearcher struct {
	source datasource.CitySearcher
	*store[citiesResult]
}

func (c *CachedCitySearcher) Name() string { return cachedName(c.source.Name()) }

func (c *CachedCitySearcher) SearchCities(ctx context.Context, query string, limit int) ([]models.City, error) {
	key := fmt.Sprintf("%s:%d", strings.ToLower(strings.TrimSpace(query)), limit)
	cities, err := c.get(c.source.Name(), key, func() ([]models.City, error) {
		return c.source.SearchCities(ctx, query, limit)
	})
	if err != nil {
		return nil, err
	}
	return append([]models.City{}, cities...), nil
}

var (
	_ datasource.CurrentSource    = (*CachedCurrentSource)(nil)
	_ datasource.AirQualitySource = (*CachedAirQualitySource)(nil)
	_ datasource.AlertSource      = (*CachedAlertSource)(nil)
	_ datasource.UVSource         = (*CachedUVSource)(nil)
	_ datasource.CitySearcher     = (*CachedCitySearcher)(nil)
)
