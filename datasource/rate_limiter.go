package datasource

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"weatherlux/models"
)

func rateLimitedName(name string) string {
	return fmt.Sprintf("%s [Rate Limited]", name)
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	// Wait for rate limiter permission or context cancellation
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return nil
}

// RateLimited wraps every source in s with one shared limiter, so all
// facets of a provider draw from the same budget.
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func RateLimited(s Sources, rps float64, burst int) Sources {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	var out Sources
	for _, src := range s.Current {
		out.Current = append(out.Current, &RateLimitedCurrentSource{src, limiter})
	}
	for _, src := range s.Forecast {
		out.Forecast = append(out.Forecast, &RateLimitedForecastSource{src, limiter})
	}
	for _, src := range s.AirQuality {
		out.AirQuality = append(out.AirQuality, &RateLimitedAirQualitySource{src, limiter})
	}
	for _, src := range s.Alerts {
		out.Alerts = append(out.Alerts, &RateLimitedAlertSource{src, limiter})
	}
	for _, src := range s.UV {
		out.UV = append(out.UV, &RateLimitedUVSource{src, limiter})
	}
	for _, src := range s.Search {
		out.Search = append(out.Search, &RateLimitedCitySearcher{src, limiter})
	}
	return out
}

// RateLimitedCurrentSource wraps a CurrentSource with rate limiting
type RateLimitedCurrentSource struct {
	source  CurrentSource
	limiter *rate.Limiter
}

// CurrentConditions fetches current conditions, respecting rate limits
func (r *RateLimitedCurrentSource) CurrentConditions(ctx context.Context, coord models.Coordinate) (models.CurrentConditions, error) {
	if err := wait(ctx, r.limiter); err != nil {
		return models.CurrentConditions{}, NewNetworkError(r.source.Name(), "current", err)
	}
	return r.source.CurrentConditions(ctx, coord)
}

func (r *RateLimitedCurrentSource) Name() string { return rateLimitedName(r.source.Name()) }

// RateLimitedForecastSource wraps a ForecastSource with rate limiting
type RateLimitedForecastSource struct {
	source  ForecastSource
	limiter *rate.Limiter
}

// Forecast fetches forecast data, respecting rate limits
func (r *RateLimitedForecastSource) Forecast(ctx context.Context, coord models.Coordinate) (models.Forecast, error) {
	if err := wait(ctx, r.limiter); err != nil {
		return models.Forecast{}, NewNetworkError(r.source.Name(), "forecast", err)
	}
	return r.source.Forecast(ctx, coord)
}

func (r *RateLimitedForecastSource) Name() string { return rateLimitedName(r.source.Name()) }

// RateLimitedAirQualitySource wraps an AirQualitySource with rate limiting
type RateLimitedAirQualitySource struct {
	source  AirQualitySource
	limiter *rate.Limiter
}

func (r *RateLimitedAirQualitySource) AirQuality(ctx context.Context, coord models.Coordinate) (models.AirQualityReading, error) {
	if err := wait(ctx, r.limiter); err != nil {
		return models.AirQualityReading{}, NewNetworkError(r.source.Name(), "air quality", err)
	}
	return r.source.AirQuality(ctx, coord)
}

func (r *RateLimitedAirQualitySource) Name() string { return rateLimitedName(r.source.Name()) }

// RateLimitedAlertSource wraps an AlertSource with rate limiting
type RateLimitedAlertSource struct {
	source  AlertSource
	limiter *rate.Limiter
}

func (r *RateLimitedAlertSource) Alerts(ctx context.Context, coord models.Coordinate) ([]models.WeatherAlert, error) {
	if err := wait(ctx, r.limiter); err != nil {
		return nil, NewNetworkError(r.source.Name(), "alerts", err)
	}
	return r.source.Alerts(ctx, coord)
}

func (r *RateLimitedAlertSource) Name() string { return rateLimitedName(r.source.Name()) }

// RateLimitedUVSource wraps a UVSource with rate limiting
type RateLimitedUVSource struct {
	source  UVSource
	limiter *rate.Limiter
}

func (r *RateLimitedUVSource) UVIndex(ctx context.Context, coord models.Coordinate) (float64, error) {
	if err := wait(ctx, r.limiter); err != nil {
		return 0, NewNetworkError(r.source.Name(), "uv", err)
	}
	return r.source.UVIndex(ctx, coord)
}

func (r *RateLimitedUVSource) Name() string { return rateLimitedName(r.source.Name()) }

// RateLimitedCitySearcher wraps a CitySearcher with rate limiting
type RateLimitedCitySearcher struct {
	source  CitySearcher
	limiter *rate.Limiter
}

func (r *RateLimitedCitySearcher) SearchCities(ctx context.Context, query string, limit int) ([]models.City, error) {
	if err := wait(ctx, r.limiter); err != nil {
		return nil, NewNetworkError(r.source.Name(), "search", err)
	}
	return r.source.SearchCities(ctx, query, limit)
}

func (r *RateLimitedCitySearcher) Name() string { return rateLimitedName(r.source.Name()) }

// Verify that our rate limited types implement the required interfaces
var (
	_ CurrentSource    = (*RateLimitedCurrentSource)(nil)
	_ ForecastSource   = (*RateLimitedForecastSource)(nil)
	_ AirQualitySource = (*RateLimitedAirQualitySource)(nil)
	_ AlertSource      = (*RateLimitedAlertSource)(nil)
	_ UVSource         = (*RateLimitedUVSource)(nil)
	_ CitySearcher     = (*RateLimitedCitySearcher)(nil)
)
